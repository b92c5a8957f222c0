package component

import "github.com/milk9111/npcbrain/agent"

// Brain attaches a running agent to an entity.
type Brain struct {
	Agent *agent.Agent
	// Paused brains are neither evaluated nor ticked.
	Paused bool
}

var BrainComponent = NewComponent[Brain]()
