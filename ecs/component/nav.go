package component

import "github.com/milk9111/npcbrain/nav"

// Nav is the grid navigation agent behind an entity's navmesh executor.
type Nav struct {
	Agent *nav.Agent
}

var NavComponent = NewComponent[Nav]()
