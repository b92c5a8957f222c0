package system

import (
	"github.com/milk9111/npcbrain/ecs"
	"github.com/milk9111/npcbrain/ecs/component"
)

// MotionSystem advances the executors brains issued commands to, then the
// navigation agents that follow their own routes.
type MotionSystem struct{}

func NewMotionSystem() *MotionSystem {
	return &MotionSystem{}
}

func (s *MotionSystem) Update(w *ecs.World) {
	dt := w.DeltaTime()
	ecs.ForEach(w, component.BrainComponent.Kind(), func(_ ecs.Entity, brain *component.Brain) {
		if brain.Agent != nil {
			brain.Agent.Actuate(dt)
		}
	})
	ecs.ForEach(w, component.NavComponent.Kind(), func(_ ecs.Entity, n *component.Nav) {
		if n.Agent != nil {
			n.Agent.Tick(dt)
		}
	})
}
