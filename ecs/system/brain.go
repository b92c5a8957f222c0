package system

import (
	"github.com/milk9111/npcbrain/bt"
	"github.com/milk9111/npcbrain/ecs"
	"github.com/milk9111/npcbrain/ecs/component"
)

// StatusChange is the payload of ecs.EventStatusChanged.
type StatusChange struct {
	Tree     string
	From, To bt.Status
}

// BrainSystem ticks every brain's active tree once per frame.
type BrainSystem struct{}

func NewBrainSystem() *BrainSystem {
	return &BrainSystem{}
}

func (s *BrainSystem) Update(w *ecs.World) {
	dt, frame := w.DeltaTime(), w.Frame()
	ecs.ForEach(w, component.BrainComponent.Kind(), func(e ecs.Entity, brain *component.Brain) {
		if brain.Agent == nil || brain.Paused {
			return
		}
		prev := brain.Agent.Status()
		st := brain.Agent.Tick(dt, frame)
		if st != prev {
			w.Events().Push(ecs.Event{
				Type:   ecs.EventStatusChanged,
				Entity: e,
				Frame:  frame,
				Data:   StatusChange{Tree: brain.Agent.TreeKey(), From: prev, To: st},
			})
		}
	})
}
