package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/ecs"
	"github.com/milk9111/npcbrain/ecs/component"
)

// PersonaSystem lets each brain's switcher react to the current stimulus
// and reports every tree switch.
type PersonaSystem struct {
	log *zap.Logger
}

func NewPersonaSystem(log *zap.Logger) *PersonaSystem {
	return &PersonaSystem{log: orNop(log)}
}

func (s *PersonaSystem) Update(w *ecs.World) {
	now := w.Now()
	ecs.ForEach(w, component.BrainComponent.Kind(), func(e ecs.Entity, brain *component.Brain) {
		if brain.Agent == nil || brain.Paused {
			return
		}
		ev, switched, err := brain.Agent.EvaluateStimulus(now)
		if err != nil {
			s.log.Error("tree switch failed",
				zap.Object("entity", e),
				zap.String("to", ev.To),
				zap.Error(err))
			w.Events().Push(ecs.Event{Type: ecs.EventBuildFailed, Entity: e, Frame: w.Frame(), Data: err})
			return
		}
		if switched {
			w.Events().Push(ecs.Event{Type: ecs.EventTreeSwitched, Entity: e, Frame: w.Frame(), Data: ev})
		}
	})
}
