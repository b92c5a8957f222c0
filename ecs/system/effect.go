package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/ecs"
	"github.com/milk9111/npcbrain/ecs/component"
	"github.com/milk9111/npcbrain/effects"
)

// EffectSystem applies and lifts requested status effects, then expires
// effects that ran out. Routers hear about every domain flip before the
// brains tick.
type EffectSystem struct {
	log *zap.Logger
}

func NewEffectSystem(log *zap.Logger) *EffectSystem {
	return &EffectSystem{log: orNop(log)}
}

func (s *EffectSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.BrainComponent.Kind(), component.EffectRequestComponent.Kind(), func(e ecs.Entity, brain *component.Brain, req *component.EffectRequest) {
		defer ecs.Remove(w, e, component.EffectRequestComponent.Kind())
		if brain.Agent == nil {
			return
		}
		for _, fx := range req.Apply {
			t, err := brain.Agent.ApplyEffect(fx)
			if err != nil {
				s.log.Warn("effect rejected", zap.Object("entity", e), zap.String("effect", fx.ID), zap.Error(err))
				continue
			}
			w.Events().Push(ecs.Event{Type: ecs.EventEffectApplied, Entity: e, Frame: w.Frame(), Data: fx.ID})
			pushTransition(w, e, t)
		}
		for _, id := range req.Lift {
			t := brain.Agent.LiftEffect(id)
			w.Events().Push(ecs.Event{Type: ecs.EventEffectLifted, Entity: e, Frame: w.Frame(), Data: id})
			pushTransition(w, e, t)
		}
	})

	now := w.Now()
	ecs.ForEach(w, component.BrainComponent.Kind(), func(e ecs.Entity, brain *component.Brain) {
		if brain.Agent == nil {
			return
		}
		pushTransition(w, e, brain.Agent.ExpireEffects(now))
	})
}

func pushTransition(w *ecs.World, e ecs.Entity, t effects.Transition) {
	if t.Empty() {
		return
	}
	w.Events().Push(ecs.Event{Type: ecs.EventDomainChanged, Entity: e, Frame: w.Frame(), Data: t})
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
