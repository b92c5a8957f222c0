package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/npcbrain/ecs"
	"github.com/milk9111/npcbrain/ecs/component"
)

const (
	// HostilesKey is the blackboard key the sensor writes hostile positions
	// to.
	HostilesKey     = "hostiles"
	defaultStimulus = "threat"
	fearProfile     = "default"
)

// SensorSystem writes what each brain perceives into its blackboard: the
// positions of all hostiles and the threat stimulus from its fear profile.
type SensorSystem struct{}

func NewSensorSystem() *SensorSystem {
	return &SensorSystem{}
}

func (s *SensorSystem) Update(w *ecs.World) {
	type hostile struct {
		pos  cp.Vector
		gain float64
	}
	var hostiles []hostile
	ecs.ForEach2(w, component.HostileComponent.Kind(), component.BodyComponent.Kind(), func(_ ecs.Entity, h *component.Hostile, body *component.Body) {
		gain := h.Gain
		if gain == 0 {
			gain = 1
		}
		hostiles = append(hostiles, hostile{pos: body.Position(), gain: gain})
	})

	ecs.ForEach2(w, component.BrainComponent.Kind(), component.BodyComponent.Kind(), func(_ ecs.Entity, brain *component.Brain, body *component.Body) {
		if brain.Agent == nil {
			return
		}
		bb := brain.Agent.Blackboard
		pos := body.Position()

		positions := make([]cp.Vector, 0, len(hostiles))
		for _, h := range hostiles {
			positions = append(positions, h.pos)
		}
		bb.Set(HostilesKey, positions)

		fear, err := bb.Profiles.Fear.Lookup(fearProfile)
		if err != nil {
			return
		}
		threat := 0.0
		for _, h := range hostiles {
			threat = math.Max(threat, h.gain*fear.Threat(pos.Distance(h.pos)))
		}

		stimulus := defaultStimulus
		if bb.Persona != nil && bb.Persona.Stimulus != "" {
			stimulus = bb.Persona.Stimulus
		}
		bb.SetStimulus(stimulus, threat)
	})
}
