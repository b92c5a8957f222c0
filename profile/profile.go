// Package profile holds the tunable value objects an entity document
// declares per family, and the fail-fast dictionaries they are looked up by.
package profile

import (
	"math"
	"time"

	"github.com/milk9111/npcbrain/intent"
	"github.com/milk9111/npcbrain/persona"
	"github.com/milk9111/npcbrain/timer"
)

type Movement struct {
	Type             string  `yaml:"type"`
	Speed            float64 `yaml:"speed"`
	Acceleration     float64 `yaml:"acceleration"`
	StoppingDistance float64 `yaml:"stopping_distance"`
	UpdateThreshold  float64 `yaml:"update_threshold"`
}

func (m Movement) Settings() intent.MovementSettings {
	return intent.MovementSettings{
		Type:             intent.Type(m.Type),
		Speed:            m.Speed,
		Acceleration:     m.Acceleration,
		StoppingDistance: m.StoppingDistance,
		UpdateThreshold:  m.UpdateThreshold,
	}
}

type Rotation struct {
	Type            string  `yaml:"type"`
	AngularSpeed    float64 `yaml:"angular_speed"`
	Tolerance       float64 `yaml:"tolerance"`
	UpdateThreshold float64 `yaml:"update_threshold"`
}

func (r Rotation) Settings() intent.RotationSettings {
	return intent.RotationSettings{
		Type:            intent.Type(r.Type),
		AngularSpeed:    r.AngularSpeed,
		Tolerance:       r.Tolerance,
		UpdateThreshold: r.UpdateThreshold,
	}
}

type Targeting struct {
	Range float64 `yaml:"range"`
}

// Timing values are in seconds.
type Timing struct {
	Wait     float64 `yaml:"wait"`
	Cooldown float64 `yaml:"cooldown"`
}

func (t Timing) WaitDuration() time.Duration     { return timer.Seconds(t.Wait) }
func (t Timing) CooldownDuration() time.Duration { return timer.Seconds(t.Cooldown) }

type Health struct {
	Max       float64 `yaml:"max"`
	FleeBelow float64 `yaml:"flee_below"`
}

// Fear turns the distance to a hostile into a threat stimulus.
type Fear struct {
	Radius float64 `yaml:"radius"`
	Gain   float64 `yaml:"gain"`
}

// Threat is Gain at distance zero, falling linearly to zero at Radius.
func (f Fear) Threat(distance float64) float64 {
	if f.Radius <= 0 {
		return 0
	}
	gain := f.Gain
	if gain == 0 {
		gain = 1
	}
	return gain * math.Max(0, 1-distance/f.Radius)
}

// Persona configures stimulus-driven tree switching. Curve names an entry
// of the curve family. Cooldown is in seconds.
type Persona struct {
	DefaultTree string         `yaml:"default_tree"`
	Stimulus    string         `yaml:"stimulus"`
	Curve       string         `yaml:"curve"`
	Margin      float64        `yaml:"margin"`
	Hysteresis  float64        `yaml:"hysteresis"`
	Cooldown    float64        `yaml:"cooldown"`
	Deadband    float64        `yaml:"deadband"`
	Rules       []persona.Rule `yaml:"rules"`
}

// Persona assembles the runtime persona from this profile and its curves.
func (p Persona) Persona(name string, curves CurveSet) persona.Persona {
	return persona.Persona{
		Name:        name,
		DefaultTree: p.DefaultTree,
		Stimulus:    p.Stimulus,
		Curves:      append([]persona.Curve(nil), curves...),
		Rules:       append([]persona.Rule(nil), p.Rules...),
		Switch: persona.Config{
			Margin:     p.Margin,
			Hysteresis: p.Hysteresis,
			Cooldown:   timer.Seconds(p.Cooldown),
			Deadband:   p.Deadband,
		},
	}
}

type CurveSet []persona.Curve
