// Package blackboard is the per-agent scratch space shared by every node and
// assembler module of one agent.
package blackboard

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/npcbrain/effects"
	"github.com/milk9111/npcbrain/intent"
	"github.com/milk9111/npcbrain/persona"
	"github.com/milk9111/npcbrain/profile"
	"github.com/milk9111/npcbrain/timer"
)

// Blackboard belongs to exactly one agent. It is not safe for concurrent
// use; the whole runtime is single-threaded.
type Blackboard struct {
	EntityID string
	// Session is the session of the active tree.
	Session uuid.UUID

	Profiles *profile.Set
	Movement *intent.MovementRouter
	Rotation *intent.RotationRouter
	Timers   *timer.Service
	Effects  *effects.Broker
	Pose     intent.Pose
	Persona  *persona.Persona

	stimuli map[string]float64
	values  map[string]any
}

func New(entityID string) *Blackboard {
	return &Blackboard{
		EntityID: entityID,
		Profiles: profile.NewSet(),
		stimuli:  map[string]float64{},
		values:   map[string]any{},
	}
}

func (b *Blackboard) Get(key string) any {
	if b == nil {
		return nil
	}
	return b.values[key]
}

func (b *Blackboard) Lookup(key string) (any, bool) {
	if b == nil {
		return nil, false
	}
	v, ok := b.values[key]
	return v, ok
}

func (b *Blackboard) Set(key string, value any) {
	if b.values == nil {
		b.values = map[string]any{}
	}
	b.values[key] = value
}

func (b *Blackboard) Has(key string) bool {
	_, ok := b.Lookup(key)
	return ok
}

func (b *Blackboard) Delete(key string) {
	if b == nil {
		return
	}
	delete(b.values, key)
}

func (b *Blackboard) Keys() []string {
	if b == nil {
		return nil
	}
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a shallow copy of the scratch values.
func (b *Blackboard) Snapshot() map[string]any {
	out := make(map[string]any, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

func (b *Blackboard) Stimulus(name string) float64 {
	if b == nil {
		return 0
	}
	return b.stimuli[name]
}

func (b *Blackboard) SetStimulus(name string, v float64) {
	if b.stimuli == nil {
		b.stimuli = map[string]float64{}
	}
	b.stimuli[name] = v
}

func (b *Blackboard) Stimuli() map[string]float64 {
	out := make(map[string]float64, len(b.stimuli))
	for k, v := range b.stimuli {
		out[k] = v
	}
	return out
}

// Vector reads a position stored under key. Accepted shapes are cp.Vector,
// *cp.Vector and a map with x and y entries.
func (b *Blackboard) Vector(key string) (cp.Vector, bool) {
	v, ok := b.Lookup(key)
	if !ok {
		return cp.Vector{}, false
	}
	return ToVector(v)
}

// Position returns the agent position from its pose.
func (b *Blackboard) Position() (cp.Vector, bool) {
	if b == nil || b.Pose == nil {
		return cp.Vector{}, false
	}
	return b.Pose.Position(), true
}

// Blocked reports whether status effects currently block domain.
func (b *Blackboard) Blocked(domain effects.Domain) bool {
	if b == nil {
		return false
	}
	return b.Effects.Blocked(domain)
}

// Listeners returns the attached routers as effect listeners.
func (b *Blackboard) Listeners() []effects.Listener {
	var out []effects.Listener
	if b.Movement != nil {
		out = append(out, b.Movement)
	}
	if b.Rotation != nil {
		out = append(out, b.Rotation)
	}
	return out
}

// Env exposes the blackboard to condition expressions and scripts: scratch
// values and stimuli by name, plus entity, position and blocked(domain).
func (b *Blackboard) Env() map[string]any {
	env := make(map[string]any, len(b.values)+len(b.stimuli)+4)
	for k, v := range b.values {
		if vec, ok := v.(cp.Vector); ok {
			v = VectorMap(vec)
		}
		env[k] = v
	}
	for k, v := range b.stimuli {
		env[k] = v
	}
	env["entity"] = b.EntityID
	if pos, ok := b.Position(); ok {
		env["position"] = VectorMap(pos)
	}
	env["blocked"] = func(domain string) bool {
		return b.Blocked(effects.Domain(domain))
	}
	return env
}

func ToVector(v any) (cp.Vector, bool) {
	switch t := v.(type) {
	case cp.Vector:
		return t, true
	case *cp.Vector:
		if t == nil {
			return cp.Vector{}, false
		}
		return *t, true
	case map[string]any:
		x, okX := toFloat(t["x"])
		y, okY := toFloat(t["y"])
		return cp.Vector{X: x, Y: y}, okX && okY
	case map[string]float64:
		x, okX := t["x"]
		y, okY := t["y"]
		return cp.Vector{X: x, Y: y}, okX && okY
	default:
		return cp.Vector{}, false
	}
}

func VectorMap(v cp.Vector) map[string]any {
	return map[string]any{"x": v.X, "y": v.Y}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	default:
		return 0, false
	}
}

func (b *Blackboard) String() string {
	return fmt.Sprintf("blackboard(%s, session=%s, %d values)", b.EntityID, b.Session, len(b.values))
}
