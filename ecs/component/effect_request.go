package component

import "github.com/milk9111/npcbrain/effects"

// EffectRequest asks the effect system to apply or lift status effects on
// the entity's agent this frame. It is removed once handled.
type EffectRequest struct {
	Apply []effects.StatusEffect
	Lift  []string
}

var EffectRequestComponent = NewComponent[EffectRequest]()
