// Package action holds the domain leaves and decorators that behavior trees
// use to drive an agent: movement, rotation, targeting, timers, conditions
// and scripts.
package action

import (
	"fmt"

	"github.com/milk9111/npcbrain/bt"
)

var factories = []struct {
	alias string
	f     bt.Factory
}{
	{"move_to", newMoveTo},
	{"face", newFace},
	{"is_blocked", newIsBlocked},
	{"pick_target", newPickTarget},
	{"condition", newCondition},
	{"script", newScript},
	{"set_value", newSetValue},
	{"log", newLog},
	{"cooldown", newCooldown},
	{"utility_selector", newUtilitySelector},
}

// Register adds the action aliases to r.
func Register(r *bt.Registry) error {
	for _, e := range factories {
		if err := r.Register(e.alias, e.f); err != nil {
			return fmt.Errorf("action: %w", err)
		}
	}
	return nil
}

// NewRegistry returns a registry holding the builtins and the actions.
func NewRegistry() (*bt.Registry, error) {
	r := bt.NewRegistry()
	if err := bt.RegisterBuiltins(r); err != nil {
		return nil, err
	}
	if err := Register(r); err != nil {
		return nil, err
	}
	return r, nil
}
