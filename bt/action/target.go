package action

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/npcbrain/blackboard"
	"github.com/milk9111/npcbrain/bt"
)

// target is either a fixed point from config or a blackboard key read each
// tick.
type target struct {
	key   string
	point cp.Vector
}

func parseTarget(cfg bt.Config, name string) (target, error) {
	raw, ok := cfg[name]
	if !ok || raw == nil {
		return target{}, fmt.Errorf("%s is required", name)
	}
	if key, ok := raw.(string); ok {
		if key == "" {
			return target{}, fmt.Errorf("%s is empty", name)
		}
		return target{key: key}, nil
	}
	if p, ok := blackboard.ToVector(raw); ok {
		return target{point: p}, nil
	}
	return target{}, fmt.Errorf("%s: want blackboard key or {x, y}, got %T", name, raw)
}

func (t target) resolve(bb *blackboard.Blackboard) (cp.Vector, bool) {
	if t.key == "" {
		return t.point, true
	}
	return bb.Vector(t.key)
}

func (t target) String() string {
	if t.key != "" {
		return t.key
	}
	return fmt.Sprintf("(%g, %g)", t.point.X, t.point.Y)
}
