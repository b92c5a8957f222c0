package action

import (
	"math"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/blackboard"
	"github.com/milk9111/npcbrain/bt"
)

// PickTarget copies the nearest candidate position from a blackboard list
// into a target key. A targeting profile limits the search range.
type PickTarget struct {
	from     string
	into     string
	profile  string
	explicit bool
}

func newPickTarget(spec bt.NodeSpec, _ bt.BuildFunc) (bt.Node, error) {
	cfg := bt.Config(spec.Config)
	from, err := cfg.String("from", "hostiles")
	if err != nil {
		return nil, err
	}
	into, err := cfg.String("into", targetKey)
	if err != nil {
		return nil, err
	}
	prof, err := cfg.String(profileKey, defaultProfile)
	if err != nil {
		return nil, err
	}
	return &PickTarget{from: from, into: into, profile: prof, explicit: cfg.Has(profileKey)}, nil
}

func (p *PickTarget) Tick(ctx *bt.Context) bt.Status {
	bb := ctx.Blackboard
	if bb == nil {
		return ctx.Fail("pick_target", "no blackboard")
	}
	pos, ok := bb.Position()
	if !ok {
		return ctx.Fail("pick_target", "no pose")
	}

	limit := math.Inf(1)
	switch {
	case bb.Profiles != nil && bb.Profiles.Targeting.Has(p.profile):
		prof, _ := bb.Profiles.Targeting.Lookup(p.profile)
		if prof.Range > 0 {
			limit = prof.Range
		}
	case p.explicit:
		_, err := bb.Profiles.Targeting.Lookup(p.profile)
		return ctx.Fail("pick_target", err.Error())
	}

	best, found := cp.Vector{}, false
	bestDist := limit
	for _, c := range candidates(bb.Get(p.from)) {
		if d := pos.Distance(c); d <= bestDist {
			best, bestDist, found = c, d, true
		}
	}
	if !found {
		return ctx.Fail("pick_target", "no candidate in range", zap.String("from", p.from))
	}
	bb.Set(p.into, best)
	return bt.Success
}

func (p *PickTarget) Reset(*bt.Context) {}

func candidates(raw any) []cp.Vector {
	switch t := raw.(type) {
	case []cp.Vector:
		return t
	case []any:
		out := make([]cp.Vector, 0, len(t))
		for _, v := range t {
			if vec, ok := blackboard.ToVector(v); ok {
				out = append(out, vec)
			}
		}
		return out
	default:
		if vec, ok := blackboard.ToVector(raw); ok {
			return []cp.Vector{vec}
		}
		return nil
	}
}
