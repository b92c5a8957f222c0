package action

import (
	"fmt"

	"github.com/milk9111/npcbrain/bt"
	"github.com/milk9111/npcbrain/persona"
	"github.com/milk9111/npcbrain/prefabs"
)

// UtilitySelector scores each child with its own curve against a stimulus
// and runs the winner. A new winner must hold for MinStableFrames ticks
// before the selector switches, and the child it leaves is reset.
type UtilitySelector struct {
	stimulus string
	curves   []persona.Curve
	children []bt.Node
	chooser  *persona.StableChooser
}

func newUtilitySelector(spec bt.NodeSpec, build bt.BuildFunc) (bt.Node, error) {
	cfg := bt.Config(spec.Config)
	stimulus, err := cfg.String("stimulus", "")
	if err != nil {
		return nil, err
	}
	if stimulus == "" {
		return nil, fmt.Errorf("stimulus is required")
	}
	frames, err := cfg.Int("min_stable_frames", 1)
	if err != nil {
		return nil, err
	}
	var curves []persona.Curve
	if cfg.Has("curves") {
		if curves, err = prefabs.DecodeSpec[[]persona.Curve](cfg.Raw("curves")); err != nil {
			return nil, fmt.Errorf("curves: %w", err)
		}
	}
	for _, c := range curves {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	children, err := bt.BuildChildren(spec, build)
	if err != nil {
		return nil, err
	}
	if len(curves) != len(children) {
		return nil, fmt.Errorf("%d curves for %d children", len(curves), len(children))
	}
	return &UtilitySelector{
		stimulus: stimulus,
		curves:   curves,
		children: children,
		chooser:  persona.NewStableChooser(frames),
	}, nil
}

func (u *UtilitySelector) Tick(ctx *bt.Context) bt.Status {
	if len(u.children) == 0 {
		return bt.Failure
	}
	x := ctx.Blackboard.Stimulus(u.stimulus)
	scores := make([]float64, len(u.curves))
	for i, c := range u.curves {
		scores[i] = c.Score(x)
	}

	prev := u.chooser.Current()
	next := u.chooser.Choose(scores)
	if prev >= 0 && prev != next {
		u.children[prev].Reset(ctx)
	}
	return u.children[next].Tick(ctx)
}

func (u *UtilitySelector) Reset(ctx *bt.Context) {
	if cur := u.chooser.Current(); cur >= 0 {
		u.children[cur].Reset(ctx)
	}
	u.chooser.Reset()
}

// Selected returns the committed child index, or -1 before the first tick.
func (u *UtilitySelector) Selected() int { return u.chooser.Current() }

func (u *UtilitySelector) Children() []bt.Node { return u.children }
