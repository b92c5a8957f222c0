package action

import (
	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/bt"
	"github.com/milk9111/npcbrain/effects"
	"github.com/milk9111/npcbrain/intent"
)

// Multiplier names read from active status effects.
const (
	SpeedMultiplier     = "speed"
	TurnSpeedMultiplier = "turn_speed"
)

const (
	defaultProfile = "default"
	targetKey      = "target"
	profileKey     = "profile"
)

// MoveTo drives the movement router toward a target until the executor
// reports arrival. Leaving the node cancels the command.
type MoveTo struct {
	target  target
	profile string
}

func newMoveTo(spec bt.NodeSpec, _ bt.BuildFunc) (bt.Node, error) {
	cfg := bt.Config(spec.Config)
	tgt, err := parseTarget(cfg, targetKey)
	if err != nil {
		return nil, err
	}
	prof, err := cfg.String(profileKey, defaultProfile)
	if err != nil {
		return nil, err
	}
	return &MoveTo{target: tgt, profile: prof}, nil
}

func (m *MoveTo) Tick(ctx *bt.Context) bt.Status {
	bb := ctx.Blackboard
	if bb == nil || bb.Movement == nil {
		return ctx.Fail("move_to", "no movement router")
	}
	prof, err := bb.Profiles.Movement.Lookup(m.profile)
	if err != nil {
		return ctx.Fail("move_to", err.Error())
	}
	dest, ok := m.target.resolve(bb)
	if !ok {
		return ctx.Fail("move_to", "target unresolved", zap.Stringer("target", m.target))
	}

	settings := prof.Settings()
	settings.Speed *= bb.Effects.Multiplier(SpeedMultiplier)
	if bb.Movement.TryIssueIntent(dest, settings, ctx.Session) == intent.Rejected {
		return ctx.Fail("move_to", "intent rejected")
	}
	if bb.Movement.AtDestination() {
		return bt.Success
	}
	return bt.Running
}

func (m *MoveTo) Reset(*bt.Context) {}

func (m *MoveTo) OnExit(ctx *bt.Context) {
	if bb := ctx.Blackboard; bb != nil && bb.Movement != nil {
		bb.Movement.Cancel(ctx.Session)
	}
}

// Face turns the agent toward a target through the rotation router.
type Face struct {
	target  target
	profile string
}

func newFace(spec bt.NodeSpec, _ bt.BuildFunc) (bt.Node, error) {
	cfg := bt.Config(spec.Config)
	tgt, err := parseTarget(cfg, targetKey)
	if err != nil {
		return nil, err
	}
	prof, err := cfg.String(profileKey, defaultProfile)
	if err != nil {
		return nil, err
	}
	return &Face{target: tgt, profile: prof}, nil
}

func (f *Face) Tick(ctx *bt.Context) bt.Status {
	bb := ctx.Blackboard
	if bb == nil || bb.Rotation == nil {
		return ctx.Fail("face", "no rotation router")
	}
	prof, err := bb.Profiles.Rotation.Lookup(f.profile)
	if err != nil {
		return ctx.Fail("face", err.Error())
	}
	at, ok := f.target.resolve(bb)
	if !ok {
		return ctx.Fail("face", "target unresolved", zap.Stringer("target", f.target))
	}

	settings := prof.Settings()
	settings.AngularSpeed *= bb.Effects.Multiplier(TurnSpeedMultiplier)
	if bb.Rotation.TryIssueIntent(at, settings, ctx.Session) == intent.Rejected {
		return ctx.Fail("face", "intent rejected")
	}
	if bb.Rotation.AtDestination() {
		return bt.Success
	}
	return bt.Running
}

func (f *Face) Reset(*bt.Context) {}

func (f *Face) OnExit(ctx *bt.Context) {
	if bb := ctx.Blackboard; bb != nil && bb.Rotation != nil {
		bb.Rotation.Cancel(ctx.Session)
	}
}

// IsBlocked succeeds while status effects block a domain.
type IsBlocked struct {
	domain effects.Domain
}

func newIsBlocked(spec bt.NodeSpec, _ bt.BuildFunc) (bt.Node, error) {
	d, err := bt.Config(spec.Config).String("domain", string(effects.DomainMovement))
	if err != nil {
		return nil, err
	}
	return &IsBlocked{domain: effects.Domain(d)}, nil
}

func (n *IsBlocked) Tick(ctx *bt.Context) bt.Status {
	if ctx.Blackboard == nil || ctx.Blackboard.Effects == nil {
		return bt.Failure
	}
	if ctx.Blackboard.Blocked(n.domain) {
		return bt.Success
	}
	return bt.Failure
}

func (n *IsBlocked) Reset(*bt.Context) {}
