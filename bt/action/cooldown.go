package action

import (
	"fmt"
	"time"

	"github.com/milk9111/npcbrain/bt"
)

// Cooldown fails while its named timer is active. When the child finishes
// the timer starts again.
type Cooldown struct {
	child    bt.Node
	timer    string
	duration time.Duration
	profile  string
}

func newCooldown(spec bt.NodeSpec, build bt.BuildFunc) (bt.Node, error) {
	cfg := bt.Config(spec.Config)
	name, err := cfg.String("timer", "")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("timer is required")
	}
	d, err := cfg.Seconds("seconds", 0)
	if err != nil {
		return nil, err
	}
	prof, err := cfg.String(profileKey, "")
	if err != nil {
		return nil, err
	}
	if prof == "" && !cfg.Has("seconds") {
		return nil, fmt.Errorf("seconds or profile is required")
	}
	child, err := bt.BuildChild(spec, build)
	if err != nil {
		return nil, err
	}
	return &Cooldown{child: child, timer: name, duration: d, profile: prof}, nil
}

func (c *Cooldown) Tick(ctx *bt.Context) bt.Status {
	bb := ctx.Blackboard
	if bb == nil || bb.Timers == nil {
		return ctx.Fail("cooldown", "no timer service")
	}
	if bb.Timers.Active(c.timer) {
		return bt.Failure
	}

	st := bt.Success
	if c.child != nil {
		st = c.child.Tick(ctx)
	}
	if !st.Terminal() {
		return st
	}

	d := c.duration
	if c.profile != "" {
		prof, err := bb.Profiles.Timing.Lookup(c.profile)
		if err != nil {
			return ctx.Fail("cooldown", err.Error())
		}
		d = prof.CooldownDuration()
	}
	bb.Timers.Start(c.timer, d)
	return st
}

func (c *Cooldown) Reset(ctx *bt.Context) {
	if c.child != nil {
		c.child.Reset(ctx)
	}
}

func (c *Cooldown) Children() []bt.Node {
	if c.child == nil {
		return nil
	}
	return []bt.Node{c.child}
}
