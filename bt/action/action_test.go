package action

import (
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milk9111/npcbrain/bt"
	"github.com/milk9111/npcbrain/effects"
	"github.com/milk9111/npcbrain/prefabs"
)

func TestMoveToRunsUntilArrival(t *testing.T) {
	r := newRig(t)
	tree := r.tree(t, `
id: t
root:
  type: move_to
  config: { target: { x: 8, y: 0 } }
`)

	assert.Equal(t, bt.Running, r.step(tree))
	assert.InDelta(t, 4, r.body.Position().X, 1e-9)
	assert.Equal(t, bt.Running, r.step(tree))
	assert.Equal(t, bt.Success, r.step(tree))
	assert.InDelta(t, 8, r.body.Position().X, 1e-9)
	assert.False(t, r.bb.Movement.AtDestination(), "finishing cancels the command")
}

func TestMoveToAppliesSpeedMultiplier(t *testing.T) {
	r := newRig(t)
	_, err := r.bb.Effects.Apply(effects.StatusEffect{ID: "slow", Multipliers: map[string]float64{SpeedMultiplier: 0.5}})
	require.NoError(t, err)

	tree := r.tree(t, `
id: t
root:
  type: move_to
  config: { target: { x: 8, y: 0 } }
`)
	r.step(tree)
	assert.InDelta(t, 2, r.body.Position().X, 1e-9)
}

func TestMoveToFailures(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing key", `{id: t, root: {type: move_to, config: {target: nowhere}}}`},
		{"unknown profile", `{id: t, root: {type: move_to, config: {target: {x: 1, y: 1}, profile: sprint}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t)
			assert.Equal(t, bt.Failure, r.step(r.tree(t, tt.src)))
		})
	}
}

func TestMoveToStaleSessionRejected(t *testing.T) {
	r := newRig(t)
	src := `{id: t, root: {type: move_to, config: {target: {x: 8, y: 0}}}}`
	stale := r.tree(t, src)
	current := r.tree(t, src)

	assert.Equal(t, bt.Failure, r.step(stale))
	assert.Equal(t, bt.Running, r.step(current))
}

func TestMoveToInterruptCancels(t *testing.T) {
	r := newRig(t)
	tree := r.tree(t, `{id: t, root: {type: move_to, config: {target: {x: 8, y: 0}}}}`)
	require.Equal(t, bt.Running, r.step(tree))

	tree.Reset(r.ctx)
	_, ok := r.bb.Movement.Target()
	assert.False(t, ok)

	r.bb.Movement.Tick(1)
	assert.InDelta(t, 4, r.body.Position().X, 1e-9, "cancelled mover stays put")
}

func TestFace(t *testing.T) {
	r := newRig(t)
	r.bb.Set("threat_pos", cp.Vector{X: 0, Y: 5})
	tree := r.tree(t, `{id: t, root: {type: face, config: {target: threat_pos}}}`)

	assert.Equal(t, bt.Running, r.step(tree))
	assert.Equal(t, bt.Success, r.step(tree))
	assert.InDelta(t, 90, r.body.Angle()*180/math.Pi, 1)
}

func TestIsBlocked(t *testing.T) {
	r := newRig(t)
	tree := r.tree(t, `{id: t, root: {type: is_blocked, config: {domain: rotation}}}`)
	assert.Equal(t, bt.Failure, tree.Tick(r.ctx))

	_, err := r.bb.Effects.Apply(effects.StatusEffect{ID: "stun", Domains: []effects.Domain{effects.DomainRotation}})
	require.NoError(t, err)
	assert.Equal(t, bt.Success, tree.Tick(r.ctx))

	r.bb.Effects.Lift("stun")
	assert.Equal(t, bt.Failure, tree.Tick(r.ctx))
}

func TestCondition(t *testing.T) {
	r := newRig(t)
	tree := r.tree(t, `{id: t, root: {type: condition, config: {expr: "threat < 0.5 && entity == 'npc-1'"}}}`)

	r.bb.SetStimulus("threat", 0.2)
	assert.Equal(t, bt.Success, tree.Tick(r.ctx))
	r.bb.SetStimulus("threat", 0.7)
	assert.Equal(t, bt.Failure, tree.Tick(r.ctx))

	undefined := r.tree(t, `{id: t, root: {type: condition, config: {expr: "missing == nil"}}}`)
	assert.Equal(t, bt.Success, undefined.Tick(r.ctx))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"condition syntax", `{id: t, root: {type: condition, config: {expr: "threat <"}}}`},
		{"condition not bool", `{id: t, root: {type: condition, config: {expr: "1 + 1"}}}`},
		{"condition empty", `{id: t, root: {type: condition}}`},
		{"script syntax", `{id: t, root: {type: script, config: {source: "x := "}}}`},
		{"script empty", `{id: t, root: {type: script}}`},
		{"move_to target", `{id: t, root: {type: move_to, config: {target: 3}}}`},
		{"log level", `{id: t, root: {type: log, config: {level: loud}}}`},
		{"set_value key", `{id: t, root: {type: set_value}}`},
		{"cooldown duration", `{id: t, root: {type: cooldown, config: {timer: c}}}`},
		{"utility curves", `{id: t, root: {type: utility_selector, config: {stimulus: s, curves: [{type: linear}]}, children: [{type: succeed}, {type: fail}]}}`},
		{"utility curve type", `{id: t, root: {type: utility_selector, config: {stimulus: s, curves: [{type: cubic}]}, children: [{type: succeed}]}}`},
	}
	r := newRig(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := prefabs.ParseTree([]byte(tt.src))
			require.NoError(t, err)
			_, err = r.builder.Build(doc)
			assert.Error(t, err)
		})
	}
}

func TestScript(t *testing.T) {
	r := newRig(t)
	tree := r.tree(t, `
id: t
root:
  type: script
  config:
    params: { n: 2 }
    source: |
      npc.set("doubled", params.n * 2)
      if npc.stimulus("threat") > 0.5 {
        status = "running"
      }
`)

	assert.Equal(t, bt.Success, tree.Tick(r.ctx))
	assert.Equal(t, 4, r.bb.Get("doubled"))

	r.bb.SetStimulus("threat", 0.9)
	assert.Equal(t, bt.Running, tree.Tick(r.ctx))
	r.bb.SetStimulus("threat", 0)
	assert.Equal(t, bt.Success, tree.Tick(r.ctx), "status resets every run")
}

func TestScriptVectors(t *testing.T) {
	r := newRig(t)
	r.body.SetPosition(cp.Vector{X: 1, Y: 1})
	r.bb.Set("threat_pos", cp.Vector{X: 4, Y: 5})
	tree := r.tree(t, `
id: t
root:
  type: script
  config:
    source: |
      p := npc.position()
      q := npc.get("threat_pos")
      npc.set("away", { x: p.x - (q.x - p.x), y: p.y - (q.y - p.y) })
      if npc.blocked("movement") {
        status = "failure"
      }
`)

	require.Equal(t, bt.Success, tree.Tick(r.ctx))
	away, ok := r.bb.Vector("away")
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: -2, Y: -3}, away)

	_, err := r.bb.Effects.Apply(effects.StatusEffect{ID: "root", Domains: []effects.Domain{effects.DomainMovement}})
	require.NoError(t, err)
	assert.Equal(t, bt.Failure, tree.Tick(r.ctx))
}

func TestScriptUnknownStatusFails(t *testing.T) {
	r := newRig(t)
	tree := r.tree(t, `{id: t, root: {type: script, config: {source: "status = \"maybe\""}}}`)
	assert.Equal(t, bt.Failure, tree.Tick(r.ctx))
}

func TestSetValueAndLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newRig(t)
	r.ctx.Logger = zap.New(core)

	tree := r.tree(t, `
id: t
root:
  type: sequence
  children:
    - type: set_value
      config: { key: post, value: { x: 1, y: 2 } }
    - type: log
      config: { message: "posted", level: warn }
`)
	require.Equal(t, bt.Success, tree.Tick(r.ctx))

	v, ok := r.bb.Vector("post")
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 1, Y: 2}, v)

	entries := logs.FilterMessage("posted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "npc-1", entries[0].ContextMap()["entity"])
}

func TestPickTarget(t *testing.T) {
	r := newRig(t)
	tree := r.tree(t, `{id: t, root: {type: pick_target, config: {from: hostiles, into: target}}}`)

	r.bb.Set("hostiles", []any{
		map[string]any{"x": 10, "y": 0},
		map[string]any{"x": 3, "y": 0},
		cp.Vector{X: 4, Y: 1},
	})
	require.Equal(t, bt.Success, tree.Tick(r.ctx))
	got, _ := r.bb.Vector("target")
	assert.Equal(t, cp.Vector{X: 3, Y: 0}, got)

	r.bb.Set("hostiles", []cp.Vector{{X: 10, Y: 0}})
	assert.Equal(t, bt.Failure, tree.Tick(r.ctx), "outside targeting range")

	missing := r.tree(t, `{id: t, root: {type: pick_target, config: {profile: sniper}}}`)
	assert.Equal(t, bt.Failure, missing.Tick(r.ctx))
}

func TestCooldown(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"seconds", "{timer: c, seconds: 2}"},
		{"profile", "{timer: c, profile: patrol}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t)
			tree := r.tree(t, `{id: t, root: {type: cooldown, config: `+tt.config+`, child: {type: succeed}}}`)

			assert.Equal(t, bt.Success, tree.Tick(r.ctx))
			assert.Equal(t, bt.Failure, tree.Tick(r.ctx))
			r.clock.Advance(1500 * time.Millisecond)
			assert.Equal(t, bt.Failure, tree.Tick(r.ctx))
			r.clock.Advance(500 * time.Millisecond)
			assert.Equal(t, bt.Success, tree.Tick(r.ctx))
		})
	}
}

func TestUtilitySelectorWaitsForStableWinner(t *testing.T) {
	r := newRig(t)
	tree := r.tree(t, `
id: t
root:
  type: utility_selector
  config:
    stimulus: threat
    min_stable_frames: 2
    curves:
      - { type: gaussian, center: 0, sharpness: 4, max: 1 }
      - { type: sigmoid, center: 0.5, sharpness: 10, max: 1 }
  children:
    - type: sequence
      children:
        - { type: set_value, config: { key: mode, value: calm } }
        - { type: running }
    - type: sequence
      children:
        - { type: set_value, config: { key: mode, value: danger } }
        - { type: running }
`)
	sel, ok := tree.Root.(*UtilitySelector)
	require.True(t, ok)
	assert.Equal(t, -1, sel.Selected())

	assert.Equal(t, bt.Running, tree.Tick(r.ctx))
	assert.Equal(t, "calm", r.bb.Get("mode"))

	r.bb.SetStimulus("threat", 1)
	tree.Tick(r.ctx)
	assert.Equal(t, "calm", r.bb.Get("mode"), "one frame is not stable")
	assert.Equal(t, 0, sel.Selected())

	tree.Tick(r.ctx)
	assert.Equal(t, "danger", r.bb.Get("mode"))
	assert.Equal(t, 1, sel.Selected())

	r.bb.SetStimulus("threat", 0)
	tree.Tick(r.ctx)
	tree.Tick(r.ctx)
	assert.Equal(t, "calm", r.bb.Get("mode"), "the left child restarted from its first node")

	tree.Reset(r.ctx)
	assert.Equal(t, -1, sel.Selected())
}

func TestRegisterTwiceFails(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	assert.Error(t, Register(reg))
	assert.Contains(t, reg.Aliases(), "utility_selector")
}
