package entity

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/npcbrain/agent"
	"github.com/milk9111/npcbrain/ecs"
	"github.com/milk9111/npcbrain/ecs/component"
	"github.com/milk9111/npcbrain/effects"
	"github.com/milk9111/npcbrain/prefabs"
	"github.com/milk9111/npcbrain/timer"
)

func newWorld(t *testing.T) (*ecs.World, *agent.Factory) {
	t.Helper()
	clock := timer.NewManualClock(time.Unix(1000, 0))
	f, err := agent.NewFactory(prefabs.NewFSLoader(prefabs.DocumentsFS, ""), clock, nil)
	require.NoError(t, err)
	return ecs.NewWorld(clock), f
}

func TestBuildAgent(t *testing.T) {
	w, f := newWorld(t)

	e, a, err := BuildAgent(w, f, "sentry", cp.Vector{X: 2, Y: 3})
	require.NoError(t, err)
	assert.Equal(t, "sentry", a.ID)

	body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 2, Y: 3}, body.Position())

	brain, ok := ecs.Get(w, e, component.BrainComponent.Kind())
	require.True(t, ok)
	assert.Same(t, a, brain.Agent)
	assert.False(t, brain.Paused)

	pos, ok := a.Blackboard.Position()
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 2, Y: 3}, pos)
	assert.True(t, w.Now().Equal(a.Blackboard.Timers.Now()))
}

func TestBuildAgentFailureDestroysEntity(t *testing.T) {
	w, f := newWorld(t)

	e, a, err := BuildAgent(w, f, "nobody", cp.Vector{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nobody")
	assert.Nil(t, a)
	assert.Zero(t, e)
	assert.Empty(t, ecs.Entities(w))
}

func TestBuildHostile(t *testing.T) {
	w, _ := newWorld(t)

	e, err := BuildHostile(w, cp.Vector{X: 5}, 0.5)
	require.NoError(t, err)

	h, ok := ecs.Get(w, e, component.HostileComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 0.5, h.Gain)
	assert.False(t, ecs.Has(w, e, component.BrainComponent.Kind()))
}

func TestRequestEffectMerges(t *testing.T) {
	w, f := newWorld(t)
	e, _, err := BuildAgent(w, f, "grunt", cp.Vector{})
	require.NoError(t, err)

	require.NoError(t, RequestEffect(w, e, component.EffectRequest{Apply: []effects.StatusEffect{{ID: "a"}}}))
	require.NoError(t, RequestEffect(w, e, component.EffectRequest{Apply: []effects.StatusEffect{{ID: "b"}}, Lift: []string{"c"}}))

	req, ok := ecs.Get(w, e, component.EffectRequestComponent.Kind())
	require.True(t, ok)
	require.Len(t, req.Apply, 2)
	assert.Equal(t, "b", req.Apply[1].ID)
	assert.Equal(t, []string{"c"}, req.Lift)

	ecs.DestroyEntity(w, e)
	assert.Error(t, RequestEffect(w, e, component.EffectRequest{}))
}
