package action

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/blackboard"
	"github.com/milk9111/npcbrain/bt"
	"github.com/milk9111/npcbrain/effects"
	"github.com/milk9111/npcbrain/intent"
	"github.com/milk9111/npcbrain/prefabs"
	"github.com/milk9111/npcbrain/profile"
	"github.com/milk9111/npcbrain/timer"
)

type rig struct {
	bb      *blackboard.Blackboard
	body    *cp.Body
	clock   *timer.ManualClock
	ctx     *bt.Context
	builder *bt.Builder
}

func newRig(t *testing.T) *rig {
	t.Helper()

	profiles, err := profile.Parse(map[string]map[string]any{
		"movement": {
			"default": map[string]any{"type": "kinematic", "speed": 4, "stopping_distance": 0.1},
			"walk":    map[string]any{"type": "kinematic", "speed": 2, "stopping_distance": 0.1},
		},
		"rotation": {
			"default": map[string]any{"type": "kinematic", "angular_speed": 90, "tolerance": 1},
		},
		"targeting": {
			"default": map[string]any{"range": 5},
		},
		"timing": {
			"patrol": map[string]any{"wait": 1, "cooldown": 2},
		},
	})
	require.NoError(t, err)

	body := cp.NewKinematicBody()
	body.SetPosition(cp.Vector{})
	move, err := intent.NewMovementRouter(nil, intent.NewKinematicMover(body))
	require.NoError(t, err)
	turn, err := intent.NewRotationRouter(nil, intent.NewKinematicRotator(body))
	require.NoError(t, err)

	clock := timer.NewManualClock(time.Unix(1000, 0))
	bb := blackboard.New("npc-1")
	bb.Profiles = profiles
	bb.Movement = move
	bb.Rotation = turn
	bb.Timers = timer.NewService(clock)
	bb.Effects = effects.NewBroker()
	bb.Pose = intent.BodyPose{Body: body}

	registry, err := NewRegistry()
	require.NoError(t, err)

	return &rig{
		bb:      bb,
		body:    body,
		clock:   clock,
		ctx:     &bt.Context{Blackboard: bb, Clock: clock, Logger: zap.NewNop(), DeltaTime: 1},
		builder: bt.NewBuilder(registry, map[string]any{"post": map[string]any{"x": 3, "y": 4}}),
	}
}

// tree builds src and hands the routers to its session.
func (r *rig) tree(t *testing.T, src string) *bt.Tree {
	t.Helper()
	doc, err := prefabs.ParseTree([]byte(src))
	require.NoError(t, err)
	tree, err := r.builder.Build(doc)
	require.NoError(t, err)
	r.bb.Movement.TakeOwnership(tree.Session)
	r.bb.Rotation.TakeOwnership(tree.Session)
	return tree
}

// step ticks the tree, then advances the executors and the clock by one
// second.
func (r *rig) step(tree *bt.Tree) bt.Status {
	st := tree.Tick(r.ctx)
	r.bb.Movement.Tick(1)
	r.bb.Rotation.Tick(1)
	r.clock.Advance(time.Second)
	return st
}
