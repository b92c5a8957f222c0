package profile

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/npcbrain/intent"
	"github.com/milk9111/npcbrain/persona"
)

func blocks() map[string]map[string]any {
	return map[string]map[string]any{
		"movement": {
			"walk": map[string]any{"type": "kinematic", "speed": 2, "stopping_distance": 0.25, "update_threshold": 0.5},
			"run":  map[string]any{"type": "navmesh", "speed": 5},
		},
		"rotation": {
			"default": map[string]any{"angular_speed": 90, "tolerance": 2},
		},
		"timing": {
			"patrol": map[string]any{"wait": 1.5, "cooldown": 3},
		},
		"fear": {
			"default": map[string]any{"radius": 10},
		},
		"persona": {
			"cautious": map[string]any{
				"default_tree": "patrol",
				"stimulus":     "threat",
				"curve":        "threat",
				"cooldown":     2,
				"rules":        []any{map[string]any{"situation": "danger", "tree": "flee"}},
			},
		},
		"curve": {
			"threat": []any{
				map[string]any{"name": "danger", "type": "sigmoid", "center": 0.5, "sharpness": 10, "max": 1, "target": "danger"},
			},
		},
	}
}

func TestParseProfiles(t *testing.T) {
	set, err := Parse(blocks())
	require.NoError(t, err)

	walk, err := set.Movement.Lookup("walk")
	require.NoError(t, err)
	assert.Equal(t, intent.MovementSettings{
		Type:             intent.TypeKinematic,
		Speed:            2,
		StoppingDistance: 0.25,
		UpdateThreshold:  0.5,
	}, walk.Settings())
	assert.Equal(t, []string{"run", "walk"}, set.Movement.Keys())

	rot, err := set.Rotation.Lookup("default")
	require.NoError(t, err)
	assert.Equal(t, 90.0, rot.Settings().AngularSpeed)

	timing, err := set.Timing.Lookup("patrol")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, timing.WaitDuration())
	assert.Equal(t, 3*time.Second, timing.CooldownDuration())

	fear, err := set.Fear.Lookup("default")
	require.NoError(t, err)
	assert.InDelta(t, 0.75, fear.Threat(2.5), 1e-9)
	assert.Zero(t, fear.Threat(12))

	pp, err := set.Persona.Lookup("cautious")
	require.NoError(t, err)
	curves, err := set.Curve.Lookup(pp.Curve)
	require.NoError(t, err)
	p := pp.Persona("cautious", curves)
	assert.Equal(t, "flee", p.Resolve("danger"))
	assert.Equal(t, 2*time.Second, p.Switch.Cooldown)
	require.Len(t, p.Curves, 1)
	assert.Equal(t, persona.Sigmoid, p.Curves[0].Type)

	assert.Zero(t, set.Health.Len())
}

func TestLookupListsAvailableKeys(t *testing.T) {
	set, err := Parse(blocks())
	require.NoError(t, err)

	_, err = set.Movement.Lookup("sprint")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), `movement profile "sprint"`)
	assert.Contains(t, err.Error(), "available: run, walk")

	_, err = set.Health.Lookup("default")
	assert.Contains(t, err.Error(), "available: none")
}

func TestParseRejectsBadBlocks(t *testing.T) {
	_, err := Parse(map[string]map[string]any{"mood": {}})
	assert.ErrorIs(t, err, ErrUnknownBlock)

	_, err = Parse(map[string]map[string]any{
		"curve": {"bad": []any{map[string]any{"name": "x", "type": "cubic"}}},
	})
	assert.Error(t, err)

	_, err = Parse(map[string]map[string]any{
		"movement": {"walk": map[string]any{"speed": "fast"}},
	})
	assert.Error(t, err)
}
