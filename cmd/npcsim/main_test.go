package main

import (
	"bytes"
	"context"
	"testing"
	"testing/fstest"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/npcbrain/bt"
	"github.com/milk9111/npcbrain/prefabs"
)

func embedded() *prefabs.FSLoader {
	return prefabs.NewFSLoader(prefabs.DocumentsFS, "")
}

func TestValidateEmbeddedDocuments(t *testing.T) {
	loader := embedded()
	ids, err := loader.Entities()
	require.NoError(t, err)
	assert.Equal(t, []string{"grunt", "sentry"}, ids)

	f, err := newFactory(loader, nil)
	require.NoError(t, err)
	results, err := validateAll(context.Background(), f, ids)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err, r.ID)
	}

	var out bytes.Buffer
	require.NoError(t, report(&out, results))
	assert.Equal(t, "ok   grunt\nok   sentry\n", out.String())
}

func TestValidateReportsBrokenDocuments(t *testing.T) {
	fsys := fstest.MapFS{
		"entities/good.yaml":   {Data: []byte("entityId: good\ntree: idle\ncomponents:\n  - plugin: status_effects\n  - plugin: timers\n")},
		"entities/broken.yaml": {Data: []byte("entityId: broken\ntree: odd\ncomponents:\n  - plugin: status_effects\n  - plugin: timers\n")},
		"trees/idle.yaml":      {Data: []byte("root: { type: succeed }")},
		"trees/odd.yaml":       {Data: []byte("root: { type: teleport }")},
	}
	f, err := newFactory(prefabs.NewFSLoader(fsys, ""), nil)
	require.NoError(t, err)

	results, err := validateAll(context.Background(), f, []string{"good", "broken", "missing"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, bt.ErrUnknownAlias)
	assert.Error(t, results[2].Err)

	var out bytes.Buffer
	err = report(&out, results)
	require.EqualError(t, err, "2 of 3 entities failed validation")
	assert.Contains(t, out.String(), "ok   good\n")
	assert.Contains(t, out.String(), "FAIL broken: ")
	assert.Contains(t, out.String(), "FAIL missing: ")
}

func TestValidateAllHonorsCancel(t *testing.T) {
	f, err := newFactory(embedded(), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = validateAll(ctx, f, []string{"grunt"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulateCalmGrunt(t *testing.T) {
	var out bytes.Buffer
	res, err := simulate(context.Background(), embedded(), simConfig{Entity: "grunt", Frames: 20, DT: 0.1}, &out)
	require.NoError(t, err)

	assert.Equal(t, 20, res.Frames)
	assert.Equal(t, "patrol", res.Tree)
	assert.Empty(t, res.Switches)
	assert.Greater(t, res.Position.X, 0.0)
	require.Len(t, res.Timings, 5)
	assert.Equal(t, "EffectSystem", res.Timings[0].Name)
	assert.Contains(t, out.String(), `grunt tree "patrol"`)
	assert.Contains(t, out.String(), "done after 20 frames")
}

func TestSimulateHostileTriggersFlee(t *testing.T) {
	var out bytes.Buffer
	res, err := simulate(context.Background(), embedded(), simConfig{
		Entity:        "grunt",
		Frames:        10,
		DT:            0.1,
		HostileThreat: 1,
		HostileAt:     cp.Vector{X: 1},
		HostileFrame:  3,
	}, &out)
	require.NoError(t, err)

	require.Len(t, res.Switches, 1)
	assert.Equal(t, "patrol", res.Switches[0].From)
	assert.Equal(t, "flee", res.Switches[0].To)
	assert.Equal(t, "flee", res.Tree)
	assert.Contains(t, out.String(), "frame 3: hostile")
	assert.Contains(t, out.String(), "switched patrol -> flee")
}

func TestSimulateRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		cfg  simConfig
	}{
		{"no frames", simConfig{Entity: "grunt", DT: 0.1}},
		{"no dt", simConfig{Entity: "grunt", Frames: 1}},
		{"unknown entity", simConfig{Entity: "nobody", Frames: 1, DT: 0.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := simulate(context.Background(), embedded(), tc.cfg, &bytes.Buffer{})
			assert.Error(t, err)
		})
	}
}

func TestSimulateRealtime(t *testing.T) {
	var out bytes.Buffer
	res, err := simulate(context.Background(), embedded(), simConfig{
		Entity:   "sentry",
		Frames:   3,
		DT:       0.005,
		Realtime: true,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Frames)
	assert.Equal(t, "guard", res.Tree)
}
