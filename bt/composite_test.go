package bt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceFailureShortCircuits(t *testing.T) {
	cases := []struct {
		name    string
		failAt  int
		width   int
		visited []string
	}{
		{"first", 0, 3, []string{"c0"}},
		{"middle", 1, 3, []string{"c0", "c1"}},
		{"last", 2, 3, []string{"c0", "c1", "c2"}},
	}
	names := []string{"c0", "c1", "c2"}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var trace []string
			children := make([]Node, c.width)
			for i := range children {
				st := Success
				if i == c.failAt {
					st = Failure
				}
				children[i] = newScripted(names[i], &trace, st)
			}
			ctx, _ := newTestContext()
			assert.Equal(t, Failure, NewSequence(children...).Tick(ctx))
			assert.Equal(t, c.visited, trace)
		})
	}
}

func TestSequenceResumesRunningChild(t *testing.T) {
	var trace []string
	a := newScripted("a", &trace, Success)
	b := newScripted("b", &trace, Running, Running, Success)
	c := newScripted("c", &trace, Success)
	seq := NewSequence(a, b, c)
	ctx, _ := newTestContext()

	assert.Equal(t, Running, seq.Tick(ctx))
	assert.Equal(t, Running, seq.Tick(ctx))
	assert.Equal(t, Success, seq.Tick(ctx))
	assert.Equal(t, []string{"a", "b", "b", "b", "c"}, trace)

	trace = nil
	seq.Tick(ctx)
	assert.Equal(t, "a", trace[0], "starts over after finishing")
}

func TestSequenceResetInterruptsRunningChild(t *testing.T) {
	a := newScripted("a", nil, Success)
	b := newScripted("b", nil, Running)
	seq := NewSequence(a, b)
	ctx, _ := newTestContext()

	require.Equal(t, Running, seq.Tick(ctx))
	seq.Reset(ctx)
	assert.Equal(t, 0, a.resets)
	assert.Equal(t, 1, b.resets)
	seq.Tick(ctx)
	assert.Equal(t, 2, a.ticks)
}

func TestSelectorSuccessShortCircuits(t *testing.T) {
	var trace []string
	sel := NewSelector(
		newScripted("a", &trace, Failure),
		newScripted("b", &trace, Success),
		newScripted("c", &trace, Success),
	)
	ctx, _ := newTestContext()
	assert.Equal(t, Success, sel.Tick(ctx))
	assert.Equal(t, []string{"a", "b"}, trace)
}

func TestSelectorFailsWhenAllFail(t *testing.T) {
	sel := NewSelector(newScripted("a", nil, Failure), newScripted("b", nil, Failure))
	ctx, _ := newTestContext()
	assert.Equal(t, Failure, sel.Tick(ctx))
}

func TestSelectorPreemptsLowerPriorityChild(t *testing.T) {
	high := newScripted("high", nil, Failure, Running)
	low := newScripted("low", nil, Running)
	sel := NewSelector(high, low)
	ctx, _ := newTestContext()

	assert.Equal(t, Running, sel.Tick(ctx))
	assert.Equal(t, 0, low.resets)

	assert.Equal(t, Running, sel.Tick(ctx))
	assert.Equal(t, 1, low.resets, "low was interrupted by high")
	assert.Equal(t, 1, low.ticks)
}

func TestAggregate(t *testing.T) {
	S, F, R := Success, Failure, Running
	cases := []struct {
		exit     ExitCondition
		statuses []Status
		want     Status
	}{
		{AllSuccess, []Status{S, S, S}, S},
		{AllSuccess, []Status{S, R, S}, R},
		{AllSuccess, []Status{S, R, F}, F},
		{FirstSuccess, []Status{F, R}, R},
		{FirstSuccess, []Status{F, S, R}, S},
		{FirstSuccess, []Status{F, F}, F},
		{FirstFailure, []Status{S, R}, R},
		{FirstFailure, []Status{S, F, R}, F},
		{FirstFailure, []Status{S, S}, S},
		{AllFailure, []Status{F, F}, F},
		{AllFailure, []Status{F, R}, R},
		{AllFailure, []Status{F, S}, S},
	}
	for _, c := range cases {
		t.Run(c.exit.String(), func(t *testing.T) {
			assert.Equal(t, c.want, Aggregate(c.exit, c.statuses), "%v", c.statuses)
		})
	}
}

func TestParallelAllSuccessTracksLatestStatus(t *testing.T) {
	var trace []string
	a := newScripted("a", &trace, Success)
	b := newScripted("b", &trace, Running, Success)
	c := newScripted("c", &trace, Running, Running, Success)
	p := NewParallel(AllSuccess, a, b, c)
	ctx, _ := newTestContext()

	assert.Equal(t, Running, p.Tick(ctx))
	assert.Equal(t, []string{"a", "b", "c"}, trace, "every child ticked on the first tick")
	assert.Equal(t, Running, p.Tick(ctx))
	assert.Equal(t, Success, p.Tick(ctx))
	assert.Equal(t, 1, a.ticks, "a finished child keeps its status")
	assert.Equal(t, 2, b.ticks)
	assert.Equal(t, 3, c.ticks)
}

func TestParallelLatchesFinishedWaits(t *testing.T) {
	p := NewParallel(AllSuccess, NewWait(time.Second), NewWait(2*time.Second))
	ctx, clock := newTestContext()

	var got []Status
	for i := 0; i < 4; i++ {
		got = append(got, p.Tick(ctx))
		clock.Advance(700 * time.Millisecond)
	}
	assert.Equal(t, []Status{Running, Running, Running, Success}, got)

	assert.Equal(t, Running, p.Tick(ctx), "a finished parallel starts over")
}

func TestParallelResetsRunningChildrenOnExit(t *testing.T) {
	runner := newScripted("runner", nil, Running)
	failer := newScripted("failer", nil, Failure)
	p := NewParallel(FirstFailure, runner, failer)
	ctx, _ := newTestContext()

	assert.Equal(t, Failure, p.Tick(ctx))
	assert.Equal(t, 1, runner.resets)
	assert.Equal(t, 0, failer.resets)
}

func TestEmptyComposites(t *testing.T) {
	ctx, _ := newTestContext()
	assert.Equal(t, Success, NewSequence().Tick(ctx))
	assert.Equal(t, Failure, NewSelector().Tick(ctx))
	assert.Equal(t, Success, NewParallel(FirstSuccess).Tick(ctx))
}

func TestParseExitCondition(t *testing.T) {
	for in, want := range map[string]ExitCondition{
		"first_success": FirstSuccess,
		"FirstFailure":  FirstFailure,
		"all-success":   AllSuccess,
		"all failure":   AllFailure,
	} {
		got, err := ParseExitCondition(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseExitCondition("most")
	assert.Error(t, err)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.True(t, Failure.Terminal())
	assert.False(t, Idle.Terminal())
	assert.Equal(t, "status(9)", Status(9).String())
}
