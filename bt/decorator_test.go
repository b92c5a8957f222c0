package bt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRepeater(t *testing.T) {
	t.Run("counts_terminal_repetitions", func(t *testing.T) {
		child := newScripted("c", nil, Running, Success, Failure, Success)
		r := NewRepeater(child, 3, Success)
		ctx, _ := newTestContext()

		got := []Status{r.Tick(ctx), r.Tick(ctx), r.Tick(ctx), r.Tick(ctx)}
		assert.Equal(t, []Status{Running, Running, Running, Success}, got)
	})
	t.Run("failure_outcome", func(t *testing.T) {
		r := NewRepeater(newScripted("c", nil, Success), 2, Failure)
		ctx, _ := newTestContext()
		assert.Equal(t, Running, r.Tick(ctx))
		assert.Equal(t, Failure, r.Tick(ctx))
		assert.Equal(t, Running, r.Tick(ctx), "budget restarts after finishing")
	})
	t.Run("forever", func(t *testing.T) {
		r := NewRepeater(newScripted("c", nil, Success), -1, Success)
		ctx, _ := newTestContext()
		for i := 0; i < 100; i++ {
			assert.Equal(t, Running, r.Tick(ctx))
		}
	})
	t.Run("zero_count", func(t *testing.T) {
		child := newScripted("c", nil, Success)
		r := NewRepeater(child, 0, Success)
		ctx, _ := newTestContext()
		assert.Equal(t, Success, r.Tick(ctx))
		assert.Zero(t, child.ticks)
	})
}

func TestTimeout(t *testing.T) {
	t.Run("child_success", func(t *testing.T) {
		to := NewTimeout(newScripted("c", nil, Running, Success), time.Second)
		ctx, clock := newTestContext()
		assert.Equal(t, Running, to.Tick(ctx))
		clock.Advance(100 * time.Millisecond)
		assert.Equal(t, Success, to.Tick(ctx))
	})
	t.Run("deadline_elapses", func(t *testing.T) {
		child := newScripted("c", nil, Running)
		to := NewTimeout(child, time.Second)
		ctx, clock := newTestContext()
		assert.Equal(t, Running, to.Tick(ctx))
		clock.Advance(999 * time.Millisecond)
		assert.Equal(t, Running, to.Tick(ctx))
		clock.Advance(time.Millisecond)
		assert.Equal(t, Success, to.Tick(ctx))
		assert.Equal(t, 1, child.resets, "running child interrupted at the deadline")
		assert.Equal(t, 2, child.ticks)

		assert.Equal(t, Running, to.Tick(ctx), "deadline re-armed on the next run")
	})
	t.Run("child_failure_keeps_running", func(t *testing.T) {
		child := newScripted("c", nil, Failure)
		to := NewTimeout(child, time.Second)
		ctx, _ := newTestContext()
		assert.Equal(t, Running, to.Tick(ctx))
		assert.Equal(t, Running, to.Tick(ctx))
		assert.Equal(t, 2, child.ticks)
	})
}

func TestInverterAndForce(t *testing.T) {
	ctx, _ := newTestContext()
	cases := []struct {
		name string
		node Node
		want Status
	}{
		{"invert_success", NewInverter(Constant(Success)), Failure},
		{"invert_failure", NewInverter(Constant(Failure)), Success},
		{"invert_running", NewInverter(Constant(Running)), Running},
		{"invert_empty", NewInverter(nil), Failure},
		{"succeed_on_failure", NewForce(Constant(Failure), Success), Success},
		{"fail_on_success", NewForce(Constant(Success), Failure), Failure},
		{"force_running", NewForce(Constant(Running), Failure), Running},
		{"force_empty", NewForce(nil, Success), Success},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.node.Tick(ctx))
		})
	}
}

func TestWait(t *testing.T) {
	w := NewWait(500 * time.Millisecond)
	ctx, clock := newTestContext()
	assert.Equal(t, Running, w.Tick(ctx))
	clock.Advance(499 * time.Millisecond)
	assert.Equal(t, Running, w.Tick(ctx))
	clock.Advance(time.Millisecond)
	assert.Equal(t, Success, w.Tick(ctx))
	assert.Equal(t, Running, w.Tick(ctx))
}

func TestLifecycleExitHook(t *testing.T) {
	t.Run("running_to_terminal_fires_once", func(t *testing.T) {
		inner := newScripted("p", nil, Running, Running, Success, Success)
		l := NewLifecycle(inner)
		ctx, _ := newTestContext()

		assert.Equal(t, Running, l.Tick(ctx))
		assert.Equal(t, Running, l.Status())
		assert.Equal(t, Running, l.Tick(ctx))
		assert.Zero(t, inner.exits)
		assert.Equal(t, Success, l.Tick(ctx))
		assert.Equal(t, 1, inner.exits)
		assert.Equal(t, Idle, l.Status())

		assert.Equal(t, Success, l.Tick(ctx))
		assert.Equal(t, 1, inner.exits, "no exit without a running phase")
	})
	t.Run("interrupt_fires_once", func(t *testing.T) {
		inner := newScripted("p", nil, Running)
		l := NewLifecycle(inner)
		ctx, _ := newTestContext()

		l.Tick(ctx)
		l.Reset(ctx)
		l.Reset(ctx)
		assert.Equal(t, 1, inner.exits)
		assert.Equal(t, 2, inner.resets)
	})
	t.Run("reset_inside_composite", func(t *testing.T) {
		inner := newScripted("p", nil, Running)
		sel := NewSelector(newScripted("gate", nil, Failure, Success), NewLifecycle(inner))
		ctx, _ := newTestContext()

		assert.Equal(t, Running, sel.Tick(ctx))
		assert.Equal(t, Success, sel.Tick(ctx))
		assert.Equal(t, 1, inner.exits, "preempted action cleaned up")
	})
}
