package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceTimers(t *testing.T) {
	clock := NewManualClock(time.Unix(100, 0))
	svc := NewService(clock)

	require.True(t, svc.Ready("attack"), "unarmed timer should be ready")

	svc.Start("attack", 2*time.Second)
	assert.True(t, svc.Active("attack"))
	assert.Equal(t, 2*time.Second, svc.Remaining("attack"))

	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, svc.Remaining("attack"))
	assert.False(t, svc.Ready("attack"))

	clock.Advance(time.Second)
	assert.True(t, svc.Ready("attack"))
	assert.Zero(t, svc.Remaining("attack"))

	svc.Start("b", time.Second)
	assert.Equal(t, []string{"attack", "b"}, svc.Names())
	svc.Cancel("b")
	assert.True(t, svc.Ready("b"))
}

func TestManualClockIgnoresNegativeAdvance(t *testing.T) {
	start := time.Unix(10, 0)
	clock := NewManualClock(start)
	clock.Advance(-time.Second)
	assert.Equal(t, start, clock.Now())
	assert.Equal(t, 250*time.Millisecond, Seconds(0.25))
}
