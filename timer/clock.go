package timer

import "time"

// Clock is the wall-clock source used by timeouts, timers and status effects.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when advanced. The headless host advances it by the
// frame delta so every system in a frame observes the same instant.
type ManualClock struct {
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	if c == nil {
		return time.Time{}
	}
	return c.now
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	if c == nil {
		return time.Time{}
	}
	if d > 0 {
		c.now = c.now.Add(d)
	}
	return c.now
}

// Seconds converts a float seconds value (as written in documents) to a
// duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
