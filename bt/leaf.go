package bt

import "time"

// Wait returns Running until d has elapsed since its first tick.
type Wait struct {
	d       time.Duration
	until   time.Time
	started bool
}

func NewWait(d time.Duration) *Wait {
	return &Wait{d: d}
}

func (w *Wait) Tick(ctx *Context) Status {
	now := ctx.Now()
	if !w.started {
		w.started = true
		w.until = now.Add(w.d)
	}
	if now.Before(w.until) {
		return Running
	}
	w.started = false
	return Success
}

func (w *Wait) Reset(*Context) { w.started = false }

// Constant always returns the same status.
type Constant Status

func (c Constant) Tick(*Context) Status { return Status(c) }
func (Constant) Reset(*Context)         {}

// Func adapts a function to a stateless leaf.
type Func func(ctx *Context) Status

func (f Func) Tick(ctx *Context) Status { return f(ctx) }
func (Func) Reset(*Context)             {}
