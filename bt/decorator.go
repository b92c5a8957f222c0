package bt

import "time"

type decorator struct {
	child Node
}

func (d *decorator) Children() []Node {
	if d.child == nil {
		return nil
	}
	return []Node{d.child}
}

func (d *decorator) Reset(ctx *Context) {
	if d.child != nil {
		d.child.Reset(ctx)
	}
}

// Repeater runs its child count times, one repetition per terminal child
// status, then returns outcome. A negative count repeats forever.
type Repeater struct {
	decorator
	count   int
	outcome Status
	done    int
}

func NewRepeater(child Node, count int, outcome Status) *Repeater {
	if !outcome.Terminal() {
		outcome = Success
	}
	return &Repeater{decorator: decorator{child: child}, count: count, outcome: outcome}
}

func (r *Repeater) Tick(ctx *Context) Status {
	if r.count == 0 || r.child == nil {
		return r.outcome
	}
	if r.child.Tick(ctx) == Running {
		return Running
	}
	r.done++
	if r.count > 0 && r.done >= r.count {
		r.done = 0
		return r.outcome
	}
	return Running
}

func (r *Repeater) Reset(ctx *Context) {
	r.decorator.Reset(ctx)
	r.done = 0
}

// Timeout succeeds when its child succeeds or when the wall-clock limit
// elapses, whichever comes first. A failed child is re-ticked next frame.
type Timeout struct {
	decorator
	limit    time.Duration
	deadline time.Time
	started  bool
}

func NewTimeout(child Node, limit time.Duration) *Timeout {
	return &Timeout{decorator: decorator{child: child}, limit: limit}
}

func (t *Timeout) Tick(ctx *Context) Status {
	now := ctx.Now()
	if !t.started {
		t.started = true
		t.deadline = now.Add(t.limit)
	}
	if !now.Before(t.deadline) {
		t.Reset(ctx)
		return Success
	}
	if t.child == nil {
		return Running
	}
	if t.child.Tick(ctx) == Success {
		t.started = false
		return Success
	}
	return Running
}

func (t *Timeout) Reset(ctx *Context) {
	t.decorator.Reset(ctx)
	t.started = false
}

// Inverter swaps Success and Failure.
type Inverter struct{ decorator }

func NewInverter(child Node) *Inverter {
	return &Inverter{decorator{child: child}}
}

func (i *Inverter) Tick(ctx *Context) Status {
	if i.child == nil {
		return Failure
	}
	switch st := i.child.Tick(ctx); st {
	case Success:
		return Failure
	case Failure:
		return Success
	default:
		return st
	}
}

// Force maps any terminal child status to a fixed result. Without a child
// it returns the result at once.
type Force struct {
	decorator
	result Status
}

func NewForce(child Node, result Status) *Force {
	return &Force{decorator: decorator{child: child}, result: result}
}

func (f *Force) Tick(ctx *Context) Status {
	if f.child == nil {
		return f.result
	}
	if st := f.child.Tick(ctx); !st.Terminal() {
		return st
	}
	return f.result
}
