package bt

// Lifecycle wraps a node and calls its exit hook exactly once when it stops
// running, either by finishing or by being interrupted.
type Lifecycle struct {
	inner   Node
	exit    Exiter
	running bool
}

func NewLifecycle(inner Node) *Lifecycle {
	l := &Lifecycle{inner: inner}
	l.exit, _ = inner.(Exiter)
	return l
}

func (l *Lifecycle) Tick(ctx *Context) Status {
	st := l.inner.Tick(ctx)
	switch {
	case st == Running:
		l.running = true
	case l.running:
		l.running = false
		l.fireExit(ctx)
	}
	return st
}

func (l *Lifecycle) Reset(ctx *Context) {
	l.inner.Reset(ctx)
	if l.running {
		l.running = false
		l.fireExit(ctx)
	}
}

// Status is Running while the inner node is mid-run, Idle otherwise.
func (l *Lifecycle) Status() Status {
	if l.running {
		return Running
	}
	return Idle
}

func (l *Lifecycle) Inner() Node { return l.inner }

func (l *Lifecycle) Children() []Node { return []Node{l.inner} }

func (l *Lifecycle) fireExit(ctx *Context) {
	if l.exit != nil {
		l.exit.OnExit(ctx)
	}
}
