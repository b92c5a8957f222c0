package bt

import (
	"fmt"
	"strings"
)

// Sequence ticks children in order, resuming at the child that was running.
type Sequence struct {
	children []Node
	index    int
}

func NewSequence(children ...Node) *Sequence {
	return &Sequence{children: children}
}

func (s *Sequence) Tick(ctx *Context) Status {
	for s.index < len(s.children) {
		switch s.children[s.index].Tick(ctx) {
		case Running:
			return Running
		case Success:
			s.index++
		default:
			s.index = 0
			return Failure
		}
	}
	s.index = 0
	return Success
}

func (s *Sequence) Reset(ctx *Context) {
	if s.index < len(s.children) {
		s.children[s.index].Reset(ctx)
	}
	s.index = 0
}

func (s *Sequence) Children() []Node { return s.children }

// Selector is a reactive priority selector. Every tick it starts from the
// first child; a running lower-priority child that loses to an earlier one
// is interrupted.
type Selector struct {
	children []Node
	running  int
}

func NewSelector(children ...Node) *Selector {
	return &Selector{children: children, running: -1}
}

func (s *Selector) Tick(ctx *Context) Status {
	for i, c := range s.children {
		switch st := c.Tick(ctx); st {
		case Success:
			s.preempt(ctx, i)
			s.running = -1
			return Success
		case Running:
			s.preempt(ctx, i)
			s.running = i
			return Running
		}
	}
	s.running = -1
	return Failure
}

func (s *Selector) preempt(ctx *Context, winner int) {
	if s.running > winner {
		s.children[s.running].Reset(ctx)
	}
}

func (s *Selector) Reset(ctx *Context) {
	if s.running >= 0 && s.running < len(s.children) {
		s.children[s.running].Reset(ctx)
	}
	s.running = -1
}

func (s *Selector) Children() []Node { return s.children }

type ExitCondition int

const (
	FirstSuccess ExitCondition = iota
	FirstFailure
	AllSuccess
	AllFailure
)

var exitConditionNames = map[ExitCondition]string{
	FirstSuccess: "first_success",
	FirstFailure: "first_failure",
	AllSuccess:   "all_success",
	AllFailure:   "all_failure",
}

func (c ExitCondition) String() string {
	if s, ok := exitConditionNames[c]; ok {
		return s
	}
	return fmt.Sprintf("exit(%d)", int(c))
}

func ParseExitCondition(s string) (ExitCondition, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	norm = strings.ReplaceAll(norm, " ", "_")
	for c, name := range exitConditionNames {
		if norm == name || norm == strings.ReplaceAll(name, "_", "") {
			return c, nil
		}
	}
	return 0, fmt.Errorf("bt: unknown parallel exit condition %q", s)
}

// Parallel ticks every unfinished child every tick and aggregates their
// latest statuses by its exit condition. A child that finished keeps its
// status until the Parallel itself finishes or is reset.
type Parallel struct {
	children []Node
	exit     ExitCondition
	latest   []Status
}

func NewParallel(exit ExitCondition, children ...Node) *Parallel {
	return &Parallel{children: children, exit: exit, latest: make([]Status, len(children))}
}

func (p *Parallel) Tick(ctx *Context) Status {
	if len(p.children) == 0 {
		return Success
	}
	for i, c := range p.children {
		if p.latest[i].Terminal() {
			continue
		}
		p.latest[i] = c.Tick(ctx)
	}
	st := Aggregate(p.exit, p.latest)
	if st.Terminal() {
		p.stop(ctx)
	}
	return st
}

// Aggregate folds child statuses by exit condition. Non-terminal statuses
// count as still running.
func Aggregate(exit ExitCondition, statuses []Status) Status {
	var success, failure, pending int
	for _, st := range statuses {
		switch st {
		case Success:
			success++
		case Failure:
			failure++
		default:
			pending++
		}
	}
	switch exit {
	case FirstSuccess, AllFailure:
		if success > 0 {
			return Success
		}
		if pending > 0 {
			return Running
		}
		return Failure
	default:
		if failure > 0 {
			return Failure
		}
		if pending > 0 {
			return Running
		}
		return Success
	}
}

func (p *Parallel) stop(ctx *Context) {
	for i, st := range p.latest {
		if st == Running {
			p.children[i].Reset(ctx)
		}
		p.latest[i] = Idle
	}
}

func (p *Parallel) Reset(ctx *Context) {
	resetAll(ctx, p.children)
	for i := range p.latest {
		p.latest[i] = Idle
	}
}

func (p *Parallel) Children() []Node { return p.children }

func (p *Parallel) Exit() ExitCondition { return p.exit }
