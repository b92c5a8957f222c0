// Package bt is the behavior-tree runtime: the tick protocol, composite and
// decorator nodes, the alias registry and the document builder.
package bt

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/blackboard"
	"github.com/milk9111/npcbrain/timer"
)

type Status int

const (
	Idle Status = iota
	Running
	Success
	Failure
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether s is Success or Failure.
func (s Status) Terminal() bool {
	return s == Success || s == Failure
}

// Node is a unit of a behavior tree. Tick never panics during steady-state
// ticking; problems surface as Failure. A node that returns a terminal
// status has already reset its own per-run state. Reset interrupts a node
// that is running.
type Node interface {
	Tick(ctx *Context) Status
	Reset(ctx *Context)
}

// Exiter is implemented by nodes with cleanup to run when they stop
// running. The builder wraps every Exiter in a Lifecycle.
type Exiter interface {
	OnExit(ctx *Context)
}

// Parent is implemented by composites and decorators.
type Parent interface {
	Children() []Node
}

// Context is passed to every tick. Nodes read the blackboard from here and
// never capture it at build time.
type Context struct {
	Blackboard *blackboard.Blackboard
	Clock      timer.Clock
	Logger     *zap.Logger
	Session    uuid.UUID
	DeltaTime  float64
	Frame      uint64
}

func (c *Context) Now() time.Time {
	if c == nil || c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}

func (c *Context) Log() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Fail logs a tick-time diagnostic and returns Failure.
func (c *Context) Fail(node, reason string, fields ...zap.Field) Status {
	c.Log().Debug("node failed", append([]zap.Field{
		zap.String("node", node),
		zap.String("reason", reason),
		zap.Stringer("session", c.session()),
	}, fields...)...)
	return Failure
}

func (c *Context) session() uuid.UUID {
	if c == nil {
		return uuid.Nil
	}
	return c.Session
}

func resetAll(ctx *Context, nodes []Node) {
	for _, n := range nodes {
		if n != nil {
			n.Reset(ctx)
		}
	}
}
