package bt

import (
	"fmt"

	gobt "github.com/joeycumines/go-behaviortree"
)

// ToGoBT exposes n as a go-behaviortree leaf. ctx supplies the tick context
// on every tick.
func ToGoBT(n Node, ctx func() *Context) gobt.Node {
	return gobt.New(func([]gobt.Node) (gobt.Status, error) {
		var c *Context
		if ctx != nil {
			c = ctx()
		}
		switch st := n.Tick(c); st {
		case Running:
			return gobt.Running, nil
		case Success:
			return gobt.Success, nil
		case Failure:
			return gobt.Failure, nil
		default:
			return gobt.Failure, fmt.Errorf("bt: node returned %s", st)
		}
	})
}

// FromGoBT wraps a go-behaviortree node as a leaf. A tick error becomes
// Failure.
func FromGoBT(name string, n gobt.Node) Node {
	return &goBTLeaf{name: name, node: n}
}

type goBTLeaf struct {
	name string
	node gobt.Node
}

func (l *goBTLeaf) Tick(ctx *Context) Status {
	if l.node == nil {
		return ctx.Fail(l.name, "no go-behaviortree node")
	}
	st, err := l.node.Tick()
	if err != nil {
		return ctx.Fail(l.name, err.Error())
	}
	switch st {
	case gobt.Running:
		return Running
	case gobt.Success:
		return Success
	default:
		return Failure
	}
}

func (l *goBTLeaf) Reset(*Context) {}

// GoBTFactory registers a Go-authored go-behaviortree subtree as an alias.
func GoBTFactory(build func(cfg Config) (gobt.Node, error)) Factory {
	return func(spec NodeSpec, _ BuildFunc) (Node, error) {
		n, err := build(Config(spec.Config))
		if err != nil {
			return nil, err
		}
		return FromGoBT(spec.Type, n), nil
	}
}
