package action

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/bt"
)

// Condition evaluates a boolean expression against the blackboard
// environment. The expression is compiled once, at build time.
type Condition struct {
	source  string
	program *vm.Program
}

func newCondition(spec bt.NodeSpec, _ bt.BuildFunc) (bt.Node, error) {
	src, err := bt.Config(spec.Config).String("expr", "")
	if err != nil {
		return nil, err
	}
	if src == "" {
		return nil, fmt.Errorf("expr is required")
	}
	program, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	return &Condition{source: src, program: program}, nil
}

func (c *Condition) Tick(ctx *bt.Context) bt.Status {
	if ctx.Blackboard == nil {
		return ctx.Fail("condition", "no blackboard")
	}
	out, err := expr.Run(c.program, ctx.Blackboard.Env())
	if err != nil {
		return ctx.Fail("condition", err.Error(), zap.String("expr", c.source))
	}
	if ok, _ := out.(bool); ok {
		return bt.Success
	}
	return bt.Failure
}

func (c *Condition) Reset(*bt.Context) {}
