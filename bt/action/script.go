package action

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/blackboard"
	"github.com/milk9111/npcbrain/bt"
	"github.com/milk9111/npcbrain/effects"
)

// Script runs a tengo program each tick. The program sees:
//
//	npc     get(key), set(key, value), has(key), position(), stimulus(name), blocked(domain)
//	params  the node's resolved params map
//	status  assign "success", "failure" or "running"; empty means success
type Script struct {
	compiled *tengo.Compiled
	params   map[string]any
}

func newScript(spec bt.NodeSpec, _ bt.BuildFunc) (bt.Node, error) {
	cfg := bt.Config(spec.Config)
	src, err := cfg.String("source", "")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("source is required")
	}
	params, err := cfg.Map("params")
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(src))
	_ = script.Add("npc", map[string]any{})
	_ = script.Add("params", map[string]any(params))
	_ = script.Add("status", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile script: %w", err)
	}
	return &Script{compiled: compiled, params: params}, nil
}

func (s *Script) Tick(ctx *bt.Context) bt.Status {
	bb := ctx.Blackboard
	if bb == nil {
		return ctx.Fail("script", "no blackboard")
	}
	if err := s.compiled.Set("npc", scriptEngine(bb)); err != nil {
		return ctx.Fail("script", err.Error())
	}
	if err := s.compiled.Set("status", ""); err != nil {
		return ctx.Fail("script", err.Error())
	}
	if err := s.compiled.Run(); err != nil {
		return ctx.Fail("script", err.Error())
	}

	switch status := strings.ToLower(strings.TrimSpace(s.compiled.Get("status").String())); status {
	case "", "success":
		return bt.Success
	case "running":
		return bt.Running
	case "failure":
		return bt.Failure
	default:
		return ctx.Fail("script", "unknown status", zap.String("status", status))
	}
}

func (s *Script) Reset(*bt.Context) {}

func scriptEngine(bb *blackboard.Blackboard) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["get"] = &tengo.UserFunction{Name: "get", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		v, ok := bb.Lookup(objectAsString(args[0]))
		if !ok {
			return tengo.UndefinedValue, nil
		}
		if vec, ok := blackboard.ToVector(v); ok {
			v = blackboard.VectorMap(vec)
		}
		return tengo.FromInterface(v)
	}}

	values["has"] = &tengo.UserFunction{Name: "has", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 || !bb.Has(objectAsString(args[0])) {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["set"] = &tengo.UserFunction{Name: "set", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		key := objectAsString(args[0])
		if key == "" {
			return tengo.FalseValue, nil
		}
		v := objectToAny(args[1])
		if vec, ok := blackboard.ToVector(v); ok {
			v = vec
		}
		bb.Set(key, v)
		return tengo.TrueValue, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		pos, _ := bb.Position()
		return tengo.FromInterface(blackboard.VectorMap(pos))
	}}

	values["stimulus"] = &tengo.UserFunction{Name: "stimulus", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: bb.Stimulus(objectAsString(args[0]))}, nil
	}}

	values["blocked"] = &tengo.UserFunction{Name: "blocked", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 || !bb.Blocked(effects.Domain(objectAsString(args[0]))) {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
