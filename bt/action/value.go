package action

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/milk9111/npcbrain/bt"
)

// SetValue writes a constant into the blackboard and succeeds.
type SetValue struct {
	key   string
	value any
}

func newSetValue(spec bt.NodeSpec, _ bt.BuildFunc) (bt.Node, error) {
	cfg := bt.Config(spec.Config)
	key, err := cfg.String("key", "")
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}
	return &SetValue{key: key, value: cfg.Raw("value")}, nil
}

func (s *SetValue) Tick(ctx *bt.Context) bt.Status {
	if ctx.Blackboard == nil {
		return ctx.Fail("set_value", "no blackboard")
	}
	if s.value == nil {
		ctx.Blackboard.Delete(s.key)
	} else {
		ctx.Blackboard.Set(s.key, s.value)
	}
	return bt.Success
}

func (s *SetValue) Reset(*bt.Context) {}

// Log writes a message through the context logger and succeeds.
type Log struct {
	message string
	level   zapcore.Level
}

func newLog(spec bt.NodeSpec, _ bt.BuildFunc) (bt.Node, error) {
	cfg := bt.Config(spec.Config)
	msg, err := cfg.String("message", "")
	if err != nil {
		return nil, err
	}
	lvl, err := cfg.String("level", "info")
	if err != nil {
		return nil, err
	}
	level, err := zapcore.ParseLevel(strings.ToLower(lvl))
	if err != nil {
		return nil, err
	}
	return &Log{message: msg, level: level}, nil
}

func (l *Log) Tick(ctx *bt.Context) bt.Status {
	fields := []zap.Field{zap.Stringer("session", ctx.Session)}
	if ctx.Blackboard != nil {
		fields = append(fields, zap.String("entity", ctx.Blackboard.EntityID))
	}
	if ce := ctx.Log().Check(l.level, l.message); ce != nil {
		ce.Write(fields...)
	}
	return bt.Success
}

func (l *Log) Reset(*bt.Context) {}
