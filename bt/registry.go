package bt

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/milk9111/npcbrain/prefabs"
)

var (
	ErrUnknownAlias   = errors.New("bt: unknown node alias")
	ErrDuplicateAlias = errors.New("bt: duplicate node alias")
)

type (
	NodeSpec = prefabs.NodeSpec
	Document = prefabs.TreeSpec
)

// BuildFunc builds a child spec. Factories receive one bound to the current
// build.
type BuildFunc func(spec NodeSpec) (Node, error)

// Factory constructs a node from its resolved spec.
type Factory func(spec NodeSpec, build BuildFunc) (Node, error)

// Registry maps aliases to factories. It is filled once at startup and
// passed to builders.
type Registry struct {
	factories map[string]Factory
	order     []string
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

func (r *Registry) Register(alias string, f Factory) error {
	alias = strings.TrimSpace(alias)
	if alias == "" || f == nil {
		return fmt.Errorf("bt: register %q: empty alias or nil factory", alias)
	}
	if _, ok := r.factories[alias]; ok {
		return fmt.Errorf("%w %q", ErrDuplicateAlias, alias)
	}
	r.factories[alias] = f
	r.order = append(r.order, alias)
	return nil
}

// MustRegister panics on error. Use it only from startup registration.
func (r *Registry) MustRegister(alias string, f Factory) {
	if err := r.Register(alias, f); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(alias string) (Factory, bool) {
	f, ok := r.factories[alias]
	return f, ok
}

// Aliases returns the registered aliases sorted by name.
func (r *Registry) Aliases() []string {
	out := append([]string(nil), r.order...)
	sort.Strings(out)
	return out
}

// BuildChildren builds spec.Children in order.
func BuildChildren(spec NodeSpec, build BuildFunc) ([]Node, error) {
	out := make([]Node, 0, len(spec.Children))
	for _, c := range spec.Children {
		n, err := build(c)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// BuildChild builds spec.Child, or returns nil when there is none.
func BuildChild(spec NodeSpec, build BuildFunc) (Node, error) {
	if spec.Child == nil {
		if len(spec.Children) == 1 {
			return build(spec.Children[0])
		}
		if len(spec.Children) > 1 {
			return nil, fmt.Errorf("bt: %s: decorator takes one child, got %d", spec.Type, len(spec.Children))
		}
		return nil, nil
	}
	return build(*spec.Child)
}

// RegisterBuiltins registers the composites, decorators and generic leaves.
func RegisterBuiltins(r *Registry) error {
	builtins := []struct {
		alias string
		f     Factory
	}{
		{"sequence", func(spec NodeSpec, build BuildFunc) (Node, error) {
			children, err := BuildChildren(spec, build)
			if err != nil {
				return nil, err
			}
			return NewSequence(children...), nil
		}},
		{"selector", func(spec NodeSpec, build BuildFunc) (Node, error) {
			children, err := BuildChildren(spec, build)
			if err != nil {
				return nil, err
			}
			return NewSelector(children...), nil
		}},
		{"parallel", newParallelFactory},
		{"repeater", newRepeaterFactory},
		{"timeout", func(spec NodeSpec, build BuildFunc) (Node, error) {
			limit, err := Config(spec.Config).Seconds("seconds", 0)
			if err != nil {
				return nil, err
			}
			child, err := BuildChild(spec, build)
			if err != nil {
				return nil, err
			}
			return NewTimeout(child, limit), nil
		}},
		{"inverter", func(spec NodeSpec, build BuildFunc) (Node, error) {
			child, err := BuildChild(spec, build)
			if err != nil {
				return nil, err
			}
			return NewInverter(child), nil
		}},
		{"always_succeed", forceFactory(Success)},
		{"always_fail", forceFactory(Failure)},
		{"wait", func(spec NodeSpec, _ BuildFunc) (Node, error) {
			d, err := Config(spec.Config).Seconds("seconds", 0)
			if err != nil {
				return nil, err
			}
			return NewWait(d), nil
		}},
		{"succeed", constantFactory(Success)},
		{"fail", constantFactory(Failure)},
		{"running", constantFactory(Running)},
	}
	for _, b := range builtins {
		if err := r.Register(b.alias, b.f); err != nil {
			return err
		}
	}
	return nil
}

func newParallelFactory(spec NodeSpec, build BuildFunc) (Node, error) {
	name, err := Config(spec.Config).String("exit", "all_success")
	if err != nil {
		return nil, err
	}
	exit, err := ParseExitCondition(name)
	if err != nil {
		return nil, err
	}
	children, err := BuildChildren(spec, build)
	if err != nil {
		return nil, err
	}
	return NewParallel(exit, children...), nil
}

func newRepeaterFactory(spec NodeSpec, build BuildFunc) (Node, error) {
	cfg := Config(spec.Config)
	count, err := cfg.Int("count", -1)
	if err != nil {
		return nil, err
	}
	name, err := cfg.String("outcome", "success")
	if err != nil {
		return nil, err
	}
	var outcome Status
	switch strings.ToLower(name) {
	case "success":
		outcome = Success
	case "failure":
		outcome = Failure
	default:
		return nil, fmt.Errorf("bt: repeater outcome %q: want success or failure", name)
	}
	child, err := BuildChild(spec, build)
	if err != nil {
		return nil, err
	}
	return NewRepeater(child, count, outcome), nil
}

func forceFactory(result Status) Factory {
	return func(spec NodeSpec, build BuildFunc) (Node, error) {
		child, err := BuildChild(spec, build)
		if err != nil {
			return nil, err
		}
		return NewForce(child, result), nil
	}
}

func constantFactory(st Status) Factory {
	return func(NodeSpec, BuildFunc) (Node, error) {
		return Constant(st), nil
	}
}
