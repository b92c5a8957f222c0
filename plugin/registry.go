// Package plugin applies the capability plugins an entity declares, phase by
// phase, each phase in dependency order.
package plugin

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/milk9111/npcbrain/prefabs"
)

var (
	ErrUnknownPlugin      = errors.New("plugin: unknown plugin")
	ErrDuplicatePlugin    = errors.New("plugin: duplicate plugin")
	ErrDuplicateComponent = errors.New("plugin: component declared twice")
	ErrMissingDependency  = errors.New("plugin: dependency not declared")
	ErrPhaseOrder         = errors.New("plugin: dependency in a later phase")
	ErrCycle              = errors.New("plugin: dependency cycle")
)

// Phase orders plugin application. Lower phases apply first.
type Phase int

const (
	PhaseServices Phase = iota
	PhaseActuators
	PhaseRouting
)

type Component = prefabs.ComponentSpec

// ApplyFunc attaches a plugin's capabilities to h.
type ApplyFunc func(h *Host, params map[string]any) error

type Descriptor struct {
	Key          string
	Phase        Phase
	Dependencies []string
	Apply        ApplyFunc
}

// Step is one planned plugin application.
type Step struct {
	Descriptor
	Params map[string]any
}

type entry struct {
	Descriptor
	index int
}

// Registry holds the process-wide plugin table. Fill it at startup, before
// any agent is built.
type Registry struct {
	entries map[string]*entry
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]*entry{}}
}

func (r *Registry) Register(d Descriptor) error {
	d.Key = strings.TrimSpace(d.Key)
	if d.Key == "" || d.Apply == nil {
		return fmt.Errorf("plugin: register %q: empty key or nil apply", d.Key)
	}
	if _, ok := r.entries[d.Key]; ok {
		return fmt.Errorf("%w %q", ErrDuplicatePlugin, d.Key)
	}
	d.Dependencies = append([]string(nil), d.Dependencies...)
	r.entries[d.Key] = &entry{Descriptor: d, index: len(r.order)}
	r.order = append(r.order, d.Key)
	return nil
}

func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(key string) (Descriptor, bool) {
	e, ok := r.entries[key]
	if !ok {
		return Descriptor{}, false
	}
	return e.Descriptor, true
}

// Keys returns plugin keys in registration order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.order...)
}

// Plan validates components and returns the order they apply in: ascending
// phase, then dependencies first, then registration order.
func (r *Registry) Plan(components []Component) ([]Step, error) {
	declared := make(map[string]*entry, len(components))
	params := make(map[string]map[string]any, len(components))
	list := make([]*entry, 0, len(components))
	for _, c := range components {
		e, ok := r.entries[c.Plugin]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownPlugin, c.Plugin)
		}
		if _, dup := declared[c.Plugin]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateComponent, c.Plugin)
		}
		declared[c.Plugin] = e
		params[c.Plugin] = c.Params
		list = append(list, e)
	}

	phases := map[Phase][]*entry{}
	for _, e := range list {
		for _, dep := range e.Dependencies {
			d, ok := declared[dep]
			if !ok {
				return nil, fmt.Errorf("%w: %q needs %q", ErrMissingDependency, e.Key, dep)
			}
			if d.Phase > e.Phase {
				return nil, fmt.Errorf("%w: %q (phase %d) needs %q (phase %d)", ErrPhaseOrder, e.Key, e.Phase, dep, d.Phase)
			}
		}
		phases[e.Phase] = append(phases[e.Phase], e)
	}

	order := make([]Phase, 0, len(phases))
	for p := range phases {
		order = append(order, p)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	steps := make([]Step, 0, len(list))
	for _, p := range order {
		sorted, err := sortPhase(phases[p])
		if err != nil {
			return nil, err
		}
		for _, e := range sorted {
			steps = append(steps, Step{Descriptor: e.Descriptor, Params: params[e.Key]})
		}
	}
	return steps, nil
}

// Apply plans components and applies them to h in order. A planning error
// applies nothing. An apply error stops at the failing plugin.
func (r *Registry) Apply(h *Host, components []Component) ([]string, error) {
	steps, err := r.Plan(components)
	if err != nil {
		return nil, err
	}
	applied := make([]string, 0, len(steps))
	for _, s := range steps {
		if err := s.Apply(h, s.Params); err != nil {
			return applied, fmt.Errorf("plugin: apply %q: %w", s.Key, err)
		}
		applied = append(applied, s.Key)
	}
	return applied, nil
}

// sortPhase is Kahn's algorithm over one phase. Among ready plugins the
// earliest registered goes first.
func sortPhase(nodes []*entry) ([]*entry, error) {
	inPhase := make(map[string]*entry, len(nodes))
	for _, n := range nodes {
		inPhase[n.Key] = n
	}

	indegree := make(map[string]int, len(nodes))
	dependents := make(map[string][]*entry, len(nodes))
	for _, n := range nodes {
		for _, dep := range n.Dependencies {
			if _, ok := inPhase[dep]; !ok {
				continue
			}
			indegree[n.Key]++
			dependents[dep] = append(dependents[dep], n)
		}
	}

	var ready []*entry
	for _, n := range nodes {
		if indegree[n.Key] == 0 {
			ready = append(ready, n)
		}
	}

	out := make([]*entry, 0, len(nodes))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i].index < ready[j].index })
		next := ready[0]
		ready = ready[1:]
		out = append(out, next)
		for _, d := range dependents[next.Key] {
			indegree[d.Key]--
			if indegree[d.Key] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(out) < len(nodes) {
		var stuck []string
		for _, n := range nodes {
			if indegree[n.Key] > 0 {
				stuck = append(stuck, n.Key)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("%w among %s", ErrCycle, strings.Join(stuck, ", "))
	}
	return out, nil
}
