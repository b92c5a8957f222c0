package plugin

import (
	"sort"
	"sync/atomic"
)

// KindID identifies a capability kind within the process.
type KindID uint32

var nextKindID atomic.Uint32

// Kind is a typed handle for one capability stored on a Host.
type Kind[T any] struct {
	id   KindID
	name string
}

func NewKind[T any](name string) Kind[T] {
	return Kind[T]{id: KindID(nextKindID.Add(1)), name: name}
}

func (k Kind[T]) ID() KindID   { return k.id }
func (k Kind[T]) Name() string { return k.name }
func (k Kind[T]) Valid() bool  { return k.id != 0 }

// Host holds the capability records plugins attach to one agent.
type Host struct {
	entity string
	values map[KindID]any
	names  map[KindID]string
}

func NewHost(entity string) *Host {
	return &Host{entity: entity, values: map[KindID]any{}, names: map[KindID]string{}}
}

func (h *Host) Entity() string { return h.entity }

// Kinds lists the names of the attached capabilities.
func (h *Host) Kinds() []string {
	out := make([]string, 0, len(h.names))
	for _, n := range h.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Attach stores value under kind, replacing any previous value.
func Attach[T any](h *Host, kind Kind[T], value T) {
	if h == nil || !kind.Valid() {
		return
	}
	h.values[kind.id] = value
	h.names[kind.id] = kind.name
}

func Get[T any](h *Host, kind Kind[T]) (T, bool) {
	var zero T
	if h == nil {
		return zero, false
	}
	v, ok := h.values[kind.id]
	if !ok {
		return zero, false
	}
	cast, ok := v.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}

func Has[T any](h *Host, kind Kind[T]) bool {
	if h == nil {
		return false
	}
	_, ok := h.values[kind.id]
	return ok
}

func Detach[T any](h *Host, kind Kind[T]) bool {
	if !Has(h, kind) {
		return false
	}
	delete(h.values, kind.id)
	delete(h.names, kind.id)
	return true
}
