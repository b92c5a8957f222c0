package ecs

import (
	"fmt"

	"github.com/milk9111/npcbrain/ecs/component"
)

func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("%w: %s", component.ErrEntityNotAlive, e)
	}
	w.store(kind.ID(), true).set(e.Slot(), value)
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return w.store(kind.ID(), false).remove(e.Slot())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return IsAlive(w, e) && w.store(kind.ID(), false).has(e.Slot())
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	v, ok := w.store(kind.ID(), false).get(e.Slot())
	if !ok {
		return nil, false
	}
	cast, ok := v.(*T)
	return cast, ok
}

// ForEach visits every live entity holding kind. fn may add or remove
// components.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := w.store(kind.ID(), false)
	for _, id := range s.ids() {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		if v, ok := s.get(id); ok {
			fn(e, v.(*T))
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa, sb := w.store(ka.ID(), false), w.store(kb.ID(), false)
	for _, id := range intersect(sa, sb) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		if okA && okB {
			fn(e, a.(*A), b.(*B))
		}
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sa, sb, sc := w.store(ka.ID(), false), w.store(kb.ID(), false), w.store(kc.ID(), false)
	for _, id := range intersect(sa, sb, sc) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		c, okC := sc.get(id)
		if okA && okB && okC {
			fn(e, a.(*A), b.(*B), c.(*C))
		}
	}
}

// Count reports how many live entities hold kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	return w.store(kind.ID(), false).len()
}
