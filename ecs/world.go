// Package ecs is the small entity-component host the NPC runtime runs in:
// generational entities, typed sparse component storage, an event queue and
// an ordered system schedule.
package ecs

import (
	"time"

	"github.com/milk9111/npcbrain/ecs/component"
	"github.com/milk9111/npcbrain/timer"
)

// World owns entities, their components and the frame clock.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*sparseSet
	events   EventQueue

	clock     timer.Clock
	frame     uint64
	deltaTime float64
}

// NewWorld creates an empty world. A nil clock reads wall time.
func NewWorld(clock timer.Clock) *World {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	return &World{stores: map[component.ComponentID]*sparseSet{}, clock: clock}
}

func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity frees e and drops its components.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.Slot())
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities lists live entities in slot order.
func Entities(w *World) []Entity {
	return w.entities.all()
}

func (w *World) Events() *EventQueue { return &w.events }

func (w *World) Clock() timer.Clock { return w.clock }

func (w *World) Now() time.Time { return w.clock.Now() }

// Frame is the number of the frame being updated, starting at 1.
func (w *World) Frame() uint64 { return w.frame }

// DeltaTime is the simulated seconds of the frame being updated.
func (w *World) DeltaTime() float64 { return w.deltaTime }

// Step advances the frame counter and runs the scheduler once with dt.
func (w *World) Step(s *Scheduler, dt float64) {
	w.frame++
	w.deltaTime = dt
	if s != nil {
		s.Update(w)
	}
}

func (w *World) store(id component.ComponentID, create bool) *sparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &sparseSet{}
		w.stores[id] = s
	}
	return s
}
