package ecs

// EventType names what happened.
type EventType string

const (
	EventTreeSwitched  EventType = "tree_switched"
	EventStatusChanged EventType = "status_changed"
	EventEffectApplied EventType = "effect_applied"
	EventEffectLifted  EventType = "effect_lifted"
	EventDomainChanged EventType = "domain_changed"
	EventBuildFailed   EventType = "build_failed"
)

// Event is a frame-stamped notification pushed by systems.
type Event struct {
	Type   EventType
	Entity Entity
	Frame  uint64
	Data   any
}

// EventQueue is a FIFO drained by whoever reports on the simulation.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
