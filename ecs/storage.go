package ecs

// entityStore hands out slots. Freeing a slot bumps its generation, so stale
// handles stop being alive. Freed slots are reused last-in first-out.
type entityStore struct {
	gen   []Generation
	alive []bool
	free  []Slot
	count int
}

func (s *entityStore) create() Entity {
	var slot Slot
	if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		s.alive = append(s.alive, false)
		slot = Slot(len(s.gen))
	}
	s.alive[slot-1] = true
	s.count++
	return newEntity(slot, s.gen[slot-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	slot := e.Slot()
	s.alive[slot-1] = false
	s.gen[slot-1]++
	s.free = append(s.free, slot)
	s.count--
	return true
}

func (s *entityStore) inRange(slot Slot) bool {
	return slot != 0 && int(slot) <= len(s.gen)
}

func (s *entityStore) isAlive(e Entity) bool {
	slot := e.Slot()
	return s.inRange(slot) && s.alive[slot-1] && s.gen[slot-1] == e.Generation()
}

// current returns the live handle for a slot.
func (s *entityStore) current(slot Slot) (Entity, bool) {
	if !s.inRange(slot) || !s.alive[slot-1] {
		return 0, false
	}
	return newEntity(slot, s.gen[slot-1]), true
}

func (s *entityStore) all() []Entity {
	out := make([]Entity, 0, s.count)
	for i := range s.gen {
		if e, ok := s.current(Slot(i + 1)); ok {
			out = append(out, e)
		}
	}
	return out
}
