package ecs

// sparseSet stores one component kind keyed by entity slot. Values stay
// densely packed for iteration.
type sparseSet struct {
	dense  []Slot
	values []any
	sparse []int
}

func (s *sparseSet) has(id Slot) bool {
	if s == nil || id == 0 || int(id) > len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.dense) && s.dense[idx] == id
}

func (s *sparseSet) get(id Slot) (any, bool) {
	if !s.has(id) {
		return nil, false
	}
	return s.values[s.sparse[id-1]], true
}

func (s *sparseSet) set(id Slot, v any) {
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.has(id) {
		s.values[s.sparse[id-1]] = v
		return
	}
	s.dense = append(s.dense, id)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense) - 1
}

func (s *sparseSet) remove(id Slot) bool {
	if !s.has(id) {
		return false
	}
	idx := s.sparse[id-1]
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[moved-1] = idx

	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[id-1] = -1
	return true
}

func (s *sparseSet) len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

// ids returns a copy of the stored slots, safe to iterate while the set
// changes.
func (s *sparseSet) ids() []Slot {
	if s == nil {
		return nil
	}
	return append([]Slot(nil), s.dense...)
}
