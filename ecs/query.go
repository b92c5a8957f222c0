package ecs

// intersect returns the slots present in every set, iterating the smallest.
func intersect(sets ...*sparseSet) []Slot {
	if len(sets) == 0 {
		return nil
	}
	smallest := sets[0]
	for _, s := range sets {
		if s == nil {
			return nil
		}
		if s.len() < smallest.len() {
			smallest = s
		}
	}
	out := make([]Slot, 0, smallest.len())
	for _, id := range smallest.ids() {
		all := true
		for _, s := range sets {
			if !s.has(id) {
				all = false
				break
			}
		}
		if all {
			out = append(out, id)
		}
	}
	return out
}
