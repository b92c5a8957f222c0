package persona

// StableChooser picks an index from per-candidate scores, committing to a
// new winner only after it has won MinStableFrames evaluations in a row.
type StableChooser struct {
	MinStableFrames int

	current   int
	candidate int
	streak    int
	started   bool
}

func NewStableChooser(minStableFrames int) *StableChooser {
	return &StableChooser{MinStableFrames: minStableFrames}
}

// Current returns the committed index, or -1 before the first choice.
func (c *StableChooser) Current() int {
	if !c.started {
		return -1
	}
	return c.current
}

func (c *StableChooser) Reset() {
	c.current, c.candidate, c.streak, c.started = 0, 0, 0, false
}

// Choose returns the committed index for this evaluation. The first
// evaluation commits to the winner at once. Ties go to the lowest index.
func (c *StableChooser) Choose(scores []float64) int {
	if len(scores) == 0 {
		c.Reset()
		return -1
	}
	best := 0
	for i, v := range scores {
		if v > scores[best] {
			best = i
		}
	}

	if !c.started || c.current >= len(scores) {
		c.started = true
		c.current = best
		c.streak = 0
		return best
	}
	if best == c.current {
		c.streak = 0
		return c.current
	}

	if c.streak > 0 && best == c.candidate {
		c.streak++
	} else {
		c.candidate = best
		c.streak = 1
	}
	if c.streak >= c.MinStableFrames {
		c.current = best
		c.streak = 0
	}
	return c.current
}
