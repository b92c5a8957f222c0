package component

// Hostile marks an entity that agents perceive as a threat. Gain scales the
// threat it contributes; zero counts as one.
type Hostile struct {
	Gain float64
}

var HostileComponent = NewComponent[Hostile]()
