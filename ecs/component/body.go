package component

import "github.com/jakecoffman/cp"

// Body is the kinematic body an entity moves. Executors integrate it
// directly; there is no physics space.
type Body struct {
	Body *cp.Body
}

func (b *Body) Position() cp.Vector {
	if b == nil || b.Body == nil {
		return cp.Vector{}
	}
	return b.Body.Position()
}

var BodyComponent = NewComponent[Body]()
