package intent

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Pose answers where an agent is and which way it faces.
type Pose interface {
	Position() cp.Vector
	Forward() cp.Vector
}

// BodyPose reads a chipmunk body.
type BodyPose struct {
	Body *cp.Body
}

func (p BodyPose) Position() cp.Vector {
	if p.Body == nil {
		return cp.Vector{}
	}
	return p.Body.Position()
}

func (p BodyPose) Forward() cp.Vector {
	if p.Body == nil {
		return cp.Vector{X: 1}
	}
	return forAngle(p.Body.Angle())
}

func forAngle(a float64) cp.Vector {
	return cp.Vector{X: math.Cos(a), Y: math.Sin(a)}
}

func angleOf(v cp.Vector) float64 {
	return math.Atan2(v.Y, v.X)
}

// wrapAngle maps a radian angle into (-pi, pi].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
