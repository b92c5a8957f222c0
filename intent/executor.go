// Package intent arbitrates movement and rotation commands coming from
// competing behavior-tree sessions over interchangeable actuator executors.
package intent

import "github.com/jakecoffman/cp"

// Type names an executor implementation, e.g. "kinematic" or "navmesh".
type Type string

const (
	TypeKinematic Type = "kinematic"
	TypeNavMesh   Type = "navmesh"
)

// Settings is the per-profile command shape a router forwards to its
// executors. Equality decides whether a re-issued intent is new.
type Settings interface {
	comparable
	ExecutorType() Type
	Threshold() float64
}

// Executor drives one actuator. Targets are world positions: a destination
// for movement, a look-at point for rotation.
type Executor[S any] interface {
	Type() Type
	ApplySettings(settings S)
	Issue(target cp.Vector)
	Cancel()
	SetPaused(paused bool)
	AtDestination() bool
}

// Ticker is implemented by executors that integrate their own motion and
// must be advanced once per frame.
type Ticker interface {
	Tick(dt float64)
}

// MovementSettings is the executor-facing form of a movement profile.
type MovementSettings struct {
	Type             Type
	Speed            float64
	Acceleration     float64
	StoppingDistance float64
	UpdateThreshold  float64
}

func (s MovementSettings) ExecutorType() Type { return s.Type }
func (s MovementSettings) Threshold() float64 { return s.UpdateThreshold }

// RotationSettings is the executor-facing form of a rotation profile. Angles
// are in degrees.
type RotationSettings struct {
	Type            Type
	AngularSpeed    float64
	Tolerance       float64
	UpdateThreshold float64
}

func (s RotationSettings) ExecutorType() Type { return s.Type }
func (s RotationSettings) Threshold() float64 { return s.UpdateThreshold }

type (
	MovementExecutor = Executor[MovementSettings]
	RotationExecutor = Executor[RotationSettings]
)
