package intent

import (
	"math"

	"github.com/jakecoffman/cp"
)

const arriveEpsilon = 1e-3

// KinematicMover moves a body straight at its target. It integrates the
// body position itself and must be ticked every frame.
type KinematicMover struct {
	body     *cp.Body
	settings MovementSettings
	target   cp.Vector
	active   bool
	paused   bool
	speed    float64
}

func NewKinematicMover(body *cp.Body) *KinematicMover {
	return &KinematicMover{body: body}
}

func (m *KinematicMover) Type() Type { return TypeKinematic }

func (m *KinematicMover) ApplySettings(s MovementSettings) { m.settings = s }

func (m *KinematicMover) Issue(target cp.Vector) {
	m.target = target
	m.active = true
}

func (m *KinematicMover) Cancel() {
	m.active = false
	m.halt()
}

func (m *KinematicMover) SetPaused(paused bool) {
	m.paused = paused
	if paused {
		m.halt()
	}
}

func (m *KinematicMover) AtDestination() bool {
	if !m.active || m.body == nil {
		return false
	}
	return m.body.Position().Distance(m.target) <= m.stopDistance()
}

func (m *KinematicMover) Tick(dt float64) {
	if !m.active || m.paused || m.body == nil || dt <= 0 {
		return
	}
	pos := m.body.Position()
	to := m.target.Sub(pos)
	dist := to.Length()
	if dist <= m.stopDistance() {
		m.halt()
		return
	}

	speed := m.settings.Speed
	if m.settings.Acceleration > 0 {
		speed = math.Min(speed, m.speed+m.settings.Acceleration*dt)
	}
	m.speed = speed

	step := math.Min(speed*dt, dist)
	dir := to.Mult(1 / dist)
	m.body.SetPosition(pos.Add(dir.Mult(step)))
	m.body.SetVelocityVector(dir.Mult(speed))
}

func (m *KinematicMover) stopDistance() float64 {
	return math.Max(m.settings.StoppingDistance, arriveEpsilon)
}

func (m *KinematicMover) halt() {
	m.speed = 0
	if m.body != nil {
		m.body.SetVelocityVector(cp.Vector{})
	}
}

// KinematicRotator turns a body to face a look-at point at a bounded
// angular speed.
type KinematicRotator struct {
	body     *cp.Body
	settings RotationSettings
	target   cp.Vector
	active   bool
	paused   bool
}

func NewKinematicRotator(body *cp.Body) *KinematicRotator {
	return &KinematicRotator{body: body}
}

func (r *KinematicRotator) Type() Type { return TypeKinematic }

func (r *KinematicRotator) ApplySettings(s RotationSettings) { r.settings = s }

func (r *KinematicRotator) Issue(target cp.Vector) {
	r.target = target
	r.active = true
}

func (r *KinematicRotator) Cancel() {
	r.active = false
	if r.body != nil {
		r.body.SetAngularVelocity(0)
	}
}

func (r *KinematicRotator) SetPaused(paused bool) { r.paused = paused }

func (r *KinematicRotator) AtDestination() bool {
	if !r.active || r.body == nil {
		return false
	}
	diff, ok := r.remaining()
	if !ok {
		return true
	}
	return math.Abs(diff) <= math.Max(radians(r.settings.Tolerance), arriveEpsilon)
}

func (r *KinematicRotator) Tick(dt float64) {
	if !r.active || r.paused || r.body == nil || dt <= 0 {
		return
	}
	diff, ok := r.remaining()
	if !ok {
		return
	}
	maxStep := radians(r.settings.AngularSpeed) * dt
	if r.settings.AngularSpeed <= 0 || math.Abs(diff) <= maxStep {
		r.body.SetAngle(r.body.Angle() + diff)
		return
	}
	r.body.SetAngle(r.body.Angle() + math.Copysign(maxStep, diff))
}

// remaining returns the signed angle still to turn. ok is false when the
// target sits on the body.
func (r *KinematicRotator) remaining() (float64, bool) {
	to := r.target.Sub(r.body.Position())
	if to.Length() <= arriveEpsilon {
		return 0, false
	}
	return wrapAngle(angleOf(to) - r.body.Angle()), true
}
