package intent

import "github.com/jakecoffman/cp"

// NavAgent is the host engine's pathfinding-driven mover. It advances on its
// own; NavMover never ticks it.
type NavAgent interface {
	SetDestination(dest cp.Vector) bool
	SetSpeed(speed, acceleration float64)
	SetStoppingDistance(d float64)
	SetStopped(stopped bool)
	Stop()
	PathPending() bool
	RemainingDistance() float64
}

// NavMover adapts a NavAgent to the movement executor contract.
type NavMover struct {
	agent    NavAgent
	settings MovementSettings
	issued   bool
}

func NewNavMover(agent NavAgent) *NavMover {
	return &NavMover{agent: agent}
}

func (m *NavMover) Type() Type { return TypeNavMesh }

func (m *NavMover) ApplySettings(s MovementSettings) {
	m.settings = s
	if m.agent == nil {
		return
	}
	m.agent.SetSpeed(s.Speed, s.Acceleration)
	m.agent.SetStoppingDistance(s.StoppingDistance)
}

func (m *NavMover) Issue(target cp.Vector) {
	if m.agent == nil {
		return
	}
	m.issued = m.agent.SetDestination(target)
}

func (m *NavMover) Cancel() {
	m.issued = false
	if m.agent != nil {
		m.agent.Stop()
	}
}

func (m *NavMover) SetPaused(paused bool) {
	if m.agent != nil {
		m.agent.SetStopped(paused)
	}
}

func (m *NavMover) AtDestination() bool {
	if !m.issued || m.agent == nil || m.agent.PathPending() {
		return false
	}
	return m.agent.RemainingDistance() <= m.settings.StoppingDistance+arriveEpsilon
}
