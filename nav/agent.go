package nav

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/npcbrain/intent"
)

var (
	_ intent.NavAgent = (*Agent)(nil)
	_ intent.Ticker   = (*Agent)(nil)
)

// Agent follows grid routes by moving a kinematic body. Paths are planned
// synchronously, so a path is never pending. Call Tick once per frame.
type Agent struct {
	grid *Grid
	body *cp.Body

	path     []cp.Vector
	maxSpeed float64
	accel    float64
	stopping float64
	speed    float64
	stopped  bool
}

func NewAgent(grid *Grid, body *cp.Body) *Agent {
	return &Agent{grid: grid, body: body}
}

// SetDestination plans a route to dest and reports whether one exists. A
// failed plan keeps the agent still.
func (a *Agent) SetDestination(dest cp.Vector) bool {
	if a.grid == nil || a.body == nil {
		return false
	}
	path, err := a.grid.Route(a.body.Position(), dest)
	if err != nil {
		a.path = nil
		return false
	}
	a.path = path
	return true
}

func (a *Agent) SetSpeed(speed, acceleration float64) {
	a.maxSpeed = speed
	a.accel = acceleration
}

func (a *Agent) SetStoppingDistance(d float64) { a.stopping = d }
func (a *Agent) SetStopped(stopped bool)       { a.stopped = stopped }
func (a *Agent) PathPending() bool             { return false }

func (a *Agent) Stop() {
	a.path = nil
	a.speed = 0
}

// Path returns the waypoints still ahead.
func (a *Agent) Path() []cp.Vector {
	return append([]cp.Vector(nil), a.path...)
}

// RemainingDistance is the length of the rest of the route.
func (a *Agent) RemainingDistance() float64 {
	if len(a.path) == 0 || a.body == nil {
		return 0
	}
	d := a.body.Position().Distance(a.path[0])
	for i := 1; i < len(a.path); i++ {
		d += a.path[i-1].Distance(a.path[i])
	}
	return d
}

func (a *Agent) Tick(dt float64) {
	if a.stopped || a.body == nil || dt <= 0 || len(a.path) == 0 {
		return
	}
	if a.RemainingDistance() <= a.stopping {
		a.halt()
		return
	}

	speed := a.maxSpeed
	if a.accel > 0 {
		speed = math.Min(speed, a.speed+a.accel*dt)
	}
	a.speed = speed

	budget := speed * dt
	pos := a.body.Position()
	for budget > 0 && len(a.path) > 0 {
		next := a.path[0]
		d := pos.Distance(next)
		if d > budget {
			pos = pos.Add(next.Sub(pos).Mult(budget / d))
			break
		}
		pos = next
		budget -= d
		if len(a.path) > 1 {
			a.path = a.path[1:]
		} else {
			break
		}
	}
	a.body.SetPosition(pos)
}

func (a *Agent) halt() {
	a.speed = 0
	a.body.SetVelocity(0, 0)
}
