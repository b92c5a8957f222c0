package intent

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/effects"
)

// Result reports what TryIssueIntent did with an intent.
type Result int

const (
	// Rejected means the session does not own the router, or the requested
	// executor type is unknown. No state changed.
	Rejected Result = iota
	// Unchanged means the intent matched the last dispatched command.
	Unchanged
	// Dispatched means a new command reached the executor.
	Dispatched
)

func (r Result) String() string {
	switch r {
	case Rejected:
		return "rejected"
	case Unchanged:
		return "unchanged"
	case Dispatched:
		return "dispatched"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

type command[S Settings] struct {
	target   cp.Vector
	settings S
}

// Router serializes commands for one actuator. Exactly one session owns it
// at a time; intents from any other session are rejected.
type Router[S Settings] struct {
	domain    effects.Domain
	log       *zap.Logger
	executors map[Type]Executor[S]
	types     []Type
	current   Executor[S]
	owner     uuid.UUID
	last      *command[S]
	paused    bool
}

type (
	MovementRouter = Router[MovementSettings]
	RotationRouter = Router[RotationSettings]
)

// NewRouter builds a router over executors keyed by their type. The first
// executor starts as current.
func NewRouter[S Settings](domain effects.Domain, log *zap.Logger, executors ...Executor[S]) (*Router[S], error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router[S]{
		domain:    domain,
		log:       log.With(zap.String("domain", string(domain))),
		executors: make(map[Type]Executor[S], len(executors)),
	}
	for _, ex := range executors {
		if ex == nil {
			continue
		}
		t := ex.Type()
		if _, dup := r.executors[t]; dup {
			return nil, fmt.Errorf("intent: %s router: duplicate executor type %q", domain, t)
		}
		r.executors[t] = ex
		r.types = append(r.types, t)
		if r.current == nil {
			r.current = ex
		}
	}
	if r.current == nil {
		return nil, fmt.Errorf("intent: %s router: no executors", domain)
	}
	return r, nil
}

func NewMovementRouter(log *zap.Logger, executors ...MovementExecutor) (*MovementRouter, error) {
	return NewRouter[MovementSettings](effects.DomainMovement, log, executors...)
}

func NewRotationRouter(log *zap.Logger, executors ...RotationExecutor) (*RotationRouter, error) {
	return NewRouter[RotationSettings](effects.DomainRotation, log, executors...)
}

// Domain returns the status-effect domain that pauses this router.
func (r *Router[S]) Domain() effects.Domain { return r.domain }

// Owner returns the session currently allowed to issue intents.
func (r *Router[S]) Owner() uuid.UUID { return r.owner }

// Current returns the type of the current executor.
func (r *Router[S]) Current() Type {
	if r.current == nil {
		return ""
	}
	return r.current.Type()
}

// Types lists the registered executor types in registration order.
func (r *Router[S]) Types() []Type {
	return append([]Type(nil), r.types...)
}

// Paused reports whether the router's domain is blocked.
func (r *Router[S]) Paused() bool { return r.paused }

// TakeOwnership cancels whatever the previous owner had in flight and makes
// session the sole authorized owner.
func (r *Router[S]) TakeOwnership(session uuid.UUID) {
	if r.current != nil {
		r.current.Cancel()
	}
	r.last = nil
	if r.owner != session {
		r.log.Debug("ownership taken",
			zap.Stringer("previous", r.owner),
			zap.Stringer("session", session))
	}
	r.owner = session
}

// TryIssueIntent forwards target and settings to the current executor when
// session owns the router and the command differs meaningfully from the
// last one dispatched.
func (r *Router[S]) TryIssueIntent(target cp.Vector, settings S, session uuid.UUID) Result {
	if session == uuid.Nil || session != r.owner {
		r.log.Warn("intent rejected: stale session",
			zap.Stringer("session", session),
			zap.Stringer("owner", r.owner))
		return Rejected
	}

	if want := settings.ExecutorType(); want != "" && (r.current == nil || want != r.current.Type()) {
		next, ok := r.executors[want]
		if !ok {
			r.log.Warn("intent rejected: unknown executor type",
				zap.String("type", string(want)),
				zap.Stringer("session", session))
			return Rejected
		}
		if r.current != nil {
			r.current.Cancel()
		}
		r.log.Debug("executor switched",
			zap.String("from", string(r.Current())),
			zap.String("to", string(want)))
		r.current = next
		r.current.SetPaused(r.paused)
		r.last = nil
	}

	if r.last != nil && r.last.settings == settings && target.Distance(r.last.target) <= settings.Threshold() {
		return Unchanged
	}

	if r.last == nil || r.last.settings != settings {
		r.current.ApplySettings(settings)
	}
	r.current.Issue(target)
	r.last = &command[S]{target: target, settings: settings}
	return Dispatched
}

// Cancel stops the current command if session owns the router.
func (r *Router[S]) Cancel(session uuid.UUID) bool {
	if session == uuid.Nil || session != r.owner {
		return false
	}
	if r.current != nil {
		r.current.Cancel()
	}
	r.last = nil
	return true
}

// AtDestination reports whether the last dispatched command has completed.
func (r *Router[S]) AtDestination() bool {
	return r.current != nil && r.last != nil && r.current.AtDestination()
}

// Target returns the last dispatched target.
func (r *Router[S]) Target() (cp.Vector, bool) {
	if r.last == nil {
		return cp.Vector{}, false
	}
	return r.last.target, true
}

// Tick advances the current executor if it integrates its own motion.
func (r *Router[S]) Tick(dt float64) {
	if t, ok := r.current.(Ticker); ok {
		t.Tick(dt)
	}
}

// OnDomainsChanged pauses or resumes the current executor when this
// router's domain flips, independent of ownership.
func (r *Router[S]) OnDomainsChanged(t effects.Transition) {
	for _, d := range t.Blocked {
		if d == r.domain {
			r.setPaused(true)
		}
	}
	for _, d := range t.Unblocked {
		if d == r.domain {
			r.setPaused(false)
		}
	}
}

func (r *Router[S]) setPaused(paused bool) {
	if r.paused == paused {
		return
	}
	r.paused = paused
	if r.current != nil {
		r.current.SetPaused(paused)
	}
	r.log.Debug("router paused", zap.Bool("paused", paused))
}
