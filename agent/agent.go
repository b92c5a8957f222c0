package agent

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/blackboard"
	"github.com/milk9111/npcbrain/bt"
	"github.com/milk9111/npcbrain/effects"
	"github.com/milk9111/npcbrain/persona"
	"github.com/milk9111/npcbrain/plugin"
	"github.com/milk9111/npcbrain/prefabs"
)

// Agent is one NPC: its blackboard, its active tree and the switcher that
// picks trees from its persona.
type Agent struct {
	ID         string
	Blackboard *blackboard.Blackboard
	Host       *plugin.Host

	spec     prefabs.EntitySpec
	loader   prefabs.Loader
	builder  *bt.Builder
	switcher *persona.Switcher
	tree     *bt.Tree
	status   bt.Status
	ctx      bt.Context
	log      *zap.Logger
}

// Tick runs the active tree once.
func (a *Agent) Tick(dt float64, frame uint64) bt.Status {
	if a.tree == nil {
		return bt.Idle
	}
	a.ctx.DeltaTime = dt
	a.ctx.Frame = frame
	st := a.tree.Tick(&a.ctx)
	if st != a.status {
		a.log.Debug("tree status",
			zap.String("tree", a.tree.Key),
			zap.Stringer("from", a.status),
			zap.Stringer("to", st),
			zap.Uint64("frame", frame))
	}
	a.status = st
	return st
}

// Actuate advances executors that integrate their own motion.
func (a *Agent) Actuate(dt float64) {
	if a.Blackboard.Movement != nil {
		a.Blackboard.Movement.Tick(dt)
	}
	if a.Blackboard.Rotation != nil {
		a.Blackboard.Rotation.Tick(dt)
	}
}

func (a *Agent) Tree() *bt.Tree { return a.tree }

func (a *Agent) TreeKey() string {
	if a.tree == nil {
		return ""
	}
	return a.tree.Key
}

func (a *Agent) Status() bt.Status { return a.status }

// Switcher returns the persona switcher, or nil for agents without a
// persona.
func (a *Agent) Switcher() *persona.Switcher { return a.switcher }

// SwitchTree builds a fresh tree for key and makes it active. The old tree
// is interrupted first and the routers are handed to the new session. On a
// build error the old tree stays active.
func (a *Agent) SwitchTree(key, reason string) error {
	next, err := a.buildTree(key)
	if err != nil {
		return err
	}

	prev := a.TreeKey()
	if a.tree != nil {
		a.tree.Reset(&a.ctx)
	}
	if a.Blackboard.Movement != nil {
		a.Blackboard.Movement.TakeOwnership(next.Session)
	}
	if a.Blackboard.Rotation != nil {
		a.Blackboard.Rotation.TakeOwnership(next.Session)
	}
	a.tree = next
	a.status = bt.Idle
	a.ctx.Session = next.Session
	if a.switcher != nil {
		a.switcher.SetActive(key)
	}

	a.log.Info("tree switched",
		zap.String("from", prev),
		zap.String("to", key),
		zap.String("reason", reason),
		zap.Stringer("session", next.Session))
	return nil
}

func (a *Agent) buildTree(key string) (*bt.Tree, error) {
	doc, err := a.loader.LoadTree(a.spec.TreeDocument(key))
	if err != nil {
		return nil, fmt.Errorf("agent: %s: load tree %q: %w", a.ID, key, err)
	}
	tree, err := a.builder.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("agent: %s: tree %q: %w", a.ID, key, err)
	}
	tree.Key = key
	return tree, nil
}

// EvaluateStimulus feeds the persona stimulus to the switcher and switches
// trees when it decides to.
func (a *Agent) EvaluateStimulus(now time.Time) (persona.SwitchEvent, bool, error) {
	if a.switcher == nil || a.Blackboard.Persona == nil {
		return persona.SwitchEvent{}, false, nil
	}
	x := a.Blackboard.Stimulus(a.Blackboard.Persona.Stimulus)
	ev, ok := a.switcher.Evaluate(x, now)
	if !ok {
		return ev, false, nil
	}
	if err := a.SwitchTree(ev.To, ev.Reason); err != nil {
		a.switcher.Revert(ev)
		return ev, false, err
	}
	return ev, true, nil
}

// ApplyEffect adds a status effect and tells the routers about domains it
// blocks.
func (a *Agent) ApplyEffect(e effects.StatusEffect) (effects.Transition, error) {
	if e.AppliedAt.IsZero() {
		e.AppliedAt = a.ctx.Now()
	}
	t, err := a.Blackboard.Effects.Apply(e)
	if err != nil {
		return t, err
	}
	t.Notify(a.Blackboard.Listeners()...)
	a.logTransition("effect applied", e.ID, t)
	return t, nil
}

func (a *Agent) LiftEffect(id string) effects.Transition {
	t := a.Blackboard.Effects.Lift(id)
	t.Notify(a.Blackboard.Listeners()...)
	a.logTransition("effect lifted", id, t)
	return t
}

// ExpireEffects removes effects that have run out at now.
func (a *Agent) ExpireEffects(now time.Time) effects.Transition {
	t := a.Blackboard.Effects.Expire(now)
	t.Notify(a.Blackboard.Listeners()...)
	if !t.Empty() {
		a.logTransition("effects expired", "", t)
	}
	return t
}

func (a *Agent) logTransition(msg, id string, t effects.Transition) {
	fields := []zap.Field{zap.String("effect", id)}
	if !t.Empty() {
		fields = append(fields, zap.Any("blocked", t.Blocked), zap.Any("unblocked", t.Unblocked))
	}
	a.log.Debug(msg, fields...)
}

// Reload rebuilds the active tree from its document, picking up edits.
func (a *Agent) Reload() error {
	if a.tree == nil {
		return nil
	}
	return a.SwitchTree(a.tree.Key, "reload")
}

// TreeKeys lists every tree key the agent can run.
func (a *Agent) TreeKeys() []string {
	seen := map[string]bool{}
	add := func(k string) {
		if k != "" {
			seen[k] = true
		}
	}
	add(a.spec.Tree)
	for k := range a.spec.Trees {
		add(k)
	}
	if p := a.Blackboard.Persona; p != nil {
		for _, k := range p.Trees() {
			add(k)
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Validate builds every tree the agent can switch to without activating
// any of them.
func (a *Agent) Validate() error {
	var errs []error
	for _, key := range a.TreeKeys() {
		if _, err := a.buildTree(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
