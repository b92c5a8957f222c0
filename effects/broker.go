// Package effects tracks active status effects per agent and reference
// counts the capability domains they block.
package effects

import (
	"fmt"
	"sort"
	"time"
)

// Domain is a named category of capability that status effects can block.
type Domain string

const (
	DomainMovement  Domain = "movement"
	DomainRotation  Domain = "rotation"
	DomainTargeting Domain = "targeting"
)

// StatusEffect is a gameplay-applied modifier. A zero Duration lasts until
// lifted.
type StatusEffect struct {
	ID          string             `yaml:"id"`
	Domains     []Domain           `yaml:"domains"`
	Multipliers map[string]float64 `yaml:"multipliers"`
	Duration    time.Duration      `yaml:"-"`
	AppliedAt   time.Time          `yaml:"-"`
}

// Expired reports whether the effect has run out at now.
func (e StatusEffect) Expired(now time.Time) bool {
	if e.Duration <= 0 {
		return false
	}
	return !now.Before(e.AppliedAt.Add(e.Duration))
}

// Transition lists the domains whose blocked state flipped during one broker
// operation.
type Transition struct {
	Blocked   []Domain
	Unblocked []Domain
}

// Empty reports whether nothing flipped.
func (t Transition) Empty() bool {
	return len(t.Blocked) == 0 && len(t.Unblocked) == 0
}

// Merge appends o to t, cancelling domains that flipped both ways.
func (t Transition) Merge(o Transition) Transition {
	net := map[Domain]int{}
	for _, d := range t.Blocked {
		net[d]++
	}
	for _, d := range o.Blocked {
		net[d]++
	}
	for _, d := range t.Unblocked {
		net[d]--
	}
	for _, d := range o.Unblocked {
		net[d]--
	}
	var out Transition
	for _, d := range sortedDomains(net) {
		switch {
		case net[d] > 0:
			out.Blocked = append(out.Blocked, d)
		case net[d] < 0:
			out.Unblocked = append(out.Unblocked, d)
		}
	}
	return out
}

// Listener consumes block/unblock transitions synchronously.
type Listener interface {
	OnDomainsChanged(t Transition)
}

// Notify publishes t to every listener in order. Nothing is retained.
func (t Transition) Notify(listeners ...Listener) {
	if t.Empty() {
		return
	}
	for _, l := range listeners {
		if l != nil {
			l.OnDomainsChanged(t)
		}
	}
}

// Broker owns the active effects of one agent.
type Broker struct {
	active map[string]StatusEffect
	order  []string
	counts map[Domain]int
}

func NewBroker() *Broker {
	return &Broker{
		active: map[string]StatusEffect{},
		counts: map[Domain]int{},
	}
}

// Apply adds e, replacing any active effect with the same id.
func (b *Broker) Apply(e StatusEffect) (Transition, error) {
	if b == nil {
		return Transition{}, fmt.Errorf("effects: nil broker")
	}
	if e.ID == "" {
		return Transition{}, fmt.Errorf("effects: status effect has no id")
	}
	return b.mutate(func() {
		if _, ok := b.active[e.ID]; ok {
			b.remove(e.ID)
		}
		b.active[e.ID] = e
		b.order = append(b.order, e.ID)
		for _, d := range uniqueDomains(e.Domains) {
			b.counts[d]++
		}
	}), nil
}

// Lift removes the effect with the given id, if active.
func (b *Broker) Lift(id string) Transition {
	if b == nil {
		return Transition{}
	}
	return b.mutate(func() {
		b.remove(id)
	})
}

// Expire removes every effect whose duration elapsed at now.
func (b *Broker) Expire(now time.Time) Transition {
	if b == nil {
		return Transition{}
	}
	return b.mutate(func() {
		for _, id := range append([]string(nil), b.order...) {
			if b.active[id].Expired(now) {
				b.remove(id)
			}
		}
	})
}

// Blocked reports whether at least one active effect blocks d.
func (b *Broker) Blocked(d Domain) bool {
	return b.Count(d) > 0
}

// Count returns the number of active effects blocking d.
func (b *Broker) Count(d Domain) int {
	if b == nil {
		return 0
	}
	return b.counts[d]
}

// Multiplier returns the product of the named multiplier over all active
// effects, or 1.
func (b *Broker) Multiplier(name string) float64 {
	m := 1.0
	if b == nil {
		return m
	}
	for _, id := range b.order {
		if v, ok := b.active[id].Multipliers[name]; ok {
			m *= v
		}
	}
	return m
}

// Active returns the active effects in application order.
func (b *Broker) Active() []StatusEffect {
	if b == nil {
		return nil
	}
	out := make([]StatusEffect, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.active[id])
	}
	return out
}

func (b *Broker) remove(id string) {
	e, ok := b.active[id]
	if !ok {
		return
	}
	delete(b.active, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	for _, d := range uniqueDomains(e.Domains) {
		if b.counts[d] > 0 {
			b.counts[d]--
		}
		if b.counts[d] == 0 {
			delete(b.counts, d)
		}
	}
}

// mutate runs fn and reports the net 0<->1 flips it caused.
func (b *Broker) mutate(fn func()) Transition {
	before := make(map[Domain]bool, len(b.counts))
	for d, n := range b.counts {
		before[d] = n > 0
	}
	fn()
	seen := map[Domain]int{}
	for d := range before {
		seen[d] = 0
	}
	for d := range b.counts {
		seen[d] = 0
	}
	var t Transition
	for _, d := range sortedDomains(seen) {
		was, now := before[d], b.counts[d] > 0
		switch {
		case !was && now:
			t.Blocked = append(t.Blocked, d)
		case was && !now:
			t.Unblocked = append(t.Unblocked, d)
		}
	}
	return t
}

func uniqueDomains(in []Domain) []Domain {
	seen := make(map[Domain]struct{}, len(in))
	out := make([]Domain, 0, len(in))
	for _, d := range in {
		if _, ok := seen[d]; ok || d == "" {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

func sortedDomains(m map[Domain]int) []Domain {
	out := make([]Domain, 0, len(m))
	for d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
