package persona

import (
	"fmt"
	"math"
	"time"
)

// Config tunes a Switcher.
//
// Margin is how far a competitor must out-score the active tree. Hysteresis
// is added to the active tree's score. Cooldown and Deadband gate whether an
// evaluation is considered at all.
type Config struct {
	Margin     float64
	Hysteresis float64
	Cooldown   time.Duration
	Deadband   float64
}

// SwitchEvent is emitted when the active tree changes. The caller rebuilds.
type SwitchEvent struct {
	From     string
	To       string
	Reason   string
	Stimulus float64
	At       time.Time
}

type gate struct {
	switched     bool
	lastSwitch   time.Time
	considered   bool
	lastStimulus float64
}

type Switcher struct {
	cfg    Config
	curves []Curve

	active string

	switched   bool
	lastSwitch time.Time

	considered   bool
	lastStimulus float64

	// gate state before the last switch, for Revert
	undo gate
}

// NewSwitcher validates curves and starts with active as the current tree.
// Curve targets are tree keys.
func NewSwitcher(cfg Config, curves []Curve, active string) (*Switcher, error) {
	if cfg.Margin < 0 || cfg.Hysteresis < 0 || cfg.Deadband < 0 || cfg.Cooldown < 0 {
		return nil, fmt.Errorf("persona: negative switcher setting %+v", cfg)
	}
	for _, c := range curves {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if c.Target == "" {
			return nil, fmt.Errorf("persona: curve %q has no target", c.Name)
		}
	}
	return &Switcher{
		cfg:    cfg,
		curves: append([]Curve(nil), curves...),
		active: active,
	}, nil
}

func (s *Switcher) Active() string { return s.active }

// SetActive records an externally forced tree. It does not start a cooldown.
func (s *Switcher) SetActive(key string) { s.active = key }

func (s *Switcher) Curves() []Curve { return append([]Curve(nil), s.curves...) }

// Scores returns the best curve score per target, without hysteresis.
func (s *Switcher) Scores(stimulus float64) map[string]float64 {
	out := make(map[string]float64, len(s.curves))
	for _, c := range s.curves {
		v := c.Score(stimulus)
		if prev, ok := out[c.Target]; !ok || v > prev {
			out[c.Target] = v
		}
	}
	return out
}

// Evaluate considers switching away from the active tree. It is gated by the
// cooldown since the last switch and by the deadband against the last
// considered stimulus.
func (s *Switcher) Evaluate(stimulus float64, now time.Time) (SwitchEvent, bool) {
	if s.switched && now.Sub(s.lastSwitch) < s.cfg.Cooldown {
		return SwitchEvent{}, false
	}
	if s.considered && math.Abs(stimulus-s.lastStimulus) < s.cfg.Deadband {
		return SwitchEvent{}, false
	}
	before := gate{s.switched, s.lastSwitch, s.considered, s.lastStimulus}
	s.considered = true
	s.lastStimulus = stimulus

	scores := s.Scores(stimulus)
	active := scores[s.active] + s.cfg.Hysteresis

	best, bestScore, found := "", math.Inf(-1), false
	for _, c := range s.curves {
		if c.Target == s.active {
			continue
		}
		if v := scores[c.Target]; !found || v > bestScore {
			best, bestScore, found = c.Target, v, true
		}
	}
	if !found || bestScore <= active+s.cfg.Margin {
		return SwitchEvent{}, false
	}

	ev := SwitchEvent{
		From:     s.active,
		To:       best,
		Reason:   fmt.Sprintf("score %.3f > %.3f + margin %.3f", bestScore, active, s.cfg.Margin),
		Stimulus: stimulus,
		At:       now,
	}
	s.undo = before
	s.active = best
	s.switched = true
	s.lastSwitch = now
	return ev, true
}

// Revert undoes the switch ev reported when the caller could not apply it.
// The active tree goes back to ev.From and the cooldown and deadband state to
// what it was before that evaluation, so the next Evaluate is not gated by
// it. A Revert for anything but the last switch only restores the active
// tree.
func (s *Switcher) Revert(ev SwitchEvent) {
	if s.active == ev.To && s.switched && s.lastSwitch.Equal(ev.At) {
		s.switched, s.lastSwitch = s.undo.switched, s.undo.lastSwitch
		s.considered, s.lastStimulus = s.undo.considered, s.undo.lastStimulus
	}
	s.active = ev.From
}
