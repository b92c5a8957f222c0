package timer

import (
	"sort"
	"time"
)

// Service tracks named deadlines for one agent. Timers are polled, never
// scheduled: callers ask Ready/Remaining on their own tick.
type Service struct {
	clock     Clock
	deadlines map[string]time.Time
}

func NewService(clock Clock) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		clock:     clock,
		deadlines: map[string]time.Time{},
	}
}

// Clock returns the time source backing the service.
func (s *Service) Clock() Clock {
	if s == nil {
		return SystemClock{}
	}
	return s.clock
}

func (s *Service) Now() time.Time {
	return s.Clock().Now()
}

// Start (re)arms the named timer to fire d from now.
func (s *Service) Start(name string, d time.Duration) {
	if s == nil || name == "" {
		return
	}
	s.deadlines[name] = s.clock.Now().Add(d)
}

// Cancel forgets the named timer.
func (s *Service) Cancel(name string) {
	if s == nil {
		return
	}
	delete(s.deadlines, name)
}

// Active reports whether the named timer is armed and not yet elapsed.
func (s *Service) Active(name string) bool {
	return s.Remaining(name) > 0
}

// Ready reports whether the named timer is unarmed or has elapsed.
func (s *Service) Ready(name string) bool {
	return !s.Active(name)
}

// Remaining returns the time left on the named timer, or zero.
func (s *Service) Remaining(name string) time.Duration {
	if s == nil {
		return 0
	}
	deadline, ok := s.deadlines[name]
	if !ok {
		return 0
	}
	left := deadline.Sub(s.clock.Now())
	if left < 0 {
		return 0
	}
	return left
}

// Names lists armed timers in sorted order.
func (s *Service) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.deadlines))
	for name := range s.deadlines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
