package ecs

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

type System interface {
	Update(w *World)
}

// DefaultSlowSystem is the update time above which a system is logged at
// warn level.
const DefaultSlowSystem = 4 * time.Millisecond

// SystemTiming is the wall time one system took on the last Update.
type SystemTiming struct {
	Name     string
	Duration time.Duration
}

type scheduled struct {
	name string
	sys  System
	last time.Duration
}

// Scheduler runs systems in the order they were added and times each one.
type Scheduler struct {
	log     *zap.Logger
	slow    time.Duration
	entries []scheduled
}

// NewScheduler skips nil systems. A nil log only disables logging; timings
// are still recorded.
func NewScheduler(log *zap.Logger, systems ...System) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scheduler{log: log.Named("scheduler"), slow: DefaultSlowSystem}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

// SetSlowThreshold changes the warn threshold. Zero disables the warning.
func (s *Scheduler) SetSlowThreshold(d time.Duration) { s.slow = d }

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.entries = append(s.entries, scheduled{name: systemName(system), sys: system})
}

// systemName prefers a Name method and falls back to the type name.
func systemName(sys System) string {
	if n, ok := sys.(interface{ Name() string }); ok {
		return n.Name()
	}
	name := strings.TrimPrefix(fmt.Sprintf("%T", sys), "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (s *Scheduler) Update(w *World) {
	for i := range s.entries {
		e := &s.entries[i]
		start := time.Now()
		e.sys.Update(w)
		e.last = time.Since(start)

		if s.slow > 0 && e.last > s.slow {
			s.log.Warn("slow system",
				zap.String("system", e.name),
				zap.Duration("took", e.last),
				zap.Duration("threshold", s.slow),
				zap.Uint64("frame", w.Frame()))
			continue
		}
		if ce := s.log.Check(zap.DebugLevel, "system updated"); ce != nil {
			ce.Write(zap.String("system", e.name), zap.Duration("took", e.last), zap.Uint64("frame", w.Frame()))
		}
	}
}

func (s *Scheduler) Systems() []System {
	out := make([]System, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.sys)
	}
	return out
}

// Timings returns each system's last update time in run order. Durations are
// zero before the first Update.
func (s *Scheduler) Timings() []SystemTiming {
	out := make([]SystemTiming, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, SystemTiming{Name: e.name, Duration: e.last})
	}
	return out
}
