// Package system holds the per-frame systems that drive NPC brains.
package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/ecs"
)

// NewSchedule returns the systems in frame order: effects, sensing, persona
// switching, tree ticking, then motion.
func NewSchedule(log *zap.Logger) *ecs.Scheduler {
	return ecs.NewScheduler(log,
		NewEffectSystem(log),
		NewSensorSystem(),
		NewPersonaSystem(log),
		NewBrainSystem(),
		NewMotionSystem(),
	)
}
