package agent

import (
	"errors"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/npcbrain/effects"
	"github.com/milk9111/npcbrain/intent"
	"github.com/milk9111/npcbrain/plugin"
	"github.com/milk9111/npcbrain/timer"
)

var ErrMissingCapability = errors.New("agent: missing capability")

// Capabilities the host provides before plugins run.
var (
	BodyKind     = plugin.NewKind[*cp.Body]("body")
	NavAgentKind = plugin.NewKind[intent.NavAgent]("nav_agent")
	ClockKind    = plugin.NewKind[timer.Clock]("clock")
	PoseKind     = plugin.NewKind[intent.Pose]("pose")
)

// Capabilities attached by the builtin plugins.
var (
	TimersKind            = plugin.NewKind[*timer.Service]("timers")
	EffectsKind           = plugin.NewKind[*effects.Broker]("status_effects")
	MovementExecutorsKind = plugin.NewKind[[]intent.MovementExecutor]("movement_executors")
	RotationExecutorsKind = plugin.NewKind[[]intent.RotationExecutor]("rotation_executors")
	MovementRouterKind    = plugin.NewKind[*intent.MovementRouter]("movement_router")
	RotationRouterKind    = plugin.NewKind[*intent.RotationRouter]("rotation_router")
)
