package agent

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/effects"
	"github.com/milk9111/npcbrain/intent"
	"github.com/milk9111/npcbrain/plugin"
	"github.com/milk9111/npcbrain/prefabs"
	"github.com/milk9111/npcbrain/timer"
)

// Builtin plugin keys.
const (
	PluginTimers            = "timers"
	PluginStatusEffects     = "status_effects"
	PluginMovementKinematic = "movement.kinematic"
	PluginMovementNavMesh   = "movement.navmesh"
	PluginRotationKinematic = "rotation.kinematic"
	PluginMovementRouter    = "movement.router"
	PluginRotationRouter    = "rotation.router"
)

// routerParams configures a router plugin. Prefer names the executor type
// that starts as current.
type routerParams struct {
	Prefer string `yaml:"prefer"`
}

// Builtins returns the builtin plugin table in registration order.
func Builtins(log *zap.Logger) []plugin.Descriptor {
	if log == nil {
		log = zap.NewNop()
	}
	return []plugin.Descriptor{
		{Key: PluginTimers, Phase: plugin.PhaseServices, Apply: applyTimers},
		{Key: PluginStatusEffects, Phase: plugin.PhaseServices, Dependencies: []string{PluginTimers}, Apply: applyStatusEffects},
		{Key: PluginMovementKinematic, Phase: plugin.PhaseActuators, Apply: applyKinematicMover},
		{Key: PluginMovementNavMesh, Phase: plugin.PhaseActuators, Apply: applyNavMover},
		{Key: PluginRotationKinematic, Phase: plugin.PhaseActuators, Apply: applyKinematicRotator},
		{Key: PluginMovementRouter, Phase: plugin.PhaseRouting, Apply: func(h *plugin.Host, params map[string]any) error {
			return applyMovementRouter(h, params, log)
		}},
		{Key: PluginRotationRouter, Phase: plugin.PhaseRouting, Apply: func(h *plugin.Host, params map[string]any) error {
			return applyRotationRouter(h, params, log)
		}},
	}
}

// RegisterBuiltins registers the builtin plugins with r.
func RegisterBuiltins(r *plugin.Registry, log *zap.Logger) error {
	for _, d := range Builtins(log) {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func applyTimers(h *plugin.Host, _ map[string]any) error {
	clock, ok := plugin.Get(h, ClockKind)
	if !ok || clock == nil {
		clock = timer.SystemClock{}
	}
	plugin.Attach(h, TimersKind, timer.NewService(clock))
	return nil
}

func applyStatusEffects(h *plugin.Host, _ map[string]any) error {
	if !plugin.Has(h, TimersKind) {
		return fmt.Errorf("%w: %s", ErrMissingCapability, TimersKind.Name())
	}
	plugin.Attach(h, EffectsKind, effects.NewBroker())
	return nil
}

func applyKinematicMover(h *plugin.Host, _ map[string]any) error {
	body, ok := plugin.Get(h, BodyKind)
	if !ok || body == nil {
		return fmt.Errorf("%w: %s", ErrMissingCapability, BodyKind.Name())
	}
	execs, _ := plugin.Get(h, MovementExecutorsKind)
	plugin.Attach(h, MovementExecutorsKind, append(execs, intent.MovementExecutor(intent.NewKinematicMover(body))))
	return nil
}

func applyNavMover(h *plugin.Host, _ map[string]any) error {
	nav, ok := plugin.Get(h, NavAgentKind)
	if !ok || nav == nil {
		return fmt.Errorf("%w: %s", ErrMissingCapability, NavAgentKind.Name())
	}
	execs, _ := plugin.Get(h, MovementExecutorsKind)
	plugin.Attach(h, MovementExecutorsKind, append(execs, intent.MovementExecutor(intent.NewNavMover(nav))))
	return nil
}

func applyKinematicRotator(h *plugin.Host, _ map[string]any) error {
	body, ok := plugin.Get(h, BodyKind)
	if !ok || body == nil {
		return fmt.Errorf("%w: %s", ErrMissingCapability, BodyKind.Name())
	}
	execs, _ := plugin.Get(h, RotationExecutorsKind)
	plugin.Attach(h, RotationExecutorsKind, append(execs, intent.RotationExecutor(intent.NewKinematicRotator(body))))
	return nil
}

func applyMovementRouter(h *plugin.Host, raw map[string]any, log *zap.Logger) error {
	params, err := prefabs.DecodeSpec[routerParams](raw)
	if err != nil {
		return err
	}
	execs, _ := plugin.Get(h, MovementExecutorsKind)
	if len(execs) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingCapability, MovementExecutorsKind.Name())
	}
	router, err := intent.NewMovementRouter(log.With(zap.String("entity", h.Entity())), preferFirst(execs, intent.Type(params.Prefer))...)
	if err != nil {
		return err
	}
	plugin.Attach(h, MovementRouterKind, router)
	return nil
}

func applyRotationRouter(h *plugin.Host, raw map[string]any, log *zap.Logger) error {
	params, err := prefabs.DecodeSpec[routerParams](raw)
	if err != nil {
		return err
	}
	execs, _ := plugin.Get(h, RotationExecutorsKind)
	if len(execs) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingCapability, RotationExecutorsKind.Name())
	}
	router, err := intent.NewRotationRouter(log.With(zap.String("entity", h.Entity())), preferFirst(execs, intent.Type(params.Prefer))...)
	if err != nil {
		return err
	}
	plugin.Attach(h, RotationRouterKind, router)
	return nil
}

func preferFirst[E interface{ Type() intent.Type }](execs []E, prefer intent.Type) []E {
	out := make([]E, 0, len(execs))
	for _, e := range execs {
		if prefer != "" && e.Type() == prefer {
			out = append([]E{e}, out...)
			continue
		}
		out = append(out, e)
	}
	return out
}
