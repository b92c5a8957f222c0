// Package agent assembles NPC agents from entity documents and runs them:
// plugins attach capabilities, modules fill the blackboard, and the agent
// ticks its active behavior tree and switches trees on stimulus changes.
package agent

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/blackboard"
	"github.com/milk9111/npcbrain/intent"
	"github.com/milk9111/npcbrain/plugin"
	"github.com/milk9111/npcbrain/prefabs"
	"github.com/milk9111/npcbrain/profile"
)

var ErrModuleOrder = errors.New("agent: module order")

// BuildContext is the input to a blackboard build. Modules write into
// Blackboard.
type BuildContext struct {
	Spec       prefabs.EntitySpec
	Host       *plugin.Host
	Logger     *zap.Logger
	Blackboard *blackboard.Blackboard
}

// Module fills one concern of the blackboard. Requires names modules that
// must run earlier.
type Module struct {
	Name     string
	Requires []string
	Build    func(bc *BuildContext) error
}

// Assembler runs modules in registration order.
type Assembler struct {
	modules []Module
}

func NewAssembler(modules ...Module) (*Assembler, error) {
	seen := make(map[string]bool, len(modules))
	for _, m := range modules {
		if m.Name == "" || m.Build == nil {
			return nil, fmt.Errorf("%w: module %q has no name or build func", ErrModuleOrder, m.Name)
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("%w: module %q registered twice", ErrModuleOrder, m.Name)
		}
		for _, req := range m.Requires {
			if !seen[req] {
				return nil, fmt.Errorf("%w: %q requires %q to run first", ErrModuleOrder, m.Name, req)
			}
		}
		seen[m.Name] = true
	}
	return &Assembler{modules: append([]Module(nil), modules...)}, nil
}

// DefaultAssembler returns an assembler over DefaultModules.
func DefaultAssembler() *Assembler {
	a, err := NewAssembler(DefaultModules()...)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Assembler) Modules() []string {
	out := make([]string, 0, len(a.modules))
	for _, m := range a.modules {
		out = append(out, m.Name)
	}
	return out
}

// Assemble builds a blackboard for bc.Spec. Any module error aborts the
// whole build.
func (a *Assembler) Assemble(bc *BuildContext) (*blackboard.Blackboard, error) {
	if bc.Logger == nil {
		bc.Logger = zap.NewNop()
	}
	bc.Blackboard = blackboard.New(bc.Spec.EntityID)
	for _, m := range a.modules {
		if err := m.Build(bc); err != nil {
			return nil, fmt.Errorf("agent: %s: module %s: %w", bc.Spec.EntityID, m.Name, err)
		}
		bc.Logger.Debug("module built", zap.String("entity", bc.Spec.EntityID), zap.String("module", m.Name))
	}
	return bc.Blackboard, nil
}

// Default module names.
const (
	ModuleProfiles      = "profiles"
	ModuleSession       = "session"
	ModuleTimers        = "timers"
	ModuleStatusEffects = "status_effects"
	ModulePose          = "pose"
	ModuleMovement      = "movement"
	ModuleRotation      = "rotation"
	ModulePersona       = "persona"
)

func DefaultModules() []Module {
	return []Module{
		{Name: ModuleProfiles, Build: buildProfiles},
		{Name: ModuleSession, Build: buildSession},
		{Name: ModuleTimers, Build: buildTimers},
		{Name: ModuleStatusEffects, Requires: []string{ModuleTimers}, Build: buildStatusEffects},
		{Name: ModulePose, Build: buildPose},
		{Name: ModuleMovement, Requires: []string{ModuleProfiles, ModuleStatusEffects}, Build: buildMovement},
		{Name: ModuleRotation, Requires: []string{ModuleProfiles, ModuleStatusEffects}, Build: buildRotation},
		{Name: ModulePersona, Requires: []string{ModuleProfiles}, Build: buildPersona},
	}
}

func buildProfiles(bc *BuildContext) error {
	set, err := profile.Parse(bc.Spec.Profiles)
	if err != nil {
		return err
	}
	bc.Blackboard.Profiles = set
	return nil
}

func buildSession(bc *BuildContext) error {
	bc.Blackboard.Session = uuid.New()
	return nil
}

func buildTimers(bc *BuildContext) error {
	timers, ok := plugin.Get(bc.Host, TimersKind)
	if !ok {
		return fmt.Errorf("%w: %s (declare the %q plugin)", ErrMissingCapability, TimersKind.Name(), PluginTimers)
	}
	bc.Blackboard.Timers = timers
	return nil
}

func buildStatusEffects(bc *BuildContext) error {
	broker, ok := plugin.Get(bc.Host, EffectsKind)
	if !ok {
		return fmt.Errorf("%w: %s (declare the %q plugin)", ErrMissingCapability, EffectsKind.Name(), PluginStatusEffects)
	}
	bc.Blackboard.Effects = broker
	return nil
}

func buildPose(bc *BuildContext) error {
	if pose, ok := plugin.Get(bc.Host, PoseKind); ok && pose != nil {
		bc.Blackboard.Pose = pose
		return nil
	}
	if body, ok := plugin.Get(bc.Host, BodyKind); ok && body != nil {
		bc.Blackboard.Pose = intent.BodyPose{Body: body}
	}
	return nil
}

// buildMovement attaches the movement router and checks that every movement
// profile asks for an executor type the router has.
func buildMovement(bc *BuildContext) error {
	router, ok := plugin.Get(bc.Host, MovementRouterKind)
	if !ok {
		if bc.Blackboard.Profiles.Movement.Len() > 0 {
			bc.Logger.Warn("movement profiles declared without a movement router",
				zap.String("entity", bc.Spec.EntityID))
		}
		return nil
	}
	for _, key := range bc.Blackboard.Profiles.Movement.Keys() {
		p, err := bc.Blackboard.Profiles.Movement.Lookup(key)
		if err != nil {
			return err
		}
		if p.Type != "" && !slices.Contains(router.Types(), intent.Type(p.Type)) {
			return fmt.Errorf("%w: movement profile %q wants executor %q (have %v)",
				ErrMissingCapability, key, p.Type, router.Types())
		}
	}
	bc.Blackboard.Movement = router
	return nil
}

func buildRotation(bc *BuildContext) error {
	router, ok := plugin.Get(bc.Host, RotationRouterKind)
	if !ok {
		return nil
	}
	for _, key := range bc.Blackboard.Profiles.Rotation.Keys() {
		p, err := bc.Blackboard.Profiles.Rotation.Lookup(key)
		if err != nil {
			return err
		}
		if p.Type != "" && !slices.Contains(router.Types(), intent.Type(p.Type)) {
			return fmt.Errorf("%w: rotation profile %q wants executor %q (have %v)",
				ErrMissingCapability, key, p.Type, router.Types())
		}
	}
	bc.Blackboard.Rotation = router
	return nil
}

func buildPersona(bc *BuildContext) error {
	name := bc.Spec.Persona
	if name == "" {
		return nil
	}
	prof, err := bc.Blackboard.Profiles.Persona.Lookup(name)
	if err != nil {
		return err
	}
	var curves profile.CurveSet
	if prof.Curve != "" {
		if curves, err = bc.Blackboard.Profiles.Curve.Lookup(prof.Curve); err != nil {
			return err
		}
	}
	p := prof.Persona(name, curves)
	bc.Blackboard.Persona = &p
	if p.Stimulus != "" {
		bc.Blackboard.SetStimulus(p.Stimulus, 0)
	}
	return nil
}
