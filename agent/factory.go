package agent

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/bt"
	"github.com/milk9111/npcbrain/bt/action"
	"github.com/milk9111/npcbrain/plugin"
	"github.com/milk9111/npcbrain/prefabs"
	"github.com/milk9111/npcbrain/timer"
)

// Factory builds agents from entity documents. Its registries are filled
// once and shared by every agent it builds.
type Factory struct {
	Nodes     *bt.Registry
	Plugins   *plugin.Registry
	Assembler *Assembler
	Loader    prefabs.Loader
	Clock     timer.Clock
	Logger    *zap.Logger
}

// NewFactory returns a factory with the builtin nodes, plugins and modules.
// A nil loader reads the embedded documents.
func NewFactory(loader prefabs.Loader, clock timer.Clock, log *zap.Logger) (*Factory, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if loader == nil {
		loader = prefabs.Default()
	}
	if clock == nil {
		clock = timer.SystemClock{}
	}

	nodes, err := action.NewRegistry()
	if err != nil {
		return nil, err
	}
	plugins := plugin.NewRegistry()
	if err := RegisterBuiltins(plugins, log); err != nil {
		return nil, err
	}
	return &Factory{
		Nodes:     nodes,
		Plugins:   plugins,
		Assembler: DefaultAssembler(),
		Loader:    loader,
		Clock:     clock,
		Logger:    log,
	}, nil
}

// Build loads the entity document for id and builds an active agent on
// host. A nil host gets a fresh one with no body.
func (f *Factory) Build(id string, host *plugin.Host) (*Agent, error) {
	spec, err := f.Loader.LoadEntity(id)
	if err != nil {
		return nil, fmt.Errorf("agent: load entity %q: %w", id, err)
	}
	return f.BuildSpec(spec, host)
}

// BuildSpec builds an active agent from an already loaded document.
func (f *Factory) BuildSpec(spec prefabs.EntitySpec, host *plugin.Host) (*Agent, error) {
	log := f.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("entity", spec.EntityID))

	if host == nil {
		host = plugin.NewHost(spec.EntityID)
	}
	if !plugin.Has(host, ClockKind) && f.Clock != nil {
		plugin.Attach(host, ClockKind, f.Clock)
	}

	applied, err := f.Plugins.Apply(host, spec.Components)
	if err != nil {
		return nil, fmt.Errorf("agent: %s: %w", spec.EntityID, err)
	}
	log.Debug("plugins applied", zap.Strings("plugins", applied))

	bb, err := f.Assembler.Assemble(&BuildContext{Spec: spec, Host: host, Logger: log})
	if err != nil {
		return nil, err
	}

	a := &Agent{
		ID:         spec.EntityID,
		Blackboard: bb,
		Host:       host,
		spec:       spec,
		loader:     f.Loader,
		builder:    bt.NewBuilder(f.Nodes, spec.ResolutionRoot()),
		log:        log,
	}
	a.ctx = bt.Context{Blackboard: bb, Clock: bb.Timers.Clock(), Logger: log}

	initial := spec.Tree
	if initial == "" && bb.Persona != nil {
		initial = bb.Persona.DefaultTree
	}
	if initial == "" {
		return nil, fmt.Errorf("agent: %s: no initial tree", spec.EntityID)
	}
	if bb.Persona != nil {
		if a.switcher, err = bb.Persona.NewSwitcher(initial); err != nil {
			return nil, fmt.Errorf("agent: %s: %w", spec.EntityID, err)
		}
	}
	if err := a.SwitchTree(initial, "initial"); err != nil {
		return nil, err
	}
	return a, nil
}
