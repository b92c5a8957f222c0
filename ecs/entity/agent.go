// Package entity creates the entities that populate an NPC simulation.
package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/npcbrain/agent"
	"github.com/milk9111/npcbrain/ecs"
	"github.com/milk9111/npcbrain/ecs/component"
	"github.com/milk9111/npcbrain/intent"
	"github.com/milk9111/npcbrain/nav"
	"github.com/milk9111/npcbrain/plugin"
)

// BuildAgent creates an entity with a kinematic body at pos and a brain
// built from the entity document id. Any failure destroys the entity.
func BuildAgent(w *ecs.World, factory *agent.Factory, id string, pos cp.Vector) (ecs.Entity, *agent.Agent, error) {
	return build(w, factory, id, pos, nil)
}

// BuildNavAgent is BuildAgent with a grid navigation agent on the body,
// available to the movement.navmesh plugin.
func BuildNavAgent(w *ecs.World, factory *agent.Factory, id string, pos cp.Vector, grid *nav.Grid) (ecs.Entity, *agent.Agent, error) {
	if grid == nil {
		return 0, nil, fmt.Errorf("entity: %s: nil nav grid", id)
	}
	return build(w, factory, id, pos, grid)
}

func build(w *ecs.World, factory *agent.Factory, id string, pos cp.Vector, grid *nav.Grid) (ecs.Entity, *agent.Agent, error) {
	e := ecs.CreateEntity(w)
	a, err := buildAgent(w, e, factory, id, pos, grid)
	if err != nil {
		ecs.DestroyEntity(w, e)
		return 0, nil, fmt.Errorf("entity: %s: %w", id, err)
	}
	return e, a, nil
}

func buildAgent(w *ecs.World, e ecs.Entity, factory *agent.Factory, id string, pos cp.Vector, grid *nav.Grid) (*agent.Agent, error) {
	body := cp.NewKinematicBody()
	body.SetPosition(pos)
	if err := ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Body: body}); err != nil {
		return nil, err
	}

	host := plugin.NewHost(id)
	plugin.Attach(host, agent.BodyKind, body)
	plugin.Attach(host, agent.ClockKind, w.Clock())
	if grid != nil {
		navAgent := nav.NewAgent(grid, body)
		plugin.Attach(host, agent.NavAgentKind, intent.NavAgent(navAgent))
		if err := ecs.Add(w, e, component.NavComponent.Kind(), &component.Nav{Agent: navAgent}); err != nil {
			return nil, err
		}
	}

	a, err := factory.Build(id, host)
	if err != nil {
		return nil, err
	}
	if err := ecs.Add(w, e, component.BrainComponent.Kind(), &component.Brain{Agent: a}); err != nil {
		return nil, err
	}
	return a, nil
}

// BuildHostile creates a threat source at pos.
func BuildHostile(w *ecs.World, pos cp.Vector, gain float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	body := cp.NewKinematicBody()
	body.SetPosition(pos)
	if err := ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Body: body}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	if err := ecs.Add(w, e, component.HostileComponent.Kind(), &component.Hostile{Gain: gain}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

// RequestEffect queues status effect changes for e's brain. Requests made in
// the same frame merge.
func RequestEffect(w *ecs.World, e ecs.Entity, req component.EffectRequest) error {
	if cur, ok := ecs.Get(w, e, component.EffectRequestComponent.Kind()); ok {
		cur.Apply = append(cur.Apply, req.Apply...)
		cur.Lift = append(cur.Lift, req.Lift...)
		return nil
	}
	return ecs.Add(w, e, component.EffectRequestComponent.Kind(), &req)
}
