package world

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kerbworks/scenic/internal/geom"
)

// RoleEgo marks the vehicle under test.
const RoleEgo = "hero"

// Provider owns the actor registry for one simulation run. Spawning is
// deterministic: the first blueprint (by ID) matching the request is used.
type Provider struct {
	mu      sync.RWMutex
	m       *Map
	library *Library
	actors  map[uuid.UUID]*Actor
	ego     *Actor
}

// NewProvider wires a provider to a map and blueprint library.
func NewProvider(m *Map, library *Library) (*Provider, error) {
	if m == nil {
		return nil, fmt.Errorf("world: provider requires a map")
	}
	if library == nil {
		library = DefaultLibrary()
	}
	return &Provider{
		m:       m,
		library: library,
		actors:  map[uuid.UUID]*Actor{},
	}, nil
}

// Map returns the lane map the provider was built with.
func (p *Provider) Map() *Map {
	return p.m
}

// SpawnEgo places the vehicle under test. Only one ego may exist.
func (p *Provider) SpawnEgo(filter string, tf geom.Transform) (*Actor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ego != nil {
		return nil, fmt.Errorf("world: ego already spawned")
	}
	actor, err := p.spawnLocked(filter, tf, RoleEgo, nil)
	if err != nil {
		return nil, err
	}
	p.ego = actor
	return actor, nil
}

// RequestNewActor spawns a vehicle matching the wildcard filter and attribute
// filter at the given transform. It fails when no blueprint matches or when
// the spawn point is blocked by an existing actor.
func (p *Provider) RequestNewActor(filter string, tf geom.Transform, role string, attrs map[string]string) (*Actor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.spawnLocked(filter, tf, role, attrs)
}

func (p *Provider) spawnLocked(filter string, tf geom.Transform, role string, attrs map[string]string) (*Actor, error) {
	matches := p.library.Filter(filter, attrs)
	if len(matches) == 0 {
		return nil, fmt.Errorf("world: no blueprint matches %q", filter)
	}
	bp := matches[0]
	box := geom.BoundingBox{Extent: bp.Extent}
	for _, other := range p.actors {
		if geom.Overlaps(tf, box, other.Transform(), other.BoundingBox()) {
			return nil, fmt.Errorf("world: spawn point blocked by %s", other.RoleName())
		}
	}
	actor := newActor(bp, tf, role)
	p.actors[actor.ID()] = actor
	return actor, nil
}

// Ego returns the vehicle under test, or nil before SpawnEgo.
func (p *Provider) Ego() *Actor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ego
}

// Actor looks up an actor by handle.
func (p *Provider) Actor(id uuid.UUID) (*Actor, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	actor, ok := p.actors[id]
	return actor, ok
}

// Actors returns every live actor sorted by role then handle.
func (p *Provider) Actors() []*Actor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Actor, 0, len(p.actors))
	for _, actor := range p.actors {
		out = append(out, actor)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoleName() != out[j].RoleName() {
			return out[i].RoleName() < out[j].RoleName()
		}
		return out[i].ID().String() < out[j].ID().String()
	})
	return out
}

// Remove destroys an actor. Removing the ego is rejected; scenarios only tear
// down the actors they spawned.
func (p *Provider) Remove(id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	actor, ok := p.actors[id]
	if !ok {
		return fmt.Errorf("world: actor %s not found", id)
	}
	if actor == p.ego {
		return fmt.Errorf("world: refusing to remove the ego vehicle")
	}
	delete(p.actors, id)
	return nil
}

// Tick advances every actor's kinematics by dt seconds.
func (p *Provider) Tick(dt float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, actor := range p.actors {
		actor.update(dt)
	}
}
