package scenario

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kerbworks/scenic/internal/world"
)

// Factory constructs a scenario against a live world. The ego must already be
// spawned; factories reposition it but never create it.
type Factory func(provider *world.Provider, ego *world.Actor, cfg Config) (Scenario, error)

// Registry maintains known scenario factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register installs a scenario factory. Returns an error if the ID already
// exists.
func (r *Registry) Register(id string, factory Factory) error {
	if id == "" {
		return fmt.Errorf("scenario: id is required")
	}
	if factory == nil {
		return fmt.Errorf("scenario: factory is required for %s", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("scenario: %s already registered", id)
	}
	r.factories[id] = factory
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(id string, factory Factory) {
	if err := r.Register(id, factory); err != nil {
		panic(err)
	}
}

// Resolve constructs a scenario by type ID.
func (r *Registry) Resolve(id string, provider *world.Provider, ego *world.Actor, cfg Config) (Scenario, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("scenario: unknown id %s", id)
	}
	s, err := factory(provider, ego, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Info().Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// IDs returns a sorted list of registered scenario identifiers.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
