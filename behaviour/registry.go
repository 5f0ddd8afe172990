// Package behaviour attaches named behaviours, such as gates, to entities.
package behaviour

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/creastat/gate/core"
	"github.com/creastat/gate/entity"
	"github.com/creastat/gate/metrics"
	"github.com/creastat/infra/telemetry"
)

var (
	// ErrUnknownBehaviour is returned when no factory is registered under a name
	ErrUnknownBehaviour = errors.New("unknown behaviour")

	// ErrDuplicateBehaviour is returned when a name is registered twice
	ErrDuplicateBehaviour = errors.New("behaviour already registered")
)

// Options are handed to a factory when a behaviour is attached
type Options struct {
	Logger  telemetry.Logger
	Metrics *metrics.Metrics
}

// Factory creates a behaviour wired against an entity
type Factory func(e *entity.ReactiveEntityInstance, opts Options) (core.Disconnectable, error)

// Registry maps behaviour names to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under name
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateBehaviour)
	}
	r.factories[name] = factory
	return nil
}

// Get returns the factory registered under name
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[name]
	return f, ok
}

// Names returns all registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
