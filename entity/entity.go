// Package entity implements the host property graph gates are attached to.
package entity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/creastat/gate/core"
	"github.com/google/uuid"
)

// ErrPropertyNotFound is returned when an entity has no property of the requested name
var ErrPropertyNotFound = errors.New("property not found")

// ReactiveEntityInstance is an entity whose properties expose push-based value streams
type ReactiveEntityInstance struct {
	ID       uuid.UUID
	TypeName string

	mu         sync.RWMutex
	properties map[string]*PropertyInstance
}

// NewReactiveEntityInstance creates an entity of the given type with one
// property per entry of properties
func NewReactiveEntityInstance(typeName string, properties map[string]core.Value) *ReactiveEntityInstance {
	e := &ReactiveEntityInstance{
		ID:         uuid.New(),
		TypeName:   typeName,
		properties: make(map[string]*PropertyInstance, len(properties)),
	}
	for name, value := range properties {
		e.properties[name] = NewPropertyInstance(name, value)
	}
	return e
}

// AddProperty adds a property, or returns the existing one of the same name
func (e *ReactiveEntityInstance) AddProperty(name string, value core.Value) *PropertyInstance {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, exists := e.properties[name]; exists {
		return p
	}
	p := NewPropertyInstance(name, value)
	e.properties[name] = p
	return p
}

// Property returns the named property
func (e *ReactiveEntityInstance) Property(name string) (*PropertyInstance, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, ok := e.properties[name]
	return p, ok
}

// Has reports whether the entity has the named property
func (e *ReactiveEntityInstance) Has(name string) bool {
	_, ok := e.Property(name)
	return ok
}

// PropertyNames returns the names of all properties in sorted order
func (e *ReactiveEntityInstance) PropertyNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.properties))
	for name := range e.properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the current value of the named property
func (e *ReactiveEntityInstance) Get(name string) (core.Value, bool) {
	p, ok := e.Property(name)
	if !ok {
		return nil, false
	}
	return p.Get(), true
}

// Set writes v to the named property, pushing it to every observer of the
// property's stream. It reports false if the property does not exist.
func (e *ReactiveEntityInstance) Set(name string, v core.Value) bool {
	p, ok := e.Property(name)
	if !ok {
		return false
	}
	p.Set(v)
	return true
}

// Watch bridges the named property's stream to a channel of
// PropertyChangedEvent. Sends never block: events are dropped while the
// channel is full. The registration is removed and the channel closed when
// ctx is done.
func (e *ReactiveEntityInstance) Watch(ctx context.Context, name string, buffer int) (<-chan core.Event, error) {
	p, ok := e.Property(name)
	if !ok {
		return nil, fmt.Errorf("watch %s.%s: %w", e.TypeName, name, ErrPropertyNotFound)
	}

	out := make(chan core.Event, buffer)
	var mu sync.Mutex
	closed := false

	id := p.Stream().Observe(func(v core.Value) {
		event := core.PropertyChangedEvent{
			EntityID:   e.ID,
			EntityType: e.TypeName,
			PropertyID: p.ID,
			Property:   p.Name,
			Value:      v,
		}

		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case out <- event:
		default:
			// Channel is full, skip this event
		}
	})

	go func() {
		<-ctx.Done()
		p.Stream().Remove(id)
		mu.Lock()
		closed = true
		close(out)
		mu.Unlock()
	}()

	return out, nil
}
