package entity

import (
	"sync"

	"github.com/creastat/gate/core"
	"github.com/creastat/gate/stream"
	"github.com/google/uuid"
)

// PropertyInstance is a named value with a stable identity and a live stream
// of its successive values
type PropertyInstance struct {
	ID   uuid.UUID
	Name string

	mu      sync.RWMutex
	writeMu sync.Mutex
	value   core.Value
	stream  *stream.Stream[core.Value]
}

// NewPropertyInstance creates a property holding an initial value
func NewPropertyInstance(name string, value core.Value) *PropertyInstance {
	return &PropertyInstance{
		ID:     uuid.New(),
		Name:   name,
		value:  value,
		stream: stream.New[core.Value](),
	}
}

// Get returns the current value
func (p *PropertyInstance) Get() core.Value {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set stores v and pushes it onto the property's stream. Writes to the same
// property are serialized so the stored value and the emitted order agree.
func (p *PropertyInstance) Set(v core.Value) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	p.value = v
	p.mu.Unlock()

	p.stream.Send(v)
}

// Stream returns the live stream of values written to the property
func (p *PropertyInstance) Stream() *stream.Stream[core.Value] {
	return p.stream
}
