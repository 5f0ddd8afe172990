package behaviour

import (
	"fmt"
	"sync"

	"github.com/creastat/gate/core"
	"github.com/creastat/gate/entity"
	"github.com/creastat/gate/metrics"
	"github.com/creastat/infra/telemetry"
	"github.com/google/uuid"
)

// ManagerConfig holds manager configuration
type ManagerConfig struct {
	Registry *Registry
	Logger   telemetry.Logger
	Metrics  *metrics.Metrics
}

type attachment struct {
	name      string
	behaviour core.Disconnectable
}

// Manager owns the behaviours attached to entities. An entity carries at
// most one behaviour: attaching again replaces the previous one.
type Manager struct {
	config   ManagerConfig
	logger   telemetry.Logger
	mu       sync.Mutex
	attached map[uuid.UUID]attachment
}

// NewManager creates a new behaviour manager
func NewManager(config ManagerConfig) *Manager {
	return &Manager{
		config:   config,
		logger:   config.Logger.WithModule("behaviour"),
		attached: make(map[uuid.UUID]attachment),
	}
}

// Attach creates the named behaviour on e. A behaviour already attached to
// e is disconnected first, so the new one never runs alongside it. If the
// factory then fails, e is left without any behaviour and the previous one
// is not restored.
func (m *Manager) Attach(e *entity.ReactiveEntityInstance, name string) (core.Disconnectable, error) {
	factory, ok := m.config.Registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("attach %q to %s: %w", name, e.ID, ErrUnknownBehaviour)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if previous, exists := m.attached[e.ID]; exists {
		m.logger.Info("Replacing behaviour",
			telemetry.String("entity_id", e.ID.String()),
			telemetry.String("previous", previous.name),
			telemetry.String("behaviour", name))
		previous.behaviour.Disconnect()
		delete(m.attached, e.ID)
	}

	b, err := factory(e, Options{Logger: m.config.Logger, Metrics: m.config.Metrics})
	if err != nil {
		m.logger.Error("Failed to attach behaviour",
			telemetry.String("entity_id", e.ID.String()),
			telemetry.String("behaviour", name),
			telemetry.Err(err))
		return nil, fmt.Errorf("attach %q to %s: %w", name, e.ID, err)
	}

	m.attached[e.ID] = attachment{name: name, behaviour: b}
	m.logger.Debug("Behaviour attached",
		telemetry.String("entity_id", e.ID.String()),
		telemetry.String("behaviour", name))
	return b, nil
}

// Detach disconnects the behaviour attached to e and reports whether there was one
func (m *Manager) Detach(e *entity.ReactiveEntityInstance) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, exists := m.attached[e.ID]
	if !exists {
		return false
	}
	a.behaviour.Disconnect()
	delete(m.attached, e.ID)
	m.logger.Debug("Behaviour detached",
		telemetry.String("entity_id", e.ID.String()),
		telemetry.String("behaviour", a.name))
	return true
}

// IsAttached reports whether e carries a behaviour
func (m *Manager) IsAttached(e *entity.ReactiveEntityInstance) bool {
	_, ok := m.BehaviourOf(e)
	return ok
}

// BehaviourOf returns the name of the behaviour attached to e
func (m *Manager) BehaviourOf(e *entity.ReactiveEntityInstance) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.attached[e.ID]
	return a.name, ok
}

// Len returns the number of attached behaviours
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.attached)
}

// DetachAll disconnects every attached behaviour
func (m *Manager) DetachAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, a := range m.attached {
		a.behaviour.Disconnect()
		delete(m.attached, id)
	}
	m.logger.Debug("All behaviours detached")
}
