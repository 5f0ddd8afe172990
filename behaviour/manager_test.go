package behaviour

import (
	"errors"
	"testing"

	"github.com/creastat/gate/core"
	"github.com/creastat/gate/entity"
	"github.com/creastat/infra/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBehaviour struct{ mock.Mock }

func (m *MockBehaviour) Disconnect() { m.Called() }

func newTestManager(t *testing.T, factories map[string]Factory) *Manager {
	t.Helper()
	registry := NewRegistry()
	for name, f := range factories {
		require.NoError(t, registry.Register(name, f))
	}
	return NewManager(ManagerConfig{
		Registry: registry,
		Logger:   telemetry.New(telemetry.Config{Level: "error"}),
	})
}

func constFactory(b core.Disconnectable) Factory {
	return func(e *entity.ReactiveEntityInstance, opts Options) (core.Disconnectable, error) {
		return b, nil
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("b", constFactory(nil)))
	require.NoError(t, r.Register("a", constFactory(nil)))

	err := r.Register("a", constFactory(nil))
	assert.True(t, errors.Is(err, ErrDuplicateBehaviour))

	_, ok := r.Get("a")
	assert.True(t, ok)
	_, ok = r.Get("c")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestManager_AttachDetach(t *testing.T) {
	b := &MockBehaviour{}
	b.On("Disconnect").Return().Once()
	m := newTestManager(t, map[string]Factory{"concat": constFactory(b)})
	e := entity.NewReactiveEntityInstance("concat", nil)

	attached, err := m.Attach(e, "concat")
	require.NoError(t, err)
	assert.Same(t, b, attached)
	assert.True(t, m.IsAttached(e))
	name, _ := m.BehaviourOf(e)
	assert.Equal(t, "concat", name)

	assert.True(t, m.Detach(e))
	assert.False(t, m.Detach(e))
	assert.False(t, m.IsAttached(e))
	b.AssertExpectations(t)
}

func TestManager_AttachReplacesPrevious(t *testing.T) {
	first := &MockBehaviour{}
	first.On("Disconnect").Return().Once()
	second := &MockBehaviour{}
	m := newTestManager(t, map[string]Factory{
		"first":  constFactory(first),
		"second": constFactory(second),
	})
	e := entity.NewReactiveEntityInstance("gate", nil)

	_, err := m.Attach(e, "first")
	require.NoError(t, err)
	_, err = m.Attach(e, "second")
	require.NoError(t, err)

	assert.Equal(t, 1, m.Len())
	name, _ := m.BehaviourOf(e)
	assert.Equal(t, "second", name)
	first.AssertExpectations(t)
	second.AssertNotCalled(t, "Disconnect")
}

func TestManager_AttachUnknown(t *testing.T) {
	m := newTestManager(t, nil)

	_, err := m.Attach(entity.NewReactiveEntityInstance("x", nil), "missing")

	assert.True(t, errors.Is(err, ErrUnknownBehaviour))
}

func TestManager_FactoryError(t *testing.T) {
	boom := errors.New("schema mismatch")
	m := newTestManager(t, map[string]Factory{
		"broken": func(e *entity.ReactiveEntityInstance, opts Options) (core.Disconnectable, error) {
			return nil, boom
		},
	})
	e := entity.NewReactiveEntityInstance("x", nil)

	_, err := m.Attach(e, "broken")

	assert.True(t, errors.Is(err, boom))
	assert.False(t, m.IsAttached(e))
}

func TestManager_FailedReattachLeavesNoBehaviour(t *testing.T) {
	previous := &MockBehaviour{}
	previous.On("Disconnect").Return().Once()
	m := newTestManager(t, map[string]Factory{
		"working": constFactory(previous),
		"broken": func(e *entity.ReactiveEntityInstance, opts Options) (core.Disconnectable, error) {
			return nil, errors.New("schema mismatch")
		},
	})
	e := entity.NewReactiveEntityInstance("x", nil)

	_, err := m.Attach(e, "working")
	require.NoError(t, err)
	_, err = m.Attach(e, "broken")

	require.Error(t, err)
	assert.False(t, m.IsAttached(e))
	assert.Equal(t, 0, m.Len())
	previous.AssertExpectations(t)

	// Detaching afterwards must not disconnect the previous behaviour again
	assert.False(t, m.Detach(e))
	previous.AssertNumberOfCalls(t, "Disconnect", 1)
}

func TestManager_DetachAll(t *testing.T) {
	a := &MockBehaviour{}
	a.On("Disconnect").Return().Once()
	b := &MockBehaviour{}
	b.On("Disconnect").Return().Once()
	m := newTestManager(t, map[string]Factory{"a": constFactory(a), "b": constFactory(b)})

	_, err := m.Attach(entity.NewReactiveEntityInstance("x", nil), "a")
	require.NoError(t, err)
	_, err = m.Attach(entity.NewReactiveEntityInstance("y", nil), "b")
	require.NoError(t, err)

	m.DetachAll()

	assert.Equal(t, 0, m.Len())
	a.AssertExpectations(t)
	b.AssertExpectations(t)
}
