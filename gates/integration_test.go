package gates_test

import (
	"testing"

	"github.com/creastat/gate/behaviour"
	"github.com/creastat/gate/core"
	"github.com/creastat/gate/entity"
	"github.com/creastat/gate/gates"
	"github.com/creastat/gate/metrics"
	"github.com/creastat/infra/telemetry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, m *metrics.Metrics) *behaviour.Manager {
	t.Helper()
	registry := behaviour.NewRegistry()
	require.NoError(t, gates.RegisterAll(registry))
	return behaviour.NewManager(behaviour.ManagerConfig{
		Registry: registry,
		Logger:   telemetry.New(telemetry.Config{Level: "error"}),
		Metrics:  m,
	})
}

func TestBehaviour_ConcatLifecycle(t *testing.T) {
	m := metrics.New()
	manager := newManager(t, m)
	e := gates.Strings.NewEntity("concat")

	_, err := manager.Attach(e, "concat")
	require.NoError(t, err)

	e.Set(gates.PropertyLHS, "foo")
	v, _ := e.Get(gates.PropertyResult)
	assert.Equal(t, "foo", v)

	e.Set(gates.PropertyRHS, "bar")
	v, _ = e.Get(gates.PropertyResult)
	assert.Equal(t, "foobar", v)

	require.True(t, manager.Detach(e))
	e.Set(gates.PropertyLHS, "baz")
	v, _ = e.Get(gates.PropertyResult)
	assert.Equal(t, "foobar", v)

	lhs, _ := e.Property(gates.PropertyLHS)
	assert.Equal(t, 0, lhs.Stream().Len())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ConnectedGates.WithLabelValues("concat")))
}

func TestBehaviour_ReattachReplacesObserver(t *testing.T) {
	manager := newManager(t, nil)
	e := gates.Strings.NewEntity("concat")
	result, _ := e.Property(gates.PropertyResult)

	_, err := manager.Attach(e, "concat")
	require.NoError(t, err)
	_, err = manager.Attach(e, "prepend")
	require.NoError(t, err)

	writes := 0
	result.Stream().Observe(func(any) { writes++ })

	e.Set(gates.PropertyLHS, "a")
	e.Set(gates.PropertyRHS, "b")

	v, _ := e.Get(gates.PropertyResult)
	assert.Equal(t, "ba", v)
	assert.Equal(t, 2, writes, "exactly one gate writes the result")

	lhs, _ := e.Property(gates.PropertyLHS)
	assert.Equal(t, 1, lhs.Stream().Len())

	manager.DetachAll()
	assert.Equal(t, 0, lhs.Stream().Len())
}

func TestBehaviour_SchemaMismatchIsNotAttached(t *testing.T) {
	manager := newManager(t, nil)
	e := entity.NewReactiveEntityInstance("and", map[string]core.Value{
		gates.PropertyLHS: false,
		gates.PropertyRHS: false,
	})

	_, err := manager.Attach(e, "and")

	assert.Error(t, err)
	assert.False(t, manager.IsAttached(e))
}
