package entity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/creastat/gate/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntity() *ReactiveEntityInstance {
	return NewReactiveEntityInstance("concat", map[string]core.Value{
		"lhs":    "",
		"rhs":    "",
		"result": "initial",
	})
}

func TestEntity_GetSet(t *testing.T) {
	e := newTestEntity()

	v, ok := e.Get("result")
	require.True(t, ok)
	assert.Equal(t, "initial", v)

	assert.True(t, e.Set("lhs", "foo"))
	v, _ = e.Get("lhs")
	assert.Equal(t, "foo", v)

	assert.False(t, e.Set("missing", "x"))
	_, ok = e.Get("missing")
	assert.False(t, ok)
}

func TestEntity_SetPushesOnPropertyStream(t *testing.T) {
	e := newTestEntity()
	p, ok := e.Property("lhs")
	require.True(t, ok)

	var got []core.Value
	p.Stream().Observe(func(v core.Value) { got = append(got, v) })

	e.Set("lhs", "a")
	e.Set("lhs", "b")

	assert.Equal(t, []core.Value{"a", "b"}, got)
}

func TestEntity_ObserverSeesStoredValue(t *testing.T) {
	e := newTestEntity()
	p, _ := e.Property("lhs")

	var seen core.Value
	p.Stream().Observe(func(v core.Value) { seen = p.Get() })

	e.Set("lhs", "stored")

	assert.Equal(t, "stored", seen)
}

func TestEntity_PropertyIdentityIsStable(t *testing.T) {
	e := newTestEntity()
	a, _ := e.Property("result")
	b, _ := e.Property("result")
	other, _ := e.Property("lhs")

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, other.ID)
}

func TestEntity_AddPropertyKeepsExisting(t *testing.T) {
	e := newTestEntity()
	before, _ := e.Property("lhs")

	after := e.AddProperty("lhs", "ignored")
	added := e.AddProperty("extra", 1.0)

	assert.Same(t, before, after)
	assert.True(t, e.Has("extra"))
	assert.Equal(t, 1.0, added.Get())
	assert.Equal(t, []string{"extra", "lhs", "result", "rhs"}, e.PropertyNames())
}

func TestEntity_Watch(t *testing.T) {
	e := newTestEntity()
	ctx, cancel := context.WithCancel(context.Background())

	events, err := e.Watch(ctx, "result", 4)
	require.NoError(t, err)

	e.Set("result", "x")

	select {
	case ev := <-events:
		changed, ok := ev.(core.PropertyChangedEvent)
		require.True(t, ok)
		assert.Equal(t, "result", changed.Property)
		assert.Equal(t, "x", changed.Value)
		assert.Equal(t, e.ID, changed.EntityID)
		assert.Equal(t, "concat", changed.EntityType)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	cancel()

	// Channel closes once the watch is torn down
	for range events {
	}
	p, _ := e.Property("result")
	assert.Equal(t, 0, p.Stream().Len())
}

func TestEntity_WatchDropsWhenFull(t *testing.T) {
	e := newTestEntity()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := e.Watch(ctx, "lhs", 1)
	require.NoError(t, err)

	e.Set("lhs", "a")
	e.Set("lhs", "b")

	ev := <-events
	assert.Equal(t, "a", ev.(core.PropertyChangedEvent).Value)
	select {
	case extra := <-events:
		t.Fatalf("unexpected event %v", extra)
	default:
	}
}

func TestEntity_WatchMissingProperty(t *testing.T) {
	e := newTestEntity()

	_, err := e.Watch(context.Background(), "missing", 1)

	assert.True(t, errors.Is(err, ErrPropertyNotFound))
}
