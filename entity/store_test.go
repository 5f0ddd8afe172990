package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStore(t *testing.T) {
	s := NewStore()
	a := NewReactiveEntityInstance("b-type", nil)
	b := NewReactiveEntityInstance("a-type", nil)

	s.Add(a)
	s.Add(b)
	s.Add(a)

	assert.Equal(t, 2, s.Len())
	got, ok := s.Entity(a.ID)
	assert.True(t, ok)
	assert.Same(t, a, got)
	_, ok = s.Entity(uuid.New())
	assert.False(t, ok)

	all := s.All()
	assert.Equal(t, []*ReactiveEntityInstance{b, a}, all)

	assert.True(t, s.Remove(a.ID))
	assert.False(t, s.Remove(a.ID))
	assert.Equal(t, 1, s.Len())
}
