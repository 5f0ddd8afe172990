package entity

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store holds entity instances by id
type Store struct {
	mu       sync.RWMutex
	entities map[uuid.UUID]*ReactiveEntityInstance
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		entities: make(map[uuid.UUID]*ReactiveEntityInstance),
	}
}

// Add stores e, replacing any entity with the same id
func (s *Store) Add(e *ReactiveEntityInstance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[e.ID] = e
}

// Entity returns the entity with the given id
func (s *Store) Entity(id uuid.UUID) (*ReactiveEntityInstance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[id]
	return e, ok
}

// Remove deletes the entity with the given id and reports whether it existed
func (s *Store) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entities[id]; !ok {
		return false
	}
	delete(s.entities, id)
	return true
}

// All returns every entity ordered by type name, then id
func (s *Store) All() []*ReactiveEntityInstance {
	s.mu.RLock()
	all := make([]*ReactiveEntityInstance, 0, len(s.entities))
	for _, e := range s.entities {
		all = append(all, e)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].TypeName != all[j].TypeName {
			return all[i].TypeName < all[j].TypeName
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	return all
}

// Len returns the number of stored entities
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}
