// Package stream provides a minimal synchronous push stream.
//
// A Stream delivers every Send to its observers, in registration order, before
// Send returns. Derived streams built with Map, Merge, Fold and Synchronize
// hold a registration on their upstream until they are closed.
package stream

import (
	"sync"

	"github.com/google/uuid"
)

// HandleID identifies one observer registration on a stream
type HandleID = uuid.UUID

type observer[T any] struct {
	id HandleID
	fn func(T)
}

// Stream is a push-based source of successive values
type Stream[T any] struct {
	mu        sync.RWMutex
	observers []observer[T]
	detach    []func()
	closed    bool
}

// New creates an empty stream
func New[T any]() *Stream[T] {
	return &Stream[T]{}
}

// Send pushes v to every observer. Observers run outside the stream's lock
// so they may register or remove observers themselves.
func (s *Stream[T]) Send(v T) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return
	}
	fns := make([]func(T), len(s.observers))
	for i, o := range s.observers {
		fns[i] = o.fn
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Observe registers fn under a fresh handle
func (s *Stream[T]) Observe(fn func(T)) HandleID {
	id := uuid.New()
	s.ObserveWithHandle(id, fn)
	return id
}

// ObserveWithHandle registers fn under id. An existing registration with the
// same id is replaced in place, so a handle never stacks observers.
func (s *Stream[T]) ObserveWithHandle(id HandleID, fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	for i := range s.observers {
		if s.observers[i].id == id {
			s.observers[i].fn = fn
			return
		}
	}
	s.observers = append(s.observers, observer[T]{id: id, fn: fn})
}

// Remove deregisters the observer registered under id and reports whether
// one was found
func (s *Stream[T]) Remove(id HandleID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.observers {
		if s.observers[i].id == id {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return true
		}
	}
	return false
}

// Observing reports whether an observer is registered under id
func (s *Stream[T]) Observing(id HandleID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.observers {
		if o.id == id {
			return true
		}
	}
	return false
}

// Len returns the number of registered observers
func (s *Stream[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// Close drops all observers and releases the stream's registrations on its
// upstreams. Sends after Close are discarded. Close is idempotent.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.observers = nil
	detach := s.detach
	s.detach = nil
	s.mu.Unlock()

	for _, d := range detach {
		d()
	}
}

// Closed reports whether Close has been called
func (s *Stream[T]) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Stream[T]) onClose(fn func()) {
	s.mu.Lock()
	s.detach = append(s.detach, fn)
	s.mu.Unlock()
}
