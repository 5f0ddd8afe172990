package stream

import "sync"

// attach subscribes out to upstream through emit and ties the registration
// to out's lifetime
func attach[T, R any](upstream *Stream[T], out *Stream[R], emit func(T)) {
	id := upstream.Observe(emit)
	out.onClose(func() { upstream.Remove(id) })
}

// Map emits f(v) for every v pushed on s
func Map[T, R any](s *Stream[T], f func(T) R) *Stream[R] {
	out := New[R]()
	attach(s, out, func(v T) { out.Send(f(v)) })
	return out
}

// Merge interleaves a and b in arrival order. Every push on either source
// produces exactly one push on the merged stream, without buffering.
func Merge[T any](a, b *Stream[T]) *Stream[T] {
	out := New[T]()
	attach(a, out, out.Send)
	attach(b, out, out.Send)
	return out
}

// Fold accumulates s into running states starting from initial. Every
// upstream push yields exactly one state transition.
func Fold[T, S any](s *Stream[T], initial S, f func(S, T) S) *Stream[S] {
	out := New[S]()
	var mu sync.Mutex
	state := initial
	attach(s, out, func(v T) {
		mu.Lock()
		state = f(state, v)
		next := state
		mu.Unlock()
		out.Send(next)
	})
	return out
}

// Synchronize forwards pushes from s while holding l, so the whole downstream
// cascade of one push runs mutually exclusive with every other stream
// synchronized on the same locker
func Synchronize[T any](s *Stream[T], l sync.Locker) *Stream[T] {
	out := New[T]()
	attach(s, out, func(v T) {
		l.Lock()
		defer l.Unlock()
		out.Send(v)
	})
	return out
}
