package pool

import "github.com/pavanmanishd/memkit/arena"

// Len returns the number of live objects.
func (p *Pool[T]) Len() int {
	if p.slots == nil {
		return 0
	}
	return p.slots.Len()
}

// Cap returns the fixed object capacity.
func (p *Pool[T]) Cap() int {
	if p.slots == nil {
		return 0
	}
	return p.slots.Cap()
}

// Full reports whether another Construct would fail.
func (p *Pool[T]) Full() bool {
	return p.slots != nil && p.slots.Full()
}

// Metrics returns a snapshot of the underlying arena's statistics.
func (p *Pool[T]) Metrics() arena.Metrics {
	if p.slots == nil {
		return arena.Metrics{}
	}
	return p.slots.Metrics()
}
