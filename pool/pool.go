// Package pool implements a typed object pool on top of a fixed slot arena.
//
// Typical usage: create one pool per kind of long-lived object, construct
// objects into it, hand out the returned pointers, and Destroy each object
// when done. Close destroys whatever is still live.
package pool

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/pavanmanishd/memkit"
	"github.com/pavanmanishd/memkit/arena"
)

// Pool owns objects of type T stored in an arena. Pointers it returns stay
// valid until the object is destroyed; the pool does no reference counting.
// Not goroutine-safe.
type Pool[T any] struct {
	slots *arena.Arena[T]
	log   *slog.Logger
}

// Option is a configuration option for Pool.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for teardown diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// New creates a pool with room for capacity objects.
// If capacity <= 0, arena.DefaultCapacity is used.
func New[T any](capacity int, opts ...Option) (*Pool[T], error) {
	c := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&c)
	}
	slots, err := arena.New[T](capacity)
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	return &Pool[T]{slots: slots, log: c.logger}, nil
}

// Alloc constructs a zero T and returns a pointer to it.
func (p *Pool[T]) Alloc() (*T, error) {
	var zero T
	return p.Construct(zero)
}

// Construct places v in a free slot and returns a pointer to it.
func (p *Pool[T]) Construct(v T) (*T, error) {
	p.panicIfClosed()
	obj, err := p.slots.Allocate()
	if err != nil {
		return nil, fmt.Errorf("pool: construct: %w", err)
	}
	*obj = v
	return obj, nil
}

// ConstructWith zeroes a free slot and lets init build the object in place.
func (p *Pool[T]) ConstructWith(init func(*T)) (*T, error) {
	obj, err := p.Alloc()
	if err != nil {
		return nil, err
	}
	init(obj)
	return obj, nil
}

// Destroy runs obj's destroy hook and returns its slot to the free list.
// obj is validated against the arena before anything is touched, so a
// foreign or already-destroyed pointer fails with ErrInvalidHandle and
// leaves the pool unchanged.
func (p *Pool[T]) Destroy(obj *T) error {
	p.panicIfClosed()
	i, err := p.slots.IndexOf(obj)
	if err != nil {
		return fmt.Errorf("pool: destroy: %w", err)
	}
	memkit.Destroy(obj)
	if err := p.slots.ReleaseIndex(i); err != nil {
		return fmt.Errorf("pool: destroy: %w", err)
	}
	return nil
}

// Contains reports whether obj is a live object of this pool.
func (p *Pool[T]) Contains(obj *T) bool {
	if p.slots == nil {
		return false
	}
	_, err := p.slots.IndexOf(obj)
	return err == nil
}

// All yields every live object in slot order.
func (p *Pool[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		if p.slots == nil {
			return
		}
		for _, obj := range p.slots.All() {
			if !yield(obj) {
				return
			}
		}
	}
}

// Close destroys every live object and releases the arena.
// Any subsequent mutating operation will panic.
func (p *Pool[T]) Close() {
	if p.slots == nil {
		return
	}
	live := 0
	for i := range p.slots.Cap() {
		if p.slots.IsAllocated(i) {
			memkit.Destroy(p.slots.ObjectAt(i))
			live++
		}
	}
	if live > 0 {
		p.log.Debug("pool: destroyed live objects on close", "live", live, "capacity", p.slots.Cap())
	}
	p.slots = nil
}

// panicIfClosed panics if the pool has been closed.
func (p *Pool[T]) panicIfClosed() {
	if p.slots == nil {
		panic("pool: use after Close()")
	}
}
