// Package ring implements a bounded double-ended ring buffer.
//
// The buffer never grows. Callers that use it as a rolling log evict with
// PopFront before pushing once it is full.
package ring

import (
	"fmt"
	"iter"

	"github.com/pavanmanishd/memkit"
	"github.com/pavanmanishd/memkit/internal/assert"
	"github.com/pavanmanishd/memkit/internal/rawmem"
)

// Ring is a circular buffer of fixed capacity. Logical element i lives in
// physical slot (head+i) mod capacity. Not goroutine-safe.
type Ring[T any] struct {
	buf  rawmem.Buffer[T]
	head int
	size int
}

// New creates a ring buffer holding at most capacity elements.
func New[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ring: capacity must be a positive value, got %d", capacity)
	}
	return &Ring[T]{buf: rawmem.Make[T](capacity)}, nil
}

// Len returns the number of elements.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return r.buf.Len() }

// Full reports whether a push would fail.
func (r *Ring[T]) Full() bool { return r.size == r.buf.Len() }

// physical maps a logical index to its slot.
func (r *Ring[T]) physical(i int) int {
	return (r.head + i) % r.buf.Len()
}

// PushBack appends v after the last element.
func (r *Ring[T]) PushBack(v T) error {
	if r.Full() {
		assert.That(false, "ring: push back on full ring")
		return fmt.Errorf("ring: push back: %w", memkit.ErrCapacityExceeded)
	}
	r.buf.Construct(r.physical(r.size), v)
	r.size++
	return nil
}

// PushFront inserts v before the first element.
func (r *Ring[T]) PushFront(v T) error {
	if r.Full() {
		assert.That(false, "ring: push front on full ring")
		return fmt.Errorf("ring: push front: %w", memkit.ErrCapacityExceeded)
	}
	r.head = (r.head + r.buf.Len() - 1) % r.buf.Len()
	r.buf.Construct(r.head, v)
	r.size++
	return nil
}

// PopBack removes the last element and moves it out to the caller.
func (r *Ring[T]) PopBack() (T, error) {
	if r.size == 0 {
		assert.That(false, "ring: pop back on empty ring")
		var zero T
		return zero, fmt.Errorf("ring: pop back: %w", memkit.ErrEmptyContainer)
	}
	r.size--
	return r.buf.Take(r.physical(r.size)), nil
}

// PopFront removes the first element and moves it out to the caller.
func (r *Ring[T]) PopFront() (T, error) {
	if r.size == 0 {
		assert.That(false, "ring: pop front on empty ring")
		var zero T
		return zero, fmt.Errorf("ring: pop front: %w", memkit.ErrEmptyContainer)
	}
	v := r.buf.Take(r.head)
	r.head = (r.head + 1) % r.buf.Len()
	r.size--
	return v, nil
}

// DropFront removes and destroys the first element.
func (r *Ring[T]) DropFront() error {
	if r.size == 0 {
		return fmt.Errorf("ring: drop front: %w", memkit.ErrEmptyContainer)
	}
	r.buf.Destroy(r.head)
	r.head = (r.head + 1) % r.buf.Len()
	r.size--
	return nil
}

// Ref returns a pointer to logical element i for in-place writes.
func (r *Ring[T]) Ref(i int) (*T, error) {
	if i < 0 || i >= r.size {
		assert.That(false, "ring: index out of range")
		return nil, fmt.Errorf("ring: index %d with length %d: %w", i, r.size, memkit.ErrInvalidIndex)
	}
	return r.buf.At(r.physical(i)), nil
}

// At returns logical element i.
func (r *Ring[T]) At(i int) (T, error) {
	p, err := r.Ref(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// Set overwrites logical element i.
func (r *Ring[T]) Set(i int, v T) error {
	p, err := r.Ref(i)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Front returns the first element.
func (r *Ring[T]) Front() (T, error) {
	if r.size == 0 {
		var zero T
		return zero, fmt.Errorf("ring: front: %w", memkit.ErrEmptyContainer)
	}
	return r.At(0)
}

// Back returns the last element.
func (r *Ring[T]) Back() (T, error) {
	if r.size == 0 {
		var zero T
		return zero, fmt.Errorf("ring: back: %w", memkit.ErrEmptyContainer)
	}
	return r.At(r.size - 1)
}

// Clear destroys every element from the back, leaving the ring empty.
func (r *Ring[T]) Clear() {
	for r.size > 0 {
		r.size--
		r.buf.Destroy(r.physical(r.size))
	}
	r.head = 0
}

// All yields logical index and value from front to back.
func (r *Ring[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range r.size {
			if !yield(i, *r.buf.At(r.physical(i))) {
				return
			}
		}
	}
}
