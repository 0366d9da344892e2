package vector

import (
	"fmt"
	"iter"

	"github.com/pavanmanishd/memkit"
	"github.com/pavanmanishd/memkit/internal/assert"
	"github.com/pavanmanishd/memkit/internal/rawmem"
)

// Fixed is a vector whose capacity is set at construction and never changes.
type Fixed[T any] struct {
	buf  rawmem.Buffer[T]
	size int
}

// NewFixed creates an empty fixed vector holding at most capacity elements.
func NewFixed[T any](capacity int) (*Fixed[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("vector: capacity must be a positive value, got %d", capacity)
	}
	return &Fixed[T]{buf: rawmem.Make[T](capacity)}, nil
}

// Len returns the number of live elements.
func (f *Fixed[T]) Len() int { return f.size }

// Cap returns the fixed capacity.
func (f *Fixed[T]) Cap() int { return f.buf.Len() }

// PushBack appends e.
func (f *Fixed[T]) PushBack(e T) error {
	if f.size == f.buf.Len() {
		assert.That(false, "vector: push back on full fixed vector")
		return fmt.Errorf("vector: push back: %w", memkit.ErrCapacityExceeded)
	}
	f.buf.Construct(f.size, e)
	f.size++
	return nil
}

// PopBack removes the last element and moves it out to the caller.
func (f *Fixed[T]) PopBack() (T, error) {
	if f.size == 0 {
		assert.That(false, "vector: pop back on empty fixed vector")
		var zero T
		return zero, fmt.Errorf("vector: pop back: %w", memkit.ErrEmptyContainer)
	}
	f.size--
	return f.buf.Take(f.size), nil
}

// Resize grows to n elements with copies of fill or shrinks by destroying
// from the back. n beyond the capacity fails without changing anything.
func (f *Fixed[T]) Resize(n int, fill T) error {
	if n < 0 {
		return fmt.Errorf("vector: resize to %d: %w", n, memkit.ErrInvalidIndex)
	}
	if n > f.buf.Len() {
		return fmt.Errorf("vector: resize to %d: %w", n, memkit.ErrCapacityExceeded)
	}
	for f.size < n {
		f.buf.Construct(f.size, fill)
		f.size++
	}
	for f.size > n {
		f.size--
		f.buf.Destroy(f.size)
	}
	return nil
}

// Ref returns a pointer to element i.
func (f *Fixed[T]) Ref(i int) (*T, error) {
	if i < 0 || i >= f.size {
		return nil, fmt.Errorf("vector: index %d with length %d: %w", i, f.size, memkit.ErrInvalidIndex)
	}
	return f.buf.At(i), nil
}

// At returns element i.
func (f *Fixed[T]) At(i int) (T, error) {
	p, err := f.Ref(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// Set overwrites element i.
func (f *Fixed[T]) Set(i int, e T) error {
	p, err := f.Ref(i)
	if err != nil {
		return err
	}
	*p = e
	return nil
}

// Data returns the live elements as a slice sharing the vector's storage.
func (f *Fixed[T]) Data() []T {
	return f.buf.Slice(0, f.size)
}

// Clear destroys every element.
func (f *Fixed[T]) Clear() {
	_ = f.Resize(0, *new(T))
}

// All yields index and value in order.
func (f *Fixed[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < f.size; i++ {
			if !yield(i, *f.buf.At(i)) {
				return
			}
		}
	}
}
