// Package vector implements a contiguous growable array that constructs and
// destroys its elements explicitly, plus a fixed-capacity variant.
//
// Elements [0, Len) are live; the rest of the backing storage is unused and
// zeroed. Growth relocates live elements into new storage in index order
// without running their destroy hooks.
package vector

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/pavanmanishd/memkit"
	"github.com/pavanmanishd/memkit/internal/assert"
	"github.com/pavanmanishd/memkit/internal/rawmem"
)

// Vector is a growable array with amortized doubling. The zero value is an
// empty vector ready to use. Not goroutine-safe.
type Vector[T any] struct {
	buf  rawmem.Buffer[T]
	size int
	log  *slog.Logger
}

// Option is a configuration option for Vector.
type Option func(*config)

type config struct {
	capacity int
	logger   *slog.Logger
}

// WithCapacity reserves room for n elements up front.
func WithCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithLogger sets the logger used to report relocations.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// New creates an empty vector.
func New[T any](opts ...Option) *Vector[T] {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	v := &Vector[T]{log: c.logger}
	v.Reserve(c.capacity)
	return v
}

// FromSlice creates a vector holding a copy of s, with a quarter of
// headroom beyond len(s).
func FromSlice[T any](s []T, opts ...Option) *Vector[T] {
	v := New[T](opts...)
	v.Reserve(len(s) + len(s)/4)
	for _, e := range s {
		v.PushBack(e)
	}
	return v
}

func (v *Vector[T]) logger() *slog.Logger {
	if v.log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return v.log
}

// Len returns the number of live elements.
func (v *Vector[T]) Len() int { return v.size }

// Cap returns the number of elements the current storage can hold.
func (v *Vector[T]) Cap() int { return v.buf.Len() }

// Reserve grows storage to hold at least n elements. It is a no-op if
// n <= Cap().
func (v *Vector[T]) Reserve(n int) {
	if n <= v.buf.Len() {
		return
	}
	next := rawmem.Make[T](n)
	rawmem.Relocate(next, v.buf, v.size)
	v.logger().Debug("vector: relocated", "size", v.size, "old_capacity", v.buf.Len(), "capacity", n)
	v.buf = next
}

// PushBack appends e, growing storage to 2*Cap()+2 when full.
func (v *Vector[T]) PushBack(e T) {
	if v.size == v.buf.Len() {
		v.Reserve(2*v.buf.Len() + 2)
	}
	v.buf.Construct(v.size, e)
	v.size++
}

// PopBack removes the last element and moves it out to the caller.
func (v *Vector[T]) PopBack() (T, error) {
	if v.size == 0 {
		assert.That(false, "vector: pop back on empty vector")
		var zero T
		return zero, fmt.Errorf("vector: pop back: %w", memkit.ErrEmptyContainer)
	}
	v.size--
	return v.buf.Take(v.size), nil
}

// Resize grows the vector to n elements by appending copies of fill, or
// shrinks it by destroying elements from the back.
func (v *Vector[T]) Resize(n int, fill T) error {
	if n < 0 {
		return fmt.Errorf("vector: resize to %d: %w", n, memkit.ErrInvalidIndex)
	}
	if n > v.size {
		v.Reserve(n + n/4)
	}
	for v.size < n {
		v.PushBack(fill)
	}
	for v.size > n {
		v.size--
		v.buf.Destroy(v.size)
	}
	return nil
}

// Ref returns a pointer to element i. The pointer is invalidated by growth.
func (v *Vector[T]) Ref(i int) (*T, error) {
	if i < 0 || i >= v.size {
		assert.That(false, "vector: index out of range")
		return nil, fmt.Errorf("vector: index %d with length %d: %w", i, v.size, memkit.ErrInvalidIndex)
	}
	return v.buf.At(i), nil
}

// At returns element i.
func (v *Vector[T]) At(i int) (T, error) {
	p, err := v.Ref(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// Set overwrites element i.
func (v *Vector[T]) Set(i int, e T) error {
	p, err := v.Ref(i)
	if err != nil {
		return err
	}
	*p = e
	return nil
}

// Front returns the first element.
func (v *Vector[T]) Front() (T, error) {
	if v.size == 0 {
		var zero T
		return zero, fmt.Errorf("vector: front: %w", memkit.ErrEmptyContainer)
	}
	return *v.buf.At(0), nil
}

// Back returns the last element.
func (v *Vector[T]) Back() (T, error) {
	if v.size == 0 {
		var zero T
		return zero, fmt.Errorf("vector: back: %w", memkit.ErrEmptyContainer)
	}
	return *v.buf.At(v.size - 1), nil
}

// Data returns the live elements as a slice sharing the vector's storage.
// The slice is invalidated by growth.
func (v *Vector[T]) Data() []T {
	if v.size == 0 {
		return nil
	}
	return v.buf.Slice(0, v.size)
}

// Clear destroys every element and keeps the storage.
func (v *Vector[T]) Clear() {
	for v.size > 0 {
		v.size--
		v.buf.Destroy(v.size)
	}
}

// Release destroys every element and drops the storage.
func (v *Vector[T]) Release() {
	v.Clear()
	v.buf = rawmem.Buffer[T]{}
}

// Clone returns a deep copy, element by element.
func (v *Vector[T]) Clone() *Vector[T] {
	out := FromSlice(v.Data())
	out.log = v.log
	return out
}

// Swap exchanges the contents of v and o in constant time.
func (v *Vector[T]) Swap(o *Vector[T]) {
	v.buf, o.buf = o.buf, v.buf
	v.size, o.size = o.size, v.size
}

// Move transfers v's storage to a new vector and leaves v empty.
func (v *Vector[T]) Move() *Vector[T] {
	out := &Vector[T]{log: v.log}
	out.Swap(v)
	return out
}

// All yields index and value in order.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(i, *v.buf.At(i)) {
				return
			}
		}
	}
}

// Values yields every element in order.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(*v.buf.At(i)) {
				return
			}
		}
	}
}
