// Package rawmem provides typed storage whose slots are only meaningful once
// a container has constructed into them.
//
// Go has no notion of reserved but unconstructed memory, so a Buffer is a
// plain slice whose "live" range is tracked by its owner. Construct, Destroy,
// Take and Relocate are the only operations that change what a slot holds,
// which keeps element lifetimes explicit in the containers built on top.
package rawmem

import (
	"unsafe"

	"github.com/pavanmanishd/memkit"
)

// Buffer is fixed-length storage for n elements of T.
type Buffer[T any] struct {
	data []T
}

// Make returns a buffer with room for n elements. Returns an empty buffer if n <= 0.
func Make[T any](n int) Buffer[T] {
	if n <= 0 {
		return Buffer[T]{}
	}
	return Buffer[T]{data: make([]T, n)}
}

// Len returns the number of slots.
func (b Buffer[T]) Len() int { return len(b.data) }

// At returns a pointer to slot i. No bounds check beyond the slice's own.
func (b Buffer[T]) At(i int) *T { return &b.data[i] }

// Construct places v in slot i and returns a pointer to it.
func (b Buffer[T]) Construct(i int, v T) *T {
	p := &b.data[i]
	*p = v
	return p
}

// Destroy runs the element's destroy hook and zeroes slot i.
func (b Buffer[T]) Destroy(i int) {
	memkit.Destroy(&b.data[i])
}

// Take moves the element out of slot i, leaving the slot zeroed. The element
// is not destroyed; ownership passes to the caller.
func (b Buffer[T]) Take(i int) T {
	v := b.data[i]
	var zero T
	b.data[i] = zero
	return v
}

// Slice returns the live view [lo, hi).
func (b Buffer[T]) Slice(lo, hi int) []T { return b.data[lo:hi:hi] }

// Relocate moves elements [0, n) of src into dst in index order. Moved-from
// slots are zeroed and not destroyed.
func Relocate[T any](dst, src Buffer[T], n int) {
	copy(dst.data[:n], src.data[:n])
	clear(src.data[:n])
}

// ElemSize returns the size in bytes of one slot.
func ElemSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
