// Package arena implements a fixed-capacity slot allocator (memory arena)
// with a free list embedded in the slots it manages.
//
// Every slot is a 4-byte header followed by storage for one T. A free slot's
// header holds the index of the next free slot; an allocated slot's header
// holds the all-ones marker. The arena never grows.
package arena

import (
	"fmt"
	"iter"
	"unsafe"

	"github.com/pavanmanishd/memkit"
	"github.com/pavanmanishd/memkit/internal/assert"
)

const (
	// DefaultCapacity is the slot count used when New is given capacity <= 0.
	DefaultCapacity = 1024
	// MaxCapacity keeps every slot index below the allocated marker.
	MaxCapacity uint64 = 1<<32 - 2

	allocatedMarker = ^uint32(0)
)

// slot represents a single arena unit.
type slot[T any] struct {
	next uint32 // free-list link, or allocatedMarker
	obj  T
}

// Arena is a fixed-capacity slot allocator. Not goroutine-safe.
type Arena[T any] struct {
	slots    []slot[T]
	size     uint32
	freeHead uint32
}

// New creates an Arena with room for capacity objects.
// If capacity <= 0, DefaultCapacity is used.
func New[T any](capacity int) (*Arena[T], error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if uint64(capacity) > MaxCapacity {
		return nil, fmt.Errorf("arena: capacity %d exceeds maximum %d", capacity, MaxCapacity)
	}
	a := &Arena[T]{slots: make([]slot[T], capacity)}
	for i := range a.slots {
		a.slots[i].next = uint32(i + 1)
	}
	return a, nil
}

// Allocate reserves the head of the free list and returns a pointer to its
// payload. The payload holds whatever the slot last contained; release does
// not zero it.
func (a *Arena[T]) Allocate() (*T, error) {
	i, err := a.AllocateIndex()
	if err != nil {
		return nil, err
	}
	return &a.slots[i].obj, nil
}

// AllocateIndex is Allocate returning the slot index instead of a pointer.
func (a *Arena[T]) AllocateIndex() (int, error) {
	if int(a.size) == len(a.slots) {
		assert.That(false, "arena: allocate on full arena")
		return 0, fmt.Errorf("arena: allocate: %w", memkit.ErrCapacityExceeded)
	}
	i := a.freeHead
	s := &a.slots[i]
	a.freeHead = s.next
	s.next = allocatedMarker
	a.size++
	return int(i), nil
}

// Release returns the slot holding p to the free list.
func (a *Arena[T]) Release(p *T) error {
	i, err := a.IndexOf(p)
	if err != nil {
		return err
	}
	return a.ReleaseIndex(i)
}

// ReleaseIndex returns slot i to the free list.
func (a *Arena[T]) ReleaseIndex(i int) error {
	if !a.IsAllocated(i) {
		assert.That(false, "arena: release of unallocated slot")
		return fmt.Errorf("arena: release slot %d: %w", i, memkit.ErrInvalidHandle)
	}
	a.slots[i].next = a.freeHead
	a.freeHead = uint32(i)
	a.size--
	return nil
}

// IndexOf maps a payload pointer back to its slot index. It fails with
// ErrInvalidHandle unless p points at the payload of a live slot of this arena.
func (a *Arena[T]) IndexOf(p *T) (int, error) {
	if p == nil || len(a.slots) == 0 {
		return 0, fmt.Errorf("arena: index of %p: %w", p, memkit.ErrInvalidHandle)
	}
	stride := unsafe.Sizeof(slot[T]{})
	base := uintptr(unsafe.Pointer(&a.slots[0].obj))
	addr := uintptr(unsafe.Pointer(p))
	if addr < base || addr >= base+stride*uintptr(len(a.slots)) || (addr-base)%stride != 0 {
		assert.That(false, "arena: pointer outside arena payload region")
		return 0, fmt.Errorf("arena: index of %p: %w", p, memkit.ErrInvalidHandle)
	}
	i := int((addr - base) / stride)
	if a.slots[i].next != allocatedMarker {
		assert.That(false, "arena: pointer to free slot")
		return 0, fmt.Errorf("arena: index of %p: slot %d is free: %w", p, i, memkit.ErrInvalidHandle)
	}
	return i, nil
}

// IsAllocated reports whether slot i holds a live object. Out-of-range
// indexes report false.
func (a *Arena[T]) IsAllocated(i int) bool {
	if i < 0 || i >= len(a.slots) {
		return false
	}
	return a.slots[i].next == allocatedMarker
}

// ObjectAt returns a pointer to the payload of slot i, allocated or not.
// Returns nil if i is out of range.
func (a *Arena[T]) ObjectAt(i int) *T {
	if i < 0 || i >= len(a.slots) {
		return nil
	}
	return &a.slots[i].obj
}

// All yields the index and payload of every allocated slot in index order.
func (a *Arena[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range a.slots {
			if a.slots[i].next != allocatedMarker {
				continue
			}
			if !yield(i, &a.slots[i].obj) {
				return
			}
		}
	}
}
