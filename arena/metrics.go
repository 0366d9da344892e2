package arena

import (
	"fmt"
	"unsafe"
)

// Len returns the number of allocated slots.
func (a *Arena[T]) Len() int { return int(a.size) }

// Cap returns the fixed slot count.
func (a *Arena[T]) Cap() int { return len(a.slots) }

// Full reports whether every slot is allocated.
func (a *Arena[T]) Full() bool { return int(a.size) == len(a.slots) }

// SlotSize returns the size in bytes of one slot, header included.
func (a *Arena[T]) SlotSize() int {
	return int(unsafe.Sizeof(slot[T]{}))
}

// Bytes returns the size in bytes of the whole arena.
func (a *Arena[T]) Bytes() int {
	return a.SlotSize() * len(a.slots)
}

// Utilization returns the ratio of allocated slots to capacity (0.0 to 1.0).
func (a *Arena[T]) Utilization() float64 {
	if len(a.slots) == 0 {
		return 0
	}
	return float64(a.size) / float64(len(a.slots))
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena[T]) Metrics() Metrics {
	return Metrics{
		Live:        a.Len(),
		Capacity:    a.Cap(),
		SlotSize:    a.SlotSize(),
		Bytes:       a.Bytes(),
		Utilization: a.Utilization(),
	}
}

// Metrics contains statistical information about an arena.
type Metrics struct {
	Live        int     // Allocated slots
	Capacity    int     // Total slots
	SlotSize    int     // Bytes per slot, header included
	Bytes       int     // Total arena size in bytes
	Utilization float64 // Ratio of live to total slots (0.0-1.0)
}

func (m Metrics) String() string {
	return fmt.Sprintf("Arena{live: %d/%d, slot: %dB, total: %dB, utilization: %.1f%%}",
		m.Live, m.Capacity, m.SlotSize, m.Bytes, m.Utilization*100)
}
