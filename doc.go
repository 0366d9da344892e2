// Package memkit is a set of allocator-aware generic containers that manage
// their own storage layout and element lifetimes.
//
// # Overview
//
// The containers live in sub-packages:
//
//   - arena: a fixed-capacity slot allocator with an embedded free list
//   - pool: a typed object pool built on arena
//   - ring: a bounded double-ended ring buffer
//   - vector: a growable vector with amortized doubling, plus a fixed-capacity variant
//   - hashmap: an open-addressing hash map using robin-hood probing and tombstones
//
// Built on top of them:
//
//   - console: a transcript and input history kept in rings, with a slog handler
//   - scene: pooled entities with parent links and a name index
//   - observe: a Prometheus collector reporting container occupancy
//
// This package holds the vocabulary they share: the error taxonomy and the
// Destroyer hook.
//
// # Basic Usage
//
//	p, err := pool.New[Entity](1024)
//	if err != nil {
//		return err
//	}
//	defer p.Close() // Destroys every live object
//
//	e, err := p.Construct(Entity{Name: "cube"})
//	if errors.Is(err, memkit.ErrCapacityExceeded) {
//		// pool is full
//	}
//	_ = p.Destroy(e)
//
// # Thread Safety
//
// None of the containers are goroutine-safe. Every operation on an instance,
// reads included, must be serialized by the caller.
//
// # Lifetimes
//
// Storage is owned by the container. Growth relocates elements without
// destroying them; erase, clear and teardown destroy them. A type whose
// pointer implements Destroyer gets its Destroy method called at that point,
// after which the slot is zeroed so the garbage collector can reclaim whatever
// it referenced.
//
// # Debug Builds
//
// Building with the memkit_debug tag turns caller contract violations (popping
// an empty container, pushing past a fixed bound, releasing a foreign handle)
// into panics. Release builds report the same conditions as errors.
package memkit
