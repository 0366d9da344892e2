// Package hashmap implements an open-addressing hash map with robin-hood
// probing and tombstone deletion.
//
// Entries live in a flat buffer with a parallel array of 32-bit hashes. A
// hash of 0 marks an empty slot and a set top bit marks a tombstone, leaving
// 31 bits of real hash. Erase never shifts entries back; tombstones are only
// cleared by the full rehash that runs when occupancy (live entries plus
// tombstones) reaches 80% of capacity. That rehash doubles the capacity,
// unless tombstones make up at least 40% of it, in which case the table is
// rebuilt at the same size.
package hashmap

import (
	"fmt"
	"iter"
	"log/slog"
	"math/bits"

	"github.com/pavanmanishd/memkit"
	"github.com/pavanmanishd/memkit/internal/rawmem"
)

const (
	// DefaultInitialCapacity is the capacity allocated by the first insert.
	DefaultInitialCapacity = 32

	minCapacity         = 8
	maxCapacity         = 1 << 31
	maxLoadPercent      = 80
	maxTombstonePercent = 40

	tombstoneBit = uint32(1) << 31
	hashBits     = tombstoneBit - 1
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Map is a robin-hood hash map. The zero value is not usable; create maps
// with New. Not goroutine-safe.
type Map[K comparable, V any] struct {
	entries rawmem.Buffer[entry[K, V]]
	hashes  []uint32

	size            uint32
	capacity        uint32 // always zero or a power of two
	tombstones      uint32
	resizeThreshold uint32
	rehashThreshold uint32
	mask            uint32

	initialCapacity uint32
	hasher          Hasher[K]
	log             *slog.Logger
}

// Option is a configuration option for Map.
type Option func(*config)

type config struct {
	initialCapacity int
	logger          *slog.Logger
}

// WithInitialCapacity sets the capacity allocated by the first insert. It is
// rounded up to a power of two, and to at least 8.
func WithInitialCapacity(n int) Option {
	return func(c *config) {
		c.initialCapacity = n
	}
}

// WithLogger sets the logger used to report rehashes.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// New creates an empty map. No storage is allocated until the first insert.
// If hasher is nil, Comparable is used.
func New[K comparable, V any](hasher Hasher[K], opts ...Option) *Map[K, V] {
	c := config{
		initialCapacity: DefaultInitialCapacity,
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if hasher == nil {
		hasher = Comparable[K]()
	}
	return &Map[K, V]{
		initialCapacity: roundCapacity(c.initialCapacity),
		hasher:          hasher,
		log:             c.logger,
	}
}

// roundCapacity rounds n up to a power of two within [minCapacity, maxCapacity].
func roundCapacity(n int) uint32 {
	if n <= minCapacity {
		return minCapacity
	}
	if n >= maxCapacity {
		return maxCapacity
	}
	return uint32(1) << bits.Len32(uint32(n-1))
}

func isDeleted(h uint32) bool { return h&tombstoneBit != 0 }

func isAlive(h uint32) bool { return h != 0 && !isDeleted(h) }

func (m *Map[K, V]) hashKey(key K) uint32 {
	x := m.hasher(key)
	h := uint32(x^x>>32) & hashBits
	if h == 0 {
		h = 1
	}
	return h
}

func (m *Map[K, V]) desiredPos(h uint32) uint32 {
	return h & m.mask
}

func (m *Map[K, V]) probeDistance(h, pos uint32) uint32 {
	return (pos - m.desiredPos(h)) & m.mask
}

// alloc replaces the storage with an empty table of capacity n. size is
// left to the caller.
func (m *Map[K, V]) alloc(n uint32) {
	m.entries = rawmem.Make[entry[K, V]](int(n))
	m.hashes = make([]uint32, n)
	m.capacity = n
	m.mask = n - 1
	m.tombstones = 0
	m.resizeThreshold = uint32(uint64(n) * maxLoadPercent / 100)
	m.rehashThreshold = uint32(uint64(n) * maxTombstonePercent / 100)
}

// Len returns the number of live entries.
func (m *Map[K, V]) Len() int { return int(m.size) }

// Cap returns the number of slots.
func (m *Map[K, V]) Cap() int { return int(m.capacity) }

// Tombstones returns the number of erased slots not yet reclaimed.
func (m *Map[K, V]) Tombstones() int { return int(m.tombstones) }

// Insert stores value under key. If the key is already present its previous
// value is destroyed and replaced. It reports whether the key was new.
func (m *Map[K, V]) Insert(key K, value V) bool {
	h := m.hashKey(key)
	if pos, ok := m.findPos(h, key); ok {
		e := m.entries.At(int(pos))
		memkit.Destroy(&e.value)
		e.value = value
		return false
	}

	// The incoming entry counts toward the load before the check.
	m.size++
	if m.size+m.tombstones >= m.resizeThreshold {
		m.grow()
	}
	m.insertForHash(h, key, value)
	return true
}

func (m *Map[K, V]) grow() {
	n := m.capacity
	switch {
	case n == 0:
		n = m.initialCapacity
	case m.tombstones < m.rehashThreshold && n < maxCapacity:
		n *= 2
	}
	m.rehash(n)
}

// rehash moves every live entry into a fresh table of capacity n, dropping
// all tombstones.
func (m *Map[K, V]) rehash(n uint32) {
	oldEntries, oldHashes := m.entries, m.hashes
	oldCapacity, dropped := m.capacity, m.tombstones

	m.alloc(n)
	for i, h := range oldHashes {
		if isAlive(h) {
			e := oldEntries.Take(i)
			m.insertForHash(h, e.key, e.value)
		}
	}

	m.log.Debug("hashmap: rehashed",
		"old_capacity", oldCapacity,
		"capacity", n,
		"size", m.size,
		"dropped_tombstones", dropped,
	)
}

// insertForHash places an entry known to be absent. Richer entries (those
// closer to their desired slot) give way to poorer ones; the displaced
// entry is carried forward. A tombstone is reused when the carried entry is
// at least as far from home as the erased entry was, which keeps lookups of
// entries further along the chain terminating correctly.
func (m *Map[K, V]) insertForHash(h uint32, key K, value V) {
	pos := m.desiredPos(h)
	var dist uint32
	for {
		cur := m.hashes[pos]
		if cur == 0 {
			break
		}
		existing := m.probeDistance(cur, pos)
		if isDeleted(cur) {
			if existing <= dist {
				m.tombstones--
				break
			}
		} else if existing < dist {
			e := m.entries.At(int(pos))
			key, e.key = e.key, key
			value, e.value = e.value, value
			h, m.hashes[pos] = cur, h
			dist = existing
		}
		pos = (pos + 1) & m.mask
		dist++
	}
	m.entries.Construct(int(pos), entry[K, V]{key: key, value: value})
	m.hashes[pos] = h
}

// findPos probes for key and stops as soon as the slot under examination is
// closer to its own home than the key would be.
func (m *Map[K, V]) findPos(h uint32, key K) (uint32, bool) {
	if m.capacity == 0 {
		return 0, false
	}
	pos := m.desiredPos(h)
	var dist uint32
	for {
		cur := m.hashes[pos]
		if cur == 0 || dist > m.probeDistance(cur, pos) {
			return 0, false
		}
		if cur == h && m.entries.At(int(pos)).key == key {
			return pos, true
		}
		pos = (pos + 1) & m.mask
		dist++
	}
}

// Find returns a pointer to the value stored under key. The pointer is
// invalidated by the next insert that triggers a rehash.
func (m *Map[K, V]) Find(key K) (*V, error) {
	pos, ok := m.findPos(m.hashKey(key), key)
	if !ok {
		return nil, fmt.Errorf("hashmap: find %v: %w", key, memkit.ErrKeyNotFound)
	}
	return &m.entries.At(int(pos)).value, nil
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, error) {
	p, err := m.Find(key)
	if err != nil {
		var zero V
		return zero, err
	}
	return *p, nil
}

// Lookup returns the value stored under key and whether it was present.
func (m *Map[K, V]) Lookup(key K) (V, bool) {
	pos, ok := m.findPos(m.hashKey(key), key)
	if !ok {
		var zero V
		return zero, false
	}
	return m.entries.At(int(pos)).value, true
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.findPos(m.hashKey(key), key)
	return ok
}

// Erase destroys the entry stored under key and leaves a tombstone in its slot.
func (m *Map[K, V]) Erase(key K) error {
	pos, ok := m.findPos(m.hashKey(key), key)
	if !ok {
		return fmt.Errorf("hashmap: erase %v: %w", key, memkit.ErrKeyNotFound)
	}
	m.destroyAt(pos)
	m.hashes[pos] |= tombstoneBit
	m.tombstones++
	m.size--
	return nil
}

// destroyAt runs the destroy hooks of the key and value in slot pos.
func (m *Map[K, V]) destroyAt(pos uint32) {
	e := m.entries.At(int(pos))
	memkit.Destroy(&e.key)
	memkit.Destroy(&e.value)
}

// Clear destroys every entry and forgets all tombstones, keeping the storage.
func (m *Map[K, V]) Clear() {
	for i, h := range m.hashes {
		if isAlive(h) {
			m.destroyAt(uint32(i))
		}
		m.hashes[i] = 0
	}
	m.size = 0
	m.tombstones = 0
}

// Clone returns a copy with the same capacity and no tombstones. Keys are not
// rehashed; stored hashes are reused.
func (m *Map[K, V]) Clone() *Map[K, V] {
	out := &Map[K, V]{
		initialCapacity: m.initialCapacity,
		hasher:          m.hasher,
		log:             m.log,
	}
	if m.capacity == 0 {
		return out
	}
	out.alloc(m.capacity)
	out.size = m.size
	for i, h := range m.hashes {
		if isAlive(h) {
			e := m.entries.At(i)
			out.insertForHash(h, e.key, e.value)
		}
	}
	return out
}

// Swap exchanges the contents of m and o in constant time.
func (m *Map[K, V]) Swap(o *Map[K, V]) {
	*m, *o = *o, *m
}

// Move transfers m's storage to a new map and leaves m empty.
func (m *Map[K, V]) Move() *Map[K, V] {
	out := *m
	*m = Map[K, V]{
		initialCapacity: out.initialCapacity,
		hasher:          out.hasher,
		log:             out.log,
	}
	return &out
}

// All yields every live entry in slot order. Insertion order is not
// preserved, and mutating the map during iteration is not supported.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, h := range m.hashes {
			if !isAlive(h) {
				continue
			}
			e := m.entries.At(i)
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Keys yields every live key in slot order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}
