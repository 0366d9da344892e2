package hashmap

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Hasher maps a key to a 64-bit hash. The map folds it into 31 bits, so
// hashers only need good mixing, not a particular range.
type Hasher[K any] func(K) uint64

// String hashes string-like keys with xxHash64.
func String[K ~string]() Hasher[K] {
	return func(k K) uint64 {
		return xxhash.Sum64String(string(k))
	}
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer hashes integer keys with the splitmix64 finalizer.
func Integer[K integer]() Hasher[K] {
	return func(k K) uint64 {
		x := uint64(k)
		x ^= x >> 30
		x *= 0xbf58476d1ce4e5b9
		x ^= x >> 27
		x *= 0x94d049bb133111eb
		x ^= x >> 31
		return x
	}
}

// Comparable hashes any comparable key with a per-hasher random seed.
func Comparable[K comparable]() Hasher[K] {
	seed := maphash.MakeSeed()
	return func(k K) uint64 {
		return maphash.Comparable(seed, k)
	}
}
