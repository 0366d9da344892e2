package memkit

import "errors"

var (
	// ErrCapacityExceeded is returned when a fixed-capacity container is full.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrEmptyContainer is returned when popping from an empty container.
	ErrEmptyContainer = errors.New("empty container")
	// ErrInvalidIndex is returned for an index outside [0, size).
	ErrInvalidIndex = errors.New("invalid index")
	// ErrInvalidHandle is returned for a handle that does not name a live
	// slot of the container it was passed to.
	ErrInvalidHandle = errors.New("invalid handle")
	// ErrKeyNotFound is returned by hash map lookups and erases that miss.
	ErrKeyNotFound = errors.New("key not found")
)
