package arena_test

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/pavanmanishd/memkit"
	"github.com/pavanmanishd/memkit/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEdgeCases covers boundary capacities and unusual payload types
func TestEdgeCases(t *testing.T) {
	t.Run("SingleSlot", func(t *testing.T) {
		a, err := arena.New[int](1)
		require.NoError(t, err)

		p, err := a.Allocate()
		require.NoError(t, err)
		_, err = a.Allocate()
		assert.ErrorIs(t, err, memkit.ErrCapacityExceeded)

		require.NoError(t, a.Release(p))
		q, err := a.Allocate()
		require.NoError(t, err)
		assert.Same(t, p, q)
	})

	t.Run("CapacityAboveMaximum", func(t *testing.T) {
		if unsafe.Sizeof(int(0)) < 8 {
			t.Skip("int cannot exceed MaxCapacity on 32-bit platforms")
		}
		n := arena.MaxCapacity + 1
		_, err := arena.New[byte](int(n))
		assert.Error(t, err)
	})

	t.Run("ZeroSizedPayload", func(t *testing.T) {
		a, err := arena.New[struct{}](4)
		require.NoError(t, err)

		var ptrs []*struct{}
		for range 4 {
			p, err := a.Allocate()
			require.NoError(t, err)
			ptrs = append(ptrs, p)
		}
		// The header keeps slots distinct even when T has no size.
		for i, p := range ptrs {
			idx, err := a.IndexOf(p)
			require.NoError(t, err)
			assert.Equal(t, i, idx)
		}
	})

	t.Run("Alignment", func(t *testing.T) {
		type mixed struct {
			a int8
			b int64
		}
		a, err := arena.New[mixed](8)
		require.NoError(t, err)
		for range 8 {
			p, err := a.Allocate()
			require.NoError(t, err)
			assert.Zero(t, uintptr(unsafe.Pointer(&p.b))%unsafe.Alignof(p.b))
		}
	})
}

// TestNoOverlap fills every payload with a pattern and checks none bleeds
// into its neighbours or the slot headers.
func TestNoOverlap(t *testing.T) {
	a, err := arena.New[[61]byte](100)
	require.NoError(t, err)

	ptrs := make([]*[61]byte, 100)
	for i := range ptrs {
		ptrs[i], err = a.Allocate()
		require.NoError(t, err)
		for j := range ptrs[i] {
			ptrs[i][j] = byte(i)
		}
	}
	for i, p := range ptrs {
		for j, b := range p {
			require.Equal(t, byte(i), b, "ptrs[%d][%d]", i, j)
		}
		idx, err := a.IndexOf(p)
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
}

// TestPointerPayloadsSurviveGC stores heap pointers in the arena and checks
// the collector still sees them.
func TestPointerPayloadsSurviveGC(t *testing.T) {
	type node struct {
		name *string
		tags []string
	}
	a, err := arena.New[node](16)
	require.NoError(t, err)

	for i := range 16 {
		p, err := a.Allocate()
		require.NoError(t, err)
		s := string(rune('a' + i))
		p.name = &s
		p.tags = []string{s, s + s}
	}
	runtime.GC()

	for i, p := range a.All() {
		want := string(rune('a' + i))
		assert.Equal(t, want, *p.name)
		assert.Equal(t, []string{want, want + want}, p.tags)
	}
}
