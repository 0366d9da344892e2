package vector

import (
	"testing"

	"github.com/pavanmanishd/memkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFixed(t *testing.T) {
	_, err := NewFixed[int](0)
	require.Error(t, err)

	f, err := NewFixed[int](3)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Cap())
	assert.Equal(t, 0, f.Len())
}

func TestFixedBounds(t *testing.T) {
	f, err := NewFixed[int](3)
	require.NoError(t, err)

	for i := range 3 {
		require.NoError(t, f.PushBack(i))
	}
	require.ErrorIs(t, f.PushBack(3), memkit.ErrCapacityExceeded)
	require.ErrorIs(t, f.Resize(4, 0), memkit.ErrCapacityExceeded)
	assert.Equal(t, []int{0, 1, 2}, f.Data())

	v, err := f.PopBack()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = f.At(2)
	require.ErrorIs(t, err, memkit.ErrInvalidIndex)
	require.NoError(t, f.Set(1, 11))
	got, err := f.At(1)
	require.NoError(t, err)
	assert.Equal(t, 11, got)

	f.Clear()
	_, err = f.PopBack()
	require.ErrorIs(t, err, memkit.ErrEmptyContainer)
}

func TestFixedResizeDestroys(t *testing.T) {
	var freed int
	f, err := NewFixed[owned](4)
	require.NoError(t, err)

	require.NoError(t, f.Resize(4, owned{id: 1, freed: &freed}))
	require.NoError(t, f.Resize(1, owned{}))
	assert.Equal(t, 3, freed)

	count := 0
	for range f.All() {
		count++
	}
	assert.Equal(t, 1, count)
}
