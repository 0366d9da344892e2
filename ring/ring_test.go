package ring

import (
	"testing"

	"github.com/pavanmanishd/memkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect[T any](r *Ring[T]) []T {
	out := make([]T, 0, r.Len())
	for _, v := range r.All() {
		out = append(out, v)
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		wantErr  bool
	}{
		{"zero capacity", 0, true},
		{"negative capacity", -4, true},
		{"positive capacity", 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New[int](tt.capacity)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.capacity, r.Cap())
			assert.Equal(t, 0, r.Len())
		})
	}
}

func TestScenarioCapacityThree(t *testing.T) {
	r, err := New[int](3)
	require.NoError(t, err)

	require.NoError(t, r.PushBack(1))
	require.NoError(t, r.PushBack(2))
	require.NoError(t, r.PushBack(3))
	require.ErrorIs(t, r.PushBack(4), memkit.ErrCapacityExceeded)

	v, err := r.PopFront()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, r.Len())

	require.NoError(t, r.PushBack(4))
	for i, want := range []int{2, 3, 4} {
		got, err := r.At(i)
		require.NoError(t, err)
		assert.Equal(t, want, got, "index %d", i)
	}
}

func TestPushPopOrdering(t *testing.T) {
	for _, capacity := range []int{1, 2, 7, 16} {
		r, err := New[int](capacity)
		require.NoError(t, err)

		for i := range capacity {
			require.NoError(t, r.PushFront(i))
		}
		require.ErrorIs(t, r.PushFront(capacity), memkit.ErrCapacityExceeded)
		require.ErrorIs(t, r.PushBack(capacity), memkit.ErrCapacityExceeded)

		// Pushed at the front, popped at the back: insertion order.
		for want := range capacity {
			got, err := r.PopBack()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}

		// Pushed and popped at the back: reverse insertion order.
		for i := range capacity {
			require.NoError(t, r.PushBack(i))
		}
		for want := capacity - 1; want >= 0; want-- {
			got, err := r.PopBack()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}
}

func TestPopEmpty(t *testing.T) {
	r, err := New[string](2)
	require.NoError(t, err)

	_, err = r.PopBack()
	require.ErrorIs(t, err, memkit.ErrEmptyContainer)
	_, err = r.PopFront()
	require.ErrorIs(t, err, memkit.ErrEmptyContainer)
	require.ErrorIs(t, r.DropFront(), memkit.ErrEmptyContainer)
	_, err = r.Front()
	require.ErrorIs(t, err, memkit.ErrEmptyContainer)
	_, err = r.Back()
	require.ErrorIs(t, err, memkit.ErrEmptyContainer)
}

func TestIndexing(t *testing.T) {
	r, err := New[int](4)
	require.NoError(t, err)
	require.NoError(t, r.PushBack(10))
	require.NoError(t, r.PushFront(5))

	for _, i := range []int{-1, 2, 4} {
		_, err := r.At(i)
		require.ErrorIs(t, err, memkit.ErrInvalidIndex, "index %d", i)
		require.ErrorIs(t, r.Set(i, 0), memkit.ErrInvalidIndex)
	}

	require.NoError(t, r.Set(1, 11))
	p, err := r.Ref(0)
	require.NoError(t, err)
	*p = 6
	assert.Equal(t, []int{6, 11}, collect(r))

	front, err := r.Front()
	require.NoError(t, err)
	back, err := r.Back()
	require.NoError(t, err)
	assert.Equal(t, 6, front)
	assert.Equal(t, 11, back)
}

func TestWrapAround(t *testing.T) {
	r, err := New[int](4)
	require.NoError(t, err)

	// Rolling log: evict before pushing once full.
	for i := range 11 {
		if r.Full() {
			_, err := r.PopFront()
			require.NoError(t, err)
		}
		require.NoError(t, r.PushBack(i))
	}
	assert.Equal(t, []int{7, 8, 9, 10}, collect(r))
	assert.Less(t, r.head, r.Cap())

	require.NoError(t, r.DropFront())
	require.NoError(t, r.PushFront(100))
	assert.Equal(t, []int{100, 8, 9, 10}, collect(r))
}

type handle struct {
	closed *int
}

func (h *handle) Destroy() { *h.closed++ }

func TestDestroySemantics(t *testing.T) {
	var closed int
	r, err := New[handle](4)
	require.NoError(t, err)
	for range 4 {
		require.NoError(t, r.PushBack(handle{closed: &closed}))
	}

	// Popped values are moved out, not destroyed.
	h, err := r.PopFront()
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
	h.Destroy()

	require.NoError(t, r.DropFront())
	assert.Equal(t, 2, closed)

	r.Clear()
	assert.Equal(t, 4, closed)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.head)
}

func TestAllStopsEarly(t *testing.T) {
	r, err := New[int](3)
	require.NoError(t, err)
	for i := range 3 {
		require.NoError(t, r.PushBack(i))
	}
	var seen []int
	for i, v := range r.All() {
		seen = append(seen, v)
		if i == 1 {
			break
		}
	}
	assert.Equal(t, []int{0, 1}, seen)
}
