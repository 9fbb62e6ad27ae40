package stele_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/stele"
	"github.com/hupe1980/stele/alloc"
)

func TestAllocationBalance(t *testing.T) {
	tracked := alloc.NewTracked(nil)

	w, r := stele.NewIn[int](tracked)
	for i := 0; i < 100; i++ {
		require.NoError(t, w.Append(i))
	}

	r2 := r.Clone()
	r3 := w.NewReader()

	// Still live: nothing deallocated yet.
	require.Greater(t, tracked.Allocations(), int64(0))
	require.Zero(t, tracked.Deallocations())

	require.NoError(t, w.Close())
	require.NoError(t, r.Close())
	require.NoError(t, r2.Close())

	// One handle left keeps every segment alive.
	require.Zero(t, tracked.Deallocations())
	require.Equal(t, 100, r3.Len())

	require.NoError(t, r3.Close())

	require.True(t, tracked.Balanced())
	require.Equal(t, tracked.Allocations(), tracked.Deallocations())
	require.Zero(t, tracked.LiveBytes())
}

func TestReadersOutliveWriter(t *testing.T) {
	w, r := stele.New[string]()
	require.NoError(t, w.Append("kept"))
	require.NoError(t, w.Close())

	require.Equal(t, "kept", *r.At(0))
	require.NoError(t, r.Close())
}

func TestCloseIdempotent(t *testing.T) {
	tracked := alloc.NewTracked(nil)

	w, r := stele.NewIn[int](tracked)
	require.NoError(t, w.Append(1))

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	require.True(t, tracked.Balanced())
}

func TestUseAfterClosePanics(t *testing.T) {
	w, r := stele.New[int]()
	require.NoError(t, w.Append(1))
	require.NoError(t, w.Close())
	require.NoError(t, r.Close())

	require.Panics(t, func() { _ = w.Append(2) })
	require.Panics(t, func() { _ = r.Len() })
	require.Panics(t, func() { r.Clone() })
}

func TestFailedAppendLeavesSequenceConsistent(t *testing.T) {
	// Budget covers segments 0 and 1 of int (8 + 16 bytes) but not
	// segment 2 (32 bytes).
	limited := alloc.NewLimited(24, nil)

	w, r := stele.NewIn[int](limited)
	defer w.Close()
	defer r.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, w.Append(i))
	}

	err := w.Append(3)
	require.ErrorIs(t, err, alloc.ErrMemoryLimit)

	// Length untouched, published prefix intact, handle still usable.
	require.Equal(t, 3, r.Len())
	for i := 0; i < 3; i++ {
		require.Equal(t, i, *r.At(i))
	}
	_, ok := r.TryRead(3)
	require.False(t, ok)

	err = w.Append(3)
	require.ErrorIs(t, err, alloc.ErrMemoryLimit)
}
