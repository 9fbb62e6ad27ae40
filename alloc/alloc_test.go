package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestAmbientAlignment(t *testing.T) {
	a := Ambient()

	for _, align := range []int{1, 2, 4, 8, 16, 32, 64} {
		buf, err := a.Allocate(128, align)
		require.NoError(t, err)
		require.Len(t, buf, 128)

		addr := uintptr(unsafe.Pointer(&buf[0]))
		require.Zero(t, addr%uintptr(align), "align %d", align)

		a.Deallocate(buf, 128, align)
	}
}

func TestAmbientZeroed(t *testing.T) {
	buf, err := Ambient().Allocate(64, 8)
	require.NoError(t, err)
	for _, b := range buf {
		require.Zero(t, b)
	}
}

func TestAmbientZeroSize(t *testing.T) {
	buf, err := Ambient().Allocate(0, 8)
	require.NoError(t, err)
	require.Nil(t, buf)
}

func TestTracked(t *testing.T) {
	tr := NewTracked(nil)

	buf1, err := tr.Allocate(16, 8)
	require.NoError(t, err)
	buf2, err := tr.Allocate(32, 8)
	require.NoError(t, err)

	require.Equal(t, int64(2), tr.Allocations())
	require.Equal(t, int64(48), tr.LiveBytes())
	require.False(t, tr.Balanced())

	tr.Deallocate(buf1, 16, 8)
	tr.Deallocate(buf2, 32, 8)

	require.True(t, tr.Balanced())
	require.Zero(t, tr.LiveBytes())
}
