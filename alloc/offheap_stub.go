//go:build !unix

package alloc

// OffHeap is not available on this platform; NewOffHeap returns
// ErrOffHeapUnsupported.
type OffHeap struct{}

func NewOffHeap() (*OffHeap, error) {
	return nil, ErrOffHeapUnsupported
}

func (*OffHeap) Allocate(size, align int) ([]byte, error) {
	return nil, ErrOffHeapUnsupported
}

func (*OffHeap) Deallocate(buf []byte, size, align int) {}
