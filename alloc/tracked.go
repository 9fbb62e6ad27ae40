package alloc

import "sync/atomic"

// Tracked wraps another provider and counts the traffic through it.
// Use it to verify that a sequence returns every block it obtained:
// after all handles are closed, Allocations and Deallocations must be
// equal and LiveBytes zero. Safe for concurrent use.
type Tracked struct {
	inner     Allocator
	allocs    atomic.Int64
	deallocs  atomic.Int64
	liveBytes atomic.Int64
}

// NewTracked wraps inner with allocation accounting. A nil inner
// defaults to Ambient.
func NewTracked(inner Allocator) *Tracked {
	if inner == nil {
		inner = Ambient()
	}
	return &Tracked{inner: inner}
}

func (t *Tracked) Allocate(size, align int) ([]byte, error) {
	buf, err := t.inner.Allocate(size, align)
	if err != nil {
		return nil, err
	}
	t.allocs.Add(1)
	t.liveBytes.Add(int64(size))
	return buf, nil
}

func (t *Tracked) Deallocate(buf []byte, size, align int) {
	t.inner.Deallocate(buf, size, align)
	t.deallocs.Add(1)
	t.liveBytes.Add(-int64(size))
}

// Allocations returns the number of successful Allocate calls.
func (t *Tracked) Allocations() int64 {
	return t.allocs.Load()
}

// Deallocations returns the number of Deallocate calls.
func (t *Tracked) Deallocations() int64 {
	return t.deallocs.Load()
}

// LiveBytes returns the bytes currently allocated and not yet returned.
func (t *Tracked) LiveBytes() int64 {
	return t.liveBytes.Load()
}

// Balanced reports whether every allocation has been returned.
func (t *Tracked) Balanced() bool {
	return t.allocs.Load() == t.deallocs.Load()
}
