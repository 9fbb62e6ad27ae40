//go:build unix

package alloc

import (
	"sync"

	"golang.org/x/sys/unix"
)

// OffHeap serves segments from anonymous memory mappings outside the Go
// heap, keeping large sequences invisible to the garbage collector.
//
// Element types stored in off-heap segments must not contain Go
// pointers: the collector does not scan mapped memory, so a pointer
// kept only there does not keep its target alive.
type OffHeap struct {
	mu       sync.Mutex
	mappings map[*byte][]byte
}

// NewOffHeap creates an off-heap provider. Mappings still live when the
// provider is garbage collected are never unmapped, so hold on to the
// provider until every sequence using it is closed.
func NewOffHeap() (*OffHeap, error) {
	return &OffHeap{mappings: make(map[*byte][]byte)}, nil
}

func (o *OffHeap) Allocate(size, align int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}

	// Anonymous private mapping, same as an arena chunk. Page alignment
	// satisfies any element alignment; the mapping is already zeroed.
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}

	buf := data[:size]

	o.mu.Lock()
	o.mappings[&buf[0]] = data
	o.mu.Unlock()

	return buf, nil
}

func (o *OffHeap) Deallocate(buf []byte, size, align int) {
	if len(buf) == 0 {
		return
	}

	o.mu.Lock()
	data, ok := o.mappings[&buf[0]]
	delete(o.mappings, &buf[0])
	o.mu.Unlock()

	if ok {
		_ = unix.Munmap(data)
	}
}

// Live returns the number of mappings not yet deallocated.
func (o *OffHeap) Live() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.mappings)
}
