// Package alloc provides the allocation providers that back a
// sequence's segments.
//
// The default provider, Ambient, allocates from the Go heap and leaves
// reclamation to the garbage collector. Tracked wraps any provider with
// allocation accounting (useful to verify that a sequence releases
// everything it obtained), Limited enforces a hard memory budget, and
// OffHeap (unix only) serves segments from anonymous memory mappings
// outside the Go heap.
package alloc

import (
	"errors"
	"unsafe"
)

var (
	// ErrMemoryLimit is returned by Limited when an allocation would
	// exceed the configured budget.
	ErrMemoryLimit = errors.New("alloc: memory limit exceeded")

	// ErrOffHeapUnsupported is returned by NewOffHeap on platforms
	// without anonymous memory mappings.
	ErrOffHeapUnsupported = errors.New("alloc: off-heap provider is not supported on this platform")
)

// Allocator supplies raw memory blocks for segment storage and reclaims
// them when the last handle over a sequence is closed.
//
// Allocate returns a zeroed block of size bytes whose first byte is
// aligned to align (a power of two). Deallocate is called at most once
// per successful Allocate, with the same size and alignment.
//
// Allocate is only ever called by the goroutine currently holding the
// write handle; Deallocate by whichever goroutine closes the last
// handle. Implementations shared across sequences must tolerate calls
// from different goroutines at different times, but never concurrent
// calls for the same sequence.
type Allocator interface {
	Allocate(size, align int) ([]byte, error)
	Deallocate(buf []byte, size, align int)
}

// Ambient returns the default provider backed by the Go heap.
// Deallocate is a no-op: blocks are reclaimed by the garbage collector
// once unreferenced.
func Ambient() Allocator {
	return ambient{}
}

type ambient struct{}

func (ambient) Allocate(size, align int) ([]byte, error) {
	return allocAligned(size, align), nil
}

func (ambient) Deallocate([]byte, int, int) {}

// allocAligned over-allocates and slices to the first aligned offset so
// the returned block starts at an address divisible by align. The
// underlying array stays alive through the returned slice.
func allocAligned(size, align int) []byte {
	if size == 0 {
		return nil
	}

	buf := make([]byte, size+align)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // required to compute the aligned offset
	off := int((uintptr(align) - addr&uintptr(align-1)) & uintptr(align-1))

	return buf[off : off+size]
}
