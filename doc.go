// Package stele provides a concurrent, append-only growable sequence for Go.
//
// A stele supports exactly one writer and any number of simultaneous
// readers without locks and without ever relocating published elements.
// Storage grows in power-of-two segments addressed through a fixed
// segment table, so appending never copies old data and references
// returned by readers stay valid for the lifetime of the sequence.
//
// # Quick Start
//
//	w, r := stele.New[int]()
//	defer w.Close()
//	defer r.Close()
//
//	_ = w.Append(42)
//
//	if v, ok := r.TryRead(0); ok {
//	    fmt.Println(*v) // 42
//	}
//
// # Handles
//
// New returns an exclusive write handle and a shared read handle over the
// same sequence:
//
//   - Writer is the sole append capability. It may move between
//     goroutines, but must never be used from two goroutines at once;
//     concurrent use is detected at runtime and treated as fatal misuse.
//   - Reader is freely duplicable (Clone) and safe for concurrent use
//     from any number of goroutines.
//
// Each handle must be closed. The segments backing the sequence are
// released through the allocation provider when the last handle over it
// is closed.
//
// # Visibility
//
// Append publishes the new element with a single atomic length advance.
// Any length a reader observes corresponds exactly to a fully
// initialized prefix of the writer's append order: readers never see a
// torn or partially written element, and the observed length never
// decreases.
//
// # Allocation
//
// Segments are obtained from an alloc.Allocator. New uses the ambient Go
// heap; NewIn accepts a custom provider (tracked, memory-limited, or
// off-heap — see the alloc package).
//
// # Key Properties
//
//   - Wait-free appends and reads (no locks, no retries, no blocking)
//   - Stable element addresses (segments never move or resize)
//   - O(1) index resolution via bit arithmetic
//   - Pluggable, testable allocation
package stele
