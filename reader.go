package stele

import "sync/atomic"

// Reader is a shared read capability over one sequence. Readers are
// freely duplicable via Clone and safe for concurrent use from any
// number of goroutines.
//
// Addresses returned by Read, At and TryRead stay valid — and their
// values unchanged — for as long as any handle over the sequence is
// live, even as further elements are appended: segments never move.
type Reader[T any] struct {
	core   *core[T]
	closed atomic.Bool
}

// Read returns the address of element i, or an *ErrOutOfRange error
// when i has not been published.
func (r *Reader[T]) Read(i int) (*T, error) {
	r.checkOpen()
	return r.core.read(i)
}

// At returns the address of element i and panics with *ErrOutOfRange
// when i has not been published. Callers are expected to have validated
// bounds beforehand; use TryRead to probe.
func (r *Reader[T]) At(i int) *T {
	r.checkOpen()
	return r.core.at(i)
}

// TryRead returns the address of element i, or ok=false when i is at or
// beyond the length observed at the moment of the call. It never fails
// otherwise: a present result is always the value appended at i.
func (r *Reader[T]) TryRead(i int) (*T, bool) {
	r.checkOpen()
	p, _ := r.core.resolve(i)
	return p, p != nil
}

// Get returns a copy of element i and panics with *ErrOutOfRange when i
// has not been published.
func (r *Reader[T]) Get(i int) T {
	r.checkOpen()
	return *r.core.at(i)
}

// Len returns the number of published elements observed at the moment
// of the call. Successive calls never report a smaller value.
func (r *Reader[T]) Len() int {
	r.checkOpen()
	return r.core.len()
}

// IsEmpty reports whether no element has been published yet.
func (r *Reader[T]) IsEmpty() bool {
	return r.Len() == 0
}

// Clone mints another read handle over the same sequence.
func (r *Reader[T]) Clone() *Reader[T] {
	r.checkOpen()
	r.core.retain()
	return &Reader[T]{core: r.core}
}

// Close releases the read handle. The segments backing the sequence are
// returned to the allocation provider when the last handle over it is
// closed. Close is idempotent.
func (r *Reader[T]) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	r.core.release()
	return nil
}

func (r *Reader[T]) checkOpen() {
	if r.closed.Load() {
		panic("stele: use of closed Reader")
	}
}
