package stele

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Writer is the exclusive append capability over one sequence.
//
// A Writer must not be aliased: ownership may be handed from one
// goroutine to another, but two goroutines must never append through
// the same Writer at once. Go cannot express this statically, so Append
// carries a runtime guard that detects concurrent use and panics.
//
// The read accessors mirror the Reader's; the Writer reads its own
// writes without extra ordering concerns since it is the sole mutator.
type Writer[T any] struct {
	core   *core[T]
	busy   atomic.Bool
	closed atomic.Bool
}

// Append publishes v at the next free index.
//
// When v opens a new segment, the segment is obtained from the
// allocation provider and stored into its table slot before the length
// advance, so no reader can pass a bounds check for an index whose
// segment is not yet usable. On allocation failure the error is
// propagated unchanged (wrapped for context) and the sequence is left
// exactly as it was: the length has not advanced.
//
// Append never blocks. It returns ErrCapacityExceeded when the next
// index would not be representable.
func (w *Writer[T]) Append(v T) error {
	if !w.busy.CompareAndSwap(false, true) {
		panic("stele: concurrent Append on the same Writer")
	}
	defer w.busy.Store(false)
	w.checkOpen()

	idx := w.core.length.Load()
	if idx >= math.MaxInt {
		return ErrCapacityExceeded
	}

	outer, inner := splitIndex(idx)

	seg := w.core.table[outer].Load()
	if inner == 0 {
		// First index of segment outer: allocate and publish the slot.
		// A slot left nil by an earlier failed Append is retried here.
		s, err := newSegment[T](w.core.alloc, segmentCapacity(outer))
		if err != nil {
			return fmt.Errorf("stele: allocate segment %d: %w", outer, err)
		}
		w.core.table[outer].Store(s)
		seg = s
	}

	seg.slots[inner] = v

	// Single publication point: the element (and, when applicable, the
	// new segment) becomes visible to readers that observe idx+1.
	w.core.length.Store(idx + 1)

	return nil
}

// Len returns the number of published elements.
func (w *Writer[T]) Len() int {
	w.checkOpen()
	return w.core.len()
}

// IsEmpty reports whether no element has been published yet.
func (w *Writer[T]) IsEmpty() bool {
	return w.Len() == 0
}

// Read returns the address of element i, or an *ErrOutOfRange error
// when i has not been published.
func (w *Writer[T]) Read(i int) (*T, error) {
	w.checkOpen()
	return w.core.read(i)
}

// At returns the address of element i and panics with *ErrOutOfRange
// when i has not been published. Callers are expected to have validated
// bounds beforehand.
func (w *Writer[T]) At(i int) *T {
	w.checkOpen()
	return w.core.at(i)
}

// TryRead returns the address of element i, or ok=false when i has not
// been published. It never fails otherwise.
func (w *Writer[T]) TryRead(i int) (*T, bool) {
	w.checkOpen()
	p, _ := w.core.resolve(i)
	return p, p != nil
}

// Get returns a copy of element i and panics with *ErrOutOfRange when i
// has not been published.
func (w *Writer[T]) Get(i int) T {
	w.checkOpen()
	return *w.core.at(i)
}

// NewReader mints an additional read handle over the same sequence. The
// new Reader immediately observes the Writer's current length.
func (w *Writer[T]) NewReader() *Reader[T] {
	w.checkOpen()
	w.core.retain()
	return &Reader[T]{core: w.core}
}

// Close releases the write handle. The sequence stays readable through
// live Readers; its segments are returned to the allocation provider
// when the last handle is closed. Close is idempotent.
func (w *Writer[T]) Close() error {
	if w.closed.Swap(true) {
		return nil
	}
	w.core.release()
	return nil
}

func (w *Writer[T]) checkOpen() {
	if w.closed.Load() {
		panic("stele: use of closed Writer")
	}
}
