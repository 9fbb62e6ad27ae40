package stele

import (
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/stele/alloc"
)

// segment is one fixed-capacity block of element slots. Its backing
// allocation is obtained once and never moved or resized, so element
// addresses are stable for the lifetime of the core.
type segment[T any] struct {
	slots []T
	raw   []byte // backing allocation; nil for zero-size element types
}

// core is the state shared by every handle over one sequence: the
// write-once segment table, the published length and the handle
// reference count.
//
// Only the Writer mutates table and length. Readers load both with
// atomic (acquire) semantics; the length advance in Append is the
// single synchronization point that makes a new element, and the
// segment that holds it, visible.
type core[T any] struct {
	table  [tableSlots]atomic.Pointer[segment[T]]
	length atomic.Uint64
	refs   atomic.Int64
	alloc  alloc.Allocator
}

// newCore creates a core with two outstanding references, one for the
// Writer and one for the first Reader.
func newCore[T any](a alloc.Allocator) *core[T] {
	c := &core[T]{alloc: a}
	c.refs.Store(2)
	return c
}

// newSegment obtains a zeroed block for capacity elements from the
// provider and views it as element slots. Zero-size element types need
// no backing memory and bypass the provider, mirroring how they occupy
// no address space.
func newSegment[T any](a alloc.Allocator, capacity uint64) (*segment[T], error) {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 {
		return &segment[T]{slots: make([]T, capacity)}, nil
	}

	raw, err := a.Allocate(elemSize*int(capacity), int(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}

	slots := unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), capacity) //nolint:gosec // raw is alive as long as slots is
	return &segment[T]{slots: slots, raw: raw}, nil
}

// resolve returns the address of element i together with the length
// observed for the bounds check, or nil when i is not published. The
// length load happens before the slot load; the publication protocol in
// Append guarantees the slot is non-nil for every i below the observed
// length.
func (c *core[T]) resolve(i int) (*T, uint64) {
	length := c.length.Load()
	if i < 0 || uint64(i) >= length {
		return nil, length
	}

	outer, inner := splitIndex(uint64(i))
	seg := c.table[outer].Load()

	return &seg.slots[inner], length
}

func (c *core[T]) read(i int) (*T, error) {
	p, length := c.resolve(i)
	if p == nil {
		return nil, &ErrOutOfRange{Index: i, Length: int(length)} //nolint:gosec // length <= MaxInt, enforced by Append
	}
	return p, nil
}

func (c *core[T]) at(i int) *T {
	p, length := c.resolve(i)
	if p == nil {
		panic(&ErrOutOfRange{Index: i, Length: int(length)})
	}
	return p
}

func (c *core[T]) len() int {
	return int(c.length.Load()) //nolint:gosec // length <= MaxInt, enforced by Append
}

// retain adds one handle reference.
func (c *core[T]) retain() {
	c.refs.Add(1)
}

// release drops one handle reference. Whichever call observes the zero
// transition returns every published segment to the allocation
// provider; this runs at most once per core.
func (c *core[T]) release() {
	if c.refs.Add(-1) != 0 {
		return
	}

	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))

	// Segments are published contiguously from slot 0; the first empty
	// slot ends the table.
	for outer := 0; outer < tableSlots; outer++ {
		seg := c.table[outer].Load()
		if seg == nil {
			break
		}
		if seg.raw != nil {
			c.alloc.Deallocate(seg.raw, elemSize*int(segmentCapacity(outer)), align)
		}
		c.table[outer].Store(nil)
	}
}
