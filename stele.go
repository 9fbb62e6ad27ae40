package stele

import (
	"iter"

	"github.com/hupe1980/stele/alloc"
)

// New creates an empty sequence backed by the ambient Go heap and
// returns its exclusive write handle together with a first read handle.
// Both handles must be closed; the last Close releases the sequence.
func New[T any]() (*Writer[T], *Reader[T]) {
	return NewIn[T](alloc.Ambient())
}

// NewIn is New with an explicit allocation provider. Every segment is
// obtained from a and returned to it when the last handle is closed.
func NewIn[T any](a alloc.Allocator) (*Writer[T], *Reader[T]) {
	c := newCore[T](a)
	return &Writer[T]{core: c}, &Reader[T]{core: c}
}

// Collect appends every value produced by seq, in order, to a fresh
// sequence and returns its handles. On append failure both handles are
// closed and the error is returned.
func Collect[T any](seq iter.Seq[T]) (*Writer[T], *Reader[T], error) {
	w, r := New[T]()
	for v := range seq {
		if err := w.Append(v); err != nil {
			_ = w.Close()
			_ = r.Close()
			return nil, nil, err
		}
	}
	return w, r, nil
}
