package stele

import "iter"

// All returns a live iterator over index/element pairs in append order.
// The iterator stops at the length observed as it advances, so elements
// appended while iterating may still be yielded. It is a convenience
// over TryRead, not an additional capability.
func (r *Reader[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; ; i++ {
			p, ok := r.TryRead(i)
			if !ok {
				return
			}
			if !yield(i, *p) {
				return
			}
		}
	}
}

// Values returns a live iterator over elements in append order.
func (r *Reader[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; ; i++ {
			p, ok := r.TryRead(i)
			if !ok || !yield(*p) {
				return
			}
		}
	}
}
