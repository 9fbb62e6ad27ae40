package stele

import "math/bits"

// tableSlots is the number of segment-table slots: one per bit of the
// host address width. Segment o holds 2^o element slots, so the table
// covers every representable index.
const tableSlots = bits.UintSize

// splitIndex decomposes a logical index into segment-table coordinates.
// With n = i+1, the segment index is the position of the most
// significant set bit of n and the offset is what remains after
// clearing that bit. Segment o therefore spans the contiguous index
// range [2^o - 1, 2^(o+1) - 2]: capacity doubles per segment without
// ever moving earlier segments.
func splitIndex(i uint64) (outer int, inner uint64) {
	n := i + 1
	outer = bits.Len64(n) - 1
	inner = n - 1<<uint(outer)
	return outer, inner
}

// segmentCapacity returns the number of element slots in segment outer.
func segmentCapacity(outer int) uint64 {
	return 1 << uint(outer)
}

// joinIndex is the inverse of splitIndex.
func joinIndex(outer int, inner uint64) uint64 {
	return segmentCapacity(outer) + inner - 1
}
