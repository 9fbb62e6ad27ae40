package stele

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is returned by Append when the next index is no
	// longer representable. The sequence is unchanged and remains usable.
	ErrCapacityExceeded = errors.New("stele: capacity exceeded")
)

// ErrOutOfRange indicates an access beyond the published length. It is
// returned by Read and used as the panic value of the panicking
// accessors (At, Get).
type ErrOutOfRange struct {
	Index  int
	Length int
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("stele: index %d out of range (length %d)", e.Index, e.Length)
}
