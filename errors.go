package slice

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is reported by the cursor itself: a seek outside
	// [0, Len()] or a single-byte read with nothing left.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrOutOfBounds is reported by Slice when an access would cross its length.
	ErrOutOfBounds = errors.New("out of bounds")
)

func checkIndexLength(off, n, length int) error {
	if off < 0 || n < 0 || off > length || n > length-off {
		return fmt.Errorf("%w: offset %d, length %d, capacity %d", ErrOutOfBounds, off, n, length)
	}
	return nil
}

func checkPositionIndex(p, length int) error {
	if p < 0 || p > length {
		return fmt.Errorf("%w: position %d, length %d", ErrIndexOutOfRange, p, length)
	}
	return nil
}
