package slice

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unsafe"

	"golang.org/x/text/encoding"
)

const (
	SizeOfByte    = 1
	SizeOfInt16   = 2
	SizeOfInt32   = 4
	SizeOfInt64   = 8
	SizeOfFloat32 = 4
	SizeOfFloat64 = 8
)

var order = binary.LittleEndian

var sliceInstanceSize = int64(unsafe.Sizeof(Slice{}))

// Slice is a fixed-length, randomly addressable view over a byte region.
//
// Views returned by Slice.Slice, Input.ReadSlice and Wrap do not copy: they
// share the backing array with every other view over it, so a write through
// one view is visible through all of them. The backing array lives as long as
// the longest-lived view. Slice is not safe for concurrent mutation.
type Slice struct {
	data []byte
	// size of the whole allocation this view was carved from
	backing int64
}

var empty = &Slice{}

// Empty returns the canonical zero-length view. It is the same pointer on
// every call.
func Empty() *Slice { return empty }

// Wrap returns a view over b without copying it.
func Wrap(b []byte) *Slice {
	if len(b) == 0 {
		return empty
	}
	return &Slice{data: b, backing: int64(cap(b))}
}

// Allocate returns a zeroed Slice of n bytes.
func Allocate(n int) *Slice {
	if n <= 0 {
		return empty
	}
	return Wrap(make([]byte, n))
}

func (s *Slice) Len() int { return len(s.data) }

// Bytes returns the view's bytes without copying.
func (s *Slice) Bytes() []byte { return s.data }

// RetainedSize reports the memory attributable to this view: its own header
// plus the full shared backing allocation.
func (s *Slice) RetainedSize() int64 {
	return sliceInstanceSize + s.backing
}

func (s *Slice) Byte(off int) (byte, error) {
	if err := checkIndexLength(off, SizeOfByte, len(s.data)); err != nil {
		return 0, err
	}
	return s.data[off], nil
}

func (s *Slice) Int16(off int) (int16, error) {
	if err := checkIndexLength(off, SizeOfInt16, len(s.data)); err != nil {
		return 0, err
	}
	return int16(order.Uint16(s.data[off:])), nil
}

func (s *Slice) Int32(off int) (int32, error) {
	if err := checkIndexLength(off, SizeOfInt32, len(s.data)); err != nil {
		return 0, err
	}
	return int32(order.Uint32(s.data[off:])), nil
}

func (s *Slice) Int64(off int) (int64, error) {
	if err := checkIndexLength(off, SizeOfInt64, len(s.data)); err != nil {
		return 0, err
	}
	return int64(order.Uint64(s.data[off:])), nil
}

func (s *Slice) Float32(off int) (float32, error) {
	v, err := s.Int32(off)
	return math.Float32frombits(uint32(v)), err
}

func (s *Slice) Float64(off int) (float64, error) {
	v, err := s.Int64(off)
	return math.Float64frombits(uint64(v)), err
}

func (s *Slice) SetByte(off int, v byte) error {
	if err := checkIndexLength(off, SizeOfByte, len(s.data)); err != nil {
		return err
	}
	s.data[off] = v
	return nil
}

func (s *Slice) SetInt16(off int, v int16) error {
	if err := checkIndexLength(off, SizeOfInt16, len(s.data)); err != nil {
		return err
	}
	order.PutUint16(s.data[off:], uint16(v))
	return nil
}

func (s *Slice) SetInt32(off int, v int32) error {
	if err := checkIndexLength(off, SizeOfInt32, len(s.data)); err != nil {
		return err
	}
	order.PutUint32(s.data[off:], uint32(v))
	return nil
}

func (s *Slice) SetInt64(off int, v int64) error {
	if err := checkIndexLength(off, SizeOfInt64, len(s.data)); err != nil {
		return err
	}
	order.PutUint64(s.data[off:], uint64(v))
	return nil
}

func (s *Slice) SetFloat32(off int, v float32) error {
	return s.SetInt32(off, int32(math.Float32bits(v)))
}

func (s *Slice) SetFloat64(off int, v float64) error {
	return s.SetInt64(off, int64(math.Float64bits(v)))
}

// SetBytes copies src into the view starting at off.
func (s *Slice) SetBytes(off int, src []byte) error {
	if err := checkIndexLength(off, len(src), len(s.data)); err != nil {
		return err
	}
	copy(s.data[off:], src)
	return nil
}

// GetBytes copies n bytes starting at off into dst[dstOff:].
func (s *Slice) GetBytes(off int, dst []byte, dstOff, n int) error {
	if err := checkIndexLength(off, n, len(s.data)); err != nil {
		return err
	}
	if err := checkIndexLength(dstOff, n, len(dst)); err != nil {
		return err
	}
	copy(dst[dstOff:dstOff+n], s.data[off:off+n])
	return nil
}

// GetBytesToSlice copies n bytes starting at off into dst at dstOff.
func (s *Slice) GetBytesToSlice(off int, dst *Slice, dstOff, n int) error {
	if err := checkIndexLength(off, n, len(s.data)); err != nil {
		return err
	}
	return dst.SetBytes(dstOff, s.data[off:off+n])
}

// CopyTo writes n bytes starting at off to w. Errors from w are returned as is.
func (s *Slice) CopyTo(off int, w io.Writer, n int) error {
	if err := checkIndexLength(off, n, len(s.data)); err != nil {
		return err
	}
	m, err := w.Write(s.data[off : off+n])
	if err != nil {
		return err
	}
	if m != n {
		return io.ErrShortWrite
	}
	return nil
}

// WriteTo writes the whole view to w.
func (s *Slice) WriteTo(w io.Writer) (int64, error) {
	m, err := w.Write(s.data)
	if err == nil && m != len(s.data) {
		err = io.ErrShortWrite
	}
	return int64(m), err
}

// Slice returns a zero-copy view of n bytes starting at off.
func (s *Slice) Slice(off, n int) (*Slice, error) {
	if err := checkIndexLength(off, n, len(s.data)); err != nil {
		return nil, err
	}
	if n == 0 {
		return empty, nil
	}
	return &Slice{data: s.data[off : off+n : off+n], backing: s.backing}, nil
}

// Decode decodes n bytes starting at off as text in the given encoding.
// A nil encoding passes the bytes through unchanged.
func (s *Slice) Decode(off, n int, enc encoding.Encoding) (string, error) {
	if err := checkIndexLength(off, n, len(s.data)); err != nil {
		return "", err
	}
	if enc == nil {
		enc = encoding.Nop
	}
	out, err := enc.NewDecoder().Bytes(s.data[off : off+n])
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(out), nil
}

// Equal reports whether both views hold the same bytes.
func (s *Slice) Equal(o *Slice) bool {
	return string(s.data) == string(o.data)
}

func (s *Slice) String() string {
	return fmt.Sprintf("Slice{length=%d, retained=%d}", len(s.data), s.RetainedSize())
}
