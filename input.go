package slice

import (
	"fmt"
	"io"
	"unsafe"

	"golang.org/x/text/encoding"
)

// EOF is returned by Next and ReadTo when no bytes remain. It never
// collides with a byte value.
const EOF = -1

var inputInstanceSize = int64(unsafe.Sizeof(Input{}))

// Input reads a Slice sequentially. It holds a shared reference to the Slice
// and a position in [0, Len()].
//
// Single-byte reads check for end of data themselves and fail with
// ErrIndexOutOfRange. Fixed-width and bulk reads hand the bounds check to the
// Slice and surface its ErrOutOfBounds. On any failure the position is left
// where it was.
//
// An Input must not be used from several goroutines without external locking.
type Input struct {
	s   *Slice
	pos int
}

// NewInput returns an Input positioned at the start of s. A nil s reads as empty.
func NewInput(s *Slice) *Input {
	if s == nil {
		s = empty
	}
	return &Input{s: s}
}

// NewInputAt returns an Input over s starting at pos.
func NewInputAt(s *Slice, pos int) (*Input, error) {
	in := NewInput(s)
	if err := in.SetPosition(pos); err != nil {
		return nil, err
	}
	return in, nil
}

func (in *Input) Len() int { return in.s.Len() }

func (in *Input) Position() int { return in.pos }

// SetPosition moves the cursor to p, backward or forward.
func (in *Input) SetPosition(p int) error {
	if err := checkPositionIndex(p, in.s.Len()); err != nil {
		return err
	}
	in.pos = p
	return nil
}

func (in *Input) IsReadable() bool { return in.pos < in.s.Len() }

func (in *Input) Available() int { return in.s.Len() - in.pos }

// Next reads one unsigned byte and advances, or returns EOF without moving
// when the input is exhausted.
func (in *Input) Next() int {
	if in.pos >= in.s.Len() {
		return EOF
	}
	v := in.s.data[in.pos]
	in.pos++
	return int(v)
}

// ReadByte reads one byte. Unlike Next it treats end of data as an error.
func (in *Input) ReadByte() (byte, error) {
	v := in.Next()
	if v == EOF {
		return 0, fmt.Errorf("%w: no byte at position %d", ErrIndexOutOfRange, in.pos)
	}
	return byte(v), nil
}

func (in *Input) ReadInt8() (int8, error) {
	v, err := in.ReadByte()
	return int8(v), err
}

func (in *Input) ReadUint8() (uint8, error) {
	v, err := in.ReadInt8()
	return uint8(v), err
}

func (in *Input) ReadBool() (bool, error) {
	v, err := in.ReadInt8()
	return v != 0, err
}

func (in *Input) ReadInt16() (int16, error) {
	v, err := in.s.Int16(in.pos)
	if err != nil {
		return 0, err
	}
	in.pos += SizeOfInt16
	return v, nil
}

func (in *Input) ReadUint16() (uint16, error) {
	v, err := in.ReadInt16()
	return uint16(v), err
}

func (in *Input) ReadInt32() (int32, error) {
	v, err := in.s.Int32(in.pos)
	if err != nil {
		return 0, err
	}
	in.pos += SizeOfInt32
	return v, nil
}

func (in *Input) ReadUint32() (uint32, error) {
	v, err := in.ReadInt32()
	return uint32(v), err
}

func (in *Input) ReadInt64() (int64, error) {
	v, err := in.s.Int64(in.pos)
	if err != nil {
		return 0, err
	}
	in.pos += SizeOfInt64
	return v, nil
}

func (in *Input) ReadUint64() (uint64, error) {
	v, err := in.ReadInt64()
	return uint64(v), err
}

func (in *Input) ReadFloat32() (float32, error) {
	v, err := in.s.Float32(in.pos)
	if err != nil {
		return 0, err
	}
	in.pos += SizeOfFloat32
	return v, nil
}

func (in *Input) ReadFloat64() (float64, error) {
	v, err := in.s.Float64(in.pos)
	if err != nil {
		return 0, err
	}
	in.pos += SizeOfFloat64
	return v, nil
}

// ReadSlice returns a view aliasing the next n bytes and advances past them.
// ReadSlice(0) always returns Empty().
func (in *Input) ReadSlice(n int) (*Slice, error) {
	if n == 0 {
		return empty, nil
	}
	v, err := in.s.Slice(in.pos, n)
	if err != nil {
		return nil, err
	}
	in.pos += n
	return v, nil
}

// ReadTo copies up to n bytes into dst[dstOff:], clamped to what is
// available. It returns the count copied, or EOF if the input was already
// exhausted. A zero n returns 0.
func (in *Input) ReadTo(dst []byte, dstOff, n int) (int, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 {
		return 0, checkIndexLength(dstOff, n, len(dst))
	}
	n = min(n, in.Available())
	if n == 0 {
		return EOF, nil
	}
	if err := in.ReadBytes(dst, dstOff, n); err != nil {
		return 0, err
	}
	return n, nil
}

// Read implements io.Reader on top of ReadTo.
func (in *Input) Read(p []byte) (int, error) {
	n, err := in.ReadTo(p, 0, len(p))
	if n == EOF {
		return 0, io.EOF
	}
	return n, err
}

// ReadBytes copies exactly n bytes into dst[dstOff:] or fails.
func (in *Input) ReadBytes(dst []byte, dstOff, n int) error {
	if err := in.s.GetBytes(in.pos, dst, dstOff, n); err != nil {
		return err
	}
	in.pos += n
	return nil
}

// ReadBytesToSlice copies exactly n bytes into dst at dstOff or fails.
func (in *Input) ReadBytesToSlice(dst *Slice, dstOff, n int) error {
	if err := in.s.GetBytesToSlice(in.pos, dst, dstOff, n); err != nil {
		return err
	}
	in.pos += n
	return nil
}

// ReadBytesTo writes exactly n bytes to w. Errors from w come back unchanged
// and leave the position untouched.
func (in *Input) ReadBytesTo(w io.Writer, n int) error {
	if err := in.s.CopyTo(in.pos, w, n); err != nil {
		return err
	}
	in.pos += n
	return nil
}

// Skip advances by n clamped to [0, Available()] and returns the distance moved.
func (in *Input) Skip(n int64) int64 {
	n = max(min(n, int64(in.Available())), 0)
	in.pos += int(n)
	return n
}

func (in *Input) SkipBytes(n int) int {
	return int(in.Skip(int64(n)))
}

// RetainedSize is the cursor's own footprint plus the Slice it reads.
func (in *Input) RetainedSize() int64 {
	return inputInstanceSize + in.s.RetainedSize()
}

// Slice returns a view of the unread bytes without moving the position.
func (in *Input) Slice() *Slice {
	v, _ := in.s.Slice(in.pos, in.Available())
	return v
}

// Decode decodes the unread bytes as text without moving the position.
func (in *Input) Decode(enc encoding.Encoding) (string, error) {
	return in.s.Decode(in.pos, in.Available(), enc)
}

func (in *Input) String() string {
	return fmt.Sprintf("Input{position=%d, length=%d}", in.pos, in.s.Len())
}
