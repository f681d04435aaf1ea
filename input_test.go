package slice

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func checkInvariant(t *testing.T, in *Input) {
	t.Helper()
	require.Equal(t, in.Len(), in.Position()+in.Available())
	require.GreaterOrEqual(t, in.Position(), 0)
	require.LessOrEqual(t, in.Position(), in.Len())
}

func TestInputNext(t *testing.T) {
	data := []byte{0x00, 0x7f, 0x80, 0xff}
	in := NewInput(Wrap(data))
	for i, want := range data {
		require.True(t, in.IsReadable())
		require.Equal(t, int(want), in.Next(), "byte %d", i)
		checkInvariant(t, in)
	}
	require.False(t, in.IsReadable())
	require.Equal(t, EOF, in.Next())
	require.Equal(t, EOF, in.Next())
	require.Equal(t, 4, in.Position())
}

func TestInputReadInt8(t *testing.T) {
	in := NewInput(Wrap([]byte{0xff, 0x01}))
	v, err := in.ReadInt8()
	require.NoError(t, err)
	require.Equal(t, int8(-1), v)

	u, err := in.ReadUint8()
	require.NoError(t, err)
	require.Equal(t, uint8(1), u)

	_, err = in.ReadInt8()
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = in.ReadUint8()
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = in.ReadByte()
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	require.Equal(t, 2, in.Position())
}

func TestInputReadBool(t *testing.T) {
	in := NewInput(Wrap([]byte{0, 1, 2}))
	for _, want := range []bool{false, true, true} {
		v, err := in.ReadBool()
		require.NoError(t, err)
		require.Equal(t, want, v)
	}
	_, err := in.ReadBool()
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestInputReadInt32ThenEOF(t *testing.T) {
	in := NewInput(Wrap([]byte{0x01, 0x02, 0x03, 0x04}))
	v, err := in.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(0x04030201), v)
	require.Equal(t, 4, in.Position())
	require.Equal(t, EOF, in.Next())
}

func TestInputFixedWidth(t *testing.T) {
	s := Allocate(34)
	require.NoError(t, s.SetInt16(0, -2))
	require.NoError(t, s.SetInt16(2, -2))
	require.NoError(t, s.SetInt32(4, -3))
	require.NoError(t, s.SetInt64(8, -4))
	require.NoError(t, s.SetFloat32(16, 1.5))
	require.NoError(t, s.SetFloat64(20, 2.5))
	require.NoError(t, s.SetInt32(28, -1))
	require.NoError(t, s.SetByte(32, 1))

	in := NewInput(s)
	i16, err := in.ReadInt16()
	require.NoError(t, err)
	require.Equal(t, int16(-2), i16)
	u16, err := in.ReadUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0xfffe), u16)
	require.Equal(t, 4, in.Position())

	i32, err := in.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(-3), i32)
	i64, err := in.ReadInt64()
	require.NoError(t, err)
	require.Equal(t, int64(-4), i64)
	f32, err := in.ReadFloat32()
	require.NoError(t, err)
	require.Equal(t, float32(1.5), f32)
	f64, err := in.ReadFloat64()
	require.NoError(t, err)
	require.Equal(t, 2.5, f64)
	u32, err := in.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xffffffff), u32)
	require.Equal(t, 32, in.Position())
	checkInvariant(t, in)
}

// Multi-byte reads rely on the Slice bounds check; the single-byte path
// reports its own error. Both must fail without moving the position.
func TestInputUnderrun(t *testing.T) {
	in := NewInput(Wrap([]byte{1, 2, 3}))
	in.SkipBytes(1)

	_, err := in.ReadInt16()
	require.NoError(t, err)
	require.Equal(t, 3, in.Position())
	require.NoError(t, in.SetPosition(1))

	reads := map[string]func() error{
		"int32":   func() error { _, err := in.ReadInt32(); return err },
		"uint32":  func() error { _, err := in.ReadUint32(); return err },
		"int64":   func() error { _, err := in.ReadInt64(); return err },
		"uint64":  func() error { _, err := in.ReadUint64(); return err },
		"float32": func() error { _, err := in.ReadFloat32(); return err },
		"float64": func() error { _, err := in.ReadFloat64(); return err },
		"slice":   func() error { _, err := in.ReadSlice(3); return err },
		"bytes":   func() error { return in.ReadBytes(make([]byte, 8), 0, 3) },
		"view":    func() error { return in.ReadBytesToSlice(Allocate(8), 0, 3) },
		"writer":  func() error { return in.ReadBytesTo(io.Discard, 3) },
	}
	for name, read := range reads {
		err := read()
		require.ErrorIs(t, err, ErrOutOfBounds, name)
		require.False(t, errors.Is(err, ErrIndexOutOfRange), name)
		require.Equal(t, 1, in.Position(), name)
	}

	require.NoError(t, in.SetPosition(3))
	_, err = in.ReadInt16()
	require.ErrorIs(t, err, ErrOutOfBounds)
	_, err = in.ReadInt8()
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	require.Equal(t, 3, in.Position())
}

func TestInputSetPosition(t *testing.T) {
	in := NewInput(Wrap([]byte{1, 2, 3, 4}))
	require.NoError(t, in.SetPosition(4))
	require.Equal(t, 4, in.Position())
	require.NoError(t, in.SetPosition(1))
	require.Equal(t, 2, in.Next())

	require.ErrorIs(t, in.SetPosition(5), ErrIndexOutOfRange)
	require.ErrorIs(t, in.SetPosition(-1), ErrIndexOutOfRange)
	require.Equal(t, 2, in.Position())

	_, err := NewInputAt(Wrap([]byte{1}), 2)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	at, err := NewInputAt(Wrap([]byte{1, 2}), 1)
	require.NoError(t, err)
	require.Equal(t, 1, at.Available())
}

func TestInputNil(t *testing.T) {
	in := NewInput(nil)
	require.Equal(t, 0, in.Len())
	require.Equal(t, EOF, in.Next())
}

func TestInputReadSlice(t *testing.T) {
	raw := []byte{1, 2, 3, 4, 5, 6}
	in := NewInput(Wrap(raw))
	require.Same(t, Empty(), mustReadSlice(t, in, 0))
	require.Same(t, Empty(), mustReadSlice(t, NewInput(Wrap([]byte{9})), 0))
	require.Equal(t, 0, in.Position())

	in.SkipBytes(2)
	v := mustReadSlice(t, in, 3)
	require.Equal(t, []byte{3, 4, 5}, v.Bytes())
	require.Equal(t, 5, in.Position())

	require.NoError(t, v.SetByte(1, 40))
	require.Equal(t, byte(40), raw[3])
	require.NoError(t, in.SetPosition(3))
	require.Equal(t, 40, in.Next())
}

func mustReadSlice(t *testing.T, in *Input, n int) *Slice {
	t.Helper()
	v, err := in.ReadSlice(n)
	require.NoError(t, err)
	return v
}

func TestInputReadTo(t *testing.T) {
	in := NewInput(Wrap([]byte("abcde")))
	dst := make([]byte, 8)

	n, err := in.ReadTo(dst, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	n, err = in.ReadTo(dst, 1, 3)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "abc", string(dst[1:4]))

	n, err = in.ReadTo(dst, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "de", string(dst[:2]))

	n, err = in.ReadTo(dst, 0, 10)
	require.NoError(t, err)
	require.Equal(t, EOF, n)

	n, err = in.ReadTo(dst, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	in = NewInput(Wrap([]byte("abcde")))
	_, err = in.ReadTo(dst, 6, 4)
	require.ErrorIs(t, err, ErrOutOfBounds)
	require.Equal(t, 0, in.Position())
}

func TestInputIOReader(t *testing.T) {
	in := NewInput(Wrap([]byte("streamed through io")))
	out, err := io.ReadAll(in)
	require.NoError(t, err)
	require.Equal(t, "streamed through io", string(out))

	n, err := in.Read(make([]byte, 4))
	require.Equal(t, 0, n)
	require.ErrorIs(t, err, io.EOF)
}

func TestInputReadBytes(t *testing.T) {
	in := NewInput(Wrap([]byte("0123456789")))
	dst := make([]byte, 4)
	require.NoError(t, in.ReadBytes(dst, 1, 3))
	require.Equal(t, []byte{0, '0', '1', '2'}, dst)

	view := Allocate(3)
	require.NoError(t, in.ReadBytesToSlice(view, 0, 3))
	require.Equal(t, "345", string(view.Bytes()))

	var buf bytes.Buffer
	require.NoError(t, in.ReadBytesTo(&buf, 4))
	require.Equal(t, "6789", buf.String())
	require.Equal(t, 0, in.Available())
}

var errSink = errors.New("sink closed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errSink }

func TestInputReadBytesToSinkError(t *testing.T) {
	in := NewInput(Wrap([]byte("payload")))
	err := in.ReadBytesTo(failingWriter{}, 3)
	require.Same(t, errSink, err)
	require.Equal(t, 0, in.Position())
}

func TestInputSkip(t *testing.T) {
	in := NewInput(Wrap(make([]byte, 10)))
	require.Equal(t, int64(4), in.Skip(4))
	require.Equal(t, 3, in.SkipBytes(3))
	require.Equal(t, int64(3), in.Skip(100))
	require.Equal(t, in.Len(), in.Position())
	require.Equal(t, 0, in.SkipBytes(1))
	require.Equal(t, int64(0), in.Skip(-5))
	require.Equal(t, 10, in.Position())

	in = NewInput(Wrap(make([]byte, 10)))
	in.SkipBytes(5)
	require.Equal(t, 0, in.SkipBytes(-3))
	require.Equal(t, 5, in.Position())
}

func TestInputRetainedSize(t *testing.T) {
	s := Allocate(128)
	in := NewInput(s)
	first := in.RetainedSize()
	require.GreaterOrEqual(t, first, s.RetainedSize())
	require.Equal(t, first, in.RetainedSize())
	in.SkipBytes(50)
	require.Equal(t, first, in.RetainedSize())
	require.Equal(t, 50, in.Position())
}

func TestInputRemainder(t *testing.T) {
	in := NewInput(Wrap([]byte{'x', 'c', 'a', 'f', 0xe9}))
	in.SkipBytes(1)

	rest := in.Slice()
	require.Equal(t, []byte{'c', 'a', 'f', 0xe9}, rest.Bytes())
	require.Equal(t, 1, in.Position())

	txt, err := in.Decode(charmap.ISO8859_1)
	require.NoError(t, err)
	require.Equal(t, "café", txt)
	require.Equal(t, 1, in.Position())

	in.SkipBytes(10)
	require.Same(t, Empty(), in.Slice())
	txt, err = in.Decode(nil)
	require.NoError(t, err)
	require.Empty(t, txt)
}

func TestInputString(t *testing.T) {
	in := NewInput(Wrap([]byte{1, 2, 3}))
	in.Next()
	assert.Equal(t, "Input{position=1, length=3}", in.String())
}

func TestInputInvariantQuick(t *testing.T) {
	condition := func(data []byte, ops []uint8) bool {
		in := NewInput(Wrap(data))
		dst := make([]byte, 16)
		for _, op := range ops {
			switch op % 8 {
			case 0:
				in.Next()
			case 1:
				in.ReadInt8()
			case 2:
				in.ReadInt32()
			case 3:
				in.ReadInt64()
			case 4:
				in.Skip(int64(op % 5))
			case 5:
				in.ReadTo(dst, 0, int(op%16))
			case 6:
				in.ReadSlice(int(op % 4))
			case 7:
				in.SetPosition(int(op) % (in.Len() + 1))
			}
			if in.Position()+in.Available() != in.Len() || in.Position() < 0 || in.Available() < 0 {
				return false
			}
		}
		return true
	}
	require.NoError(t, quick.Check(condition, &quick.Config{MaxCount: 300}))
}

func FuzzInputDrain(f *testing.F) {
	f.Add([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9})
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, data []byte) {
		in := NewInput(Wrap(data))
		var out []byte
		for {
			v := in.Next()
			if v == EOF {
				break
			}
			out = append(out, byte(v))
		}
		require.Equal(t, len(data), len(out))
		require.True(t, bytes.Equal(data, out))
		_, err := in.ReadByte()
		require.ErrorIs(t, err, ErrIndexOutOfRange)
	})
}
