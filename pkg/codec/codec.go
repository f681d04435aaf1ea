package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/rawbytedev/slice"
	"github.com/rawbytedev/slice/internal/common"
)

var (
	ErrNotStruct    = errors.New("expected struct")
	ErrNotStructPtr = errors.New("expected pointer to struct")
	ErrUnsupported  = errors.New("unsupported type")
	ErrFieldCount   = errors.New("field count exceeds struct")
	ErrBadOffset    = errors.New("bad variable field offset")
)

type Options struct {
	// UnsafeStrings decodes strings without copying; the decoded strings
	// alias the input, which must outlive them and stay unmodified.
	UnsafeStrings bool
}

// Codec encodes exported struct fields as:
//
//	Header:     varint N
//	VarOffsets: varint body offset per variable field
//	Body:       fields in declaration order
//
// Fixed fields are little-endian. Strings and []byte are a varint length and
// the bytes, lists a varint count and the elements.
type Codec struct {
	Opts    Options
	mu      sync.RWMutex
	plan    map[reflect.Type]*fieldPlan
	buf     []byte
	body    []byte
	offsets []int
}

type fieldPlan struct {
	fields   []fieldInfo
	varCount int
}

type fieldInfo struct {
	idx   int
	kind  reflect.Kind
	isVar bool
}

func New(opts Options) *Codec {
	return &Codec{
		Opts: opts,
		plan: make(map[reflect.Type]*fieldPlan),
	}
}

func (c *Codec) getPlan(t reflect.Type) *fieldPlan {
	c.mu.RLock()
	if pl, ok := c.plan[t]; ok {
		c.mu.RUnlock()
		return pl
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.plan == nil {
		c.plan = make(map[reflect.Type]*fieldPlan)
	}
	// Double-check
	if pl, ok := c.plan[t]; ok {
		return pl
	}

	pl := &fieldPlan{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" && !sf.Anonymous {
			continue // skip unexported
		}
		k := sf.Type.Kind()
		fi := fieldInfo{idx: i, kind: k, isVar: !common.IsFixedKind(k)}
		if fi.isVar {
			pl.varCount++
		}
		pl.fields = append(pl.fields, fi)
	}
	c.plan[t] = pl
	return pl
}

// Encode serializes val, a struct or pointer to struct. The returned bytes
// are reused by the next call to Encode.
func (c *Codec) Encode(val any) ([]byte, error) {
	v := reflect.ValueOf(val)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, ErrNotStruct
	}
	pl := c.getPlan(v.Type())

	c.buf = c.buf[:0]
	c.body = c.body[:0]
	c.offsets = c.offsets[:0]
	c.buf = common.AppendVarUint(c.buf, uint64(len(pl.fields)))

	for _, field := range pl.fields {
		fv := v.Field(field.idx)
		if !field.isVar {
			c.body = common.AppendFixed(c.body, fv)
			continue
		}
		c.offsets = append(c.offsets, len(c.body))
		if err := c.encodeVar(fv); err != nil {
			return nil, err
		}
	}

	for _, off := range c.offsets {
		c.buf = common.AppendVarUint(c.buf, uint64(off))
	}
	c.buf = append(c.buf, c.body...)
	return c.buf, nil
}

func (c *Codec) encodeVar(fv reflect.Value) error {
	switch fv.Kind() {
	case reflect.String:
		c.appendBytes(fv.String())
	case reflect.Slice:
		elem := fv.Type().Elem()
		if elem.Kind() == reflect.Uint8 {
			c.appendBytes(string(fv.Bytes()))
			return nil
		}
		l := fv.Len()
		c.body = common.AppendVarUint(c.body, uint64(l))
		for i := 0; i < l; i++ {
			ev := fv.Index(i)
			switch {
			case common.IsFixedKind(elem.Kind()):
				c.body = common.AppendFixed(c.body, ev)
			case elem.Kind() == reflect.String:
				c.appendBytes(ev.String())
			case elem.Kind() == reflect.Slice && elem.Elem().Kind() == reflect.Uint8:
				c.appendBytes(string(ev.Bytes()))
			default:
				return fmt.Errorf("%w: []%s", ErrUnsupported, elem)
			}
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, fv.Type())
	}
	return nil
}

func (c *Codec) appendBytes(s string) {
	c.body = common.AppendVarUint(c.body, uint64(len(s)))
	c.body = append(c.body, s...)
}

// Unmarshal decodes data into out, a pointer to struct.
func (c *Codec) Unmarshal(data []byte, out any) error {
	return c.Decode(slice.Wrap(data), out)
}

// Decode reads s into out, a pointer to struct. Byte slice fields alias s.
func (c *Codec) Decode(s *slice.Slice, out any) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrNotStructPtr
	}
	dst := v.Elem()
	t := dst.Type()
	pl := c.getPlan(t)

	in := slice.NewInput(s)
	n, err := binary.ReadUvarint(in)
	if err != nil {
		return fmt.Errorf("read field count: %w", err)
	}
	if n == 0 {
		return nil
	}
	if n > uint64(len(pl.fields)) {
		return fmt.Errorf("%w: %d > %d", ErrFieldCount, n, len(pl.fields))
	}
	fields := pl.fields[:n]

	var offsets []int
	for _, field := range fields {
		if !field.isVar {
			continue
		}
		off, err := binary.ReadUvarint(in)
		if err != nil {
			return fmt.Errorf("read offset table: %w", err)
		}
		if off > uint64(in.Len()) {
			return fmt.Errorf("%w: %d", ErrBadOffset, off)
		}
		offsets = append(offsets, int(off))
	}

	body := slice.NewInput(in.Slice())
	var varIdx int
	for _, field := range fields {
		fv := dst.Field(field.idx)
		if field.isVar {
			if err := body.SetPosition(offsets[varIdx]); err != nil {
				return fmt.Errorf("%w: %w", ErrBadOffset, err)
			}
			varIdx++
			err = c.decodeVar(body, fv)
		} else {
			err = common.ReadFixed(body, fv)
		}
		if err != nil {
			return fmt.Errorf("field %s: %w", t.Field(field.idx).Name, err)
		}
	}
	return nil
}

func (c *Codec) decodeVar(in *slice.Input, fv reflect.Value) error {
	switch fv.Kind() {
	case reflect.String:
		s, err := c.readString(in)
		if err != nil {
			return err
		}
		fv.SetString(s)
	case reflect.Slice:
		elem := fv.Type().Elem()
		if elem.Kind() == reflect.Uint8 {
			b, err := readBytes(in)
			if err != nil {
				return err
			}
			fv.SetBytes(b)
			return nil
		}
		cnt, err := readLen(in)
		if err != nil {
			return err
		}
		list := reflect.MakeSlice(fv.Type(), cnt, cnt)
		for i := 0; i < cnt; i++ {
			ev := list.Index(i)
			switch {
			case common.IsFixedKind(elem.Kind()):
				err = common.ReadFixed(in, ev)
			case elem.Kind() == reflect.String:
				var s string
				s, err = c.readString(in)
				ev.SetString(s)
			case elem.Kind() == reflect.Slice && elem.Elem().Kind() == reflect.Uint8:
				var b []byte
				b, err = readBytes(in)
				ev.SetBytes(b)
			default:
				return fmt.Errorf("%w: []%s", ErrUnsupported, elem)
			}
			if err != nil {
				return err
			}
		}
		fv.Set(list)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, fv.Type())
	}
	return nil
}

// readLen reads a varint length or count. Every encoded element takes at
// least one byte, so anything above Available is corrupt.
func readLen(in *slice.Input) (int, error) {
	l, err := binary.ReadUvarint(in)
	if err != nil {
		return 0, err
	}
	if l > uint64(in.Available()) {
		return 0, fmt.Errorf("%w: length %d, available %d", slice.ErrOutOfBounds, l, in.Available())
	}
	return int(l), nil
}

func readBytes(in *slice.Input) ([]byte, error) {
	l, err := readLen(in)
	if err != nil {
		return nil, err
	}
	v, err := in.ReadSlice(l)
	if err != nil {
		return nil, err
	}
	if v.Len() == 0 {
		return []byte{}, nil
	}
	return v.Bytes(), nil
}

func (c *Codec) readString(in *slice.Input) (string, error) {
	b, err := readBytes(in)
	if err != nil || len(b) == 0 {
		return "", err
	}
	if c.Opts.UnsafeStrings {
		return unsafe.String(unsafe.SliceData(b), len(b)), nil
	}
	return string(b), nil
}

// Fingerprint returns the 64-bit FNV-1a digest of val's encoding.
func (c *Codec) Fingerprint(val any) (uint64, error) {
	b, err := c.Encode(val)
	if err != nil {
		return 0, err
	}
	return slice.Hash64(slice.Wrap(b)), nil
}
