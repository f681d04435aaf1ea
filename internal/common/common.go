package common

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/rawbytedev/slice"
)

// IsFixedKind reports whether k is a fixed-size primitive kind.
func IsFixedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// FixedSize returns the byte width for fixed-size primitive kinds.
func FixedSize(k reflect.Kind) int {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return slice.SizeOfByte
	case reflect.Int16, reflect.Uint16:
		return slice.SizeOfInt16
	case reflect.Int32, reflect.Uint32:
		return slice.SizeOfInt32
	case reflect.Float32:
		return slice.SizeOfFloat32
	case reflect.Int64, reflect.Uint64:
		return slice.SizeOfInt64
	case reflect.Float64:
		return slice.SizeOfFloat64
	default:
		return -1
	}
}

// AppendVarUint appends x as an unsigned LEB128 varint.
func AppendVarUint(buf []byte, x uint64) []byte {
	for x >= 0x80 {
		buf = append(buf, byte(x)|0x80)
		x >>= 7
	}
	return append(buf, byte(x))
}

// AppendFixed appends the little-endian encoding of a fixed-kind value.
// It panics on any other kind.
func AppendFixed(buf []byte, v reflect.Value) []byte {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return append(buf, 1)
		}
		return append(buf, 0)
	case reflect.Int8:
		return append(buf, byte(v.Int()))
	case reflect.Uint8:
		return append(buf, byte(v.Uint()))
	case reflect.Int16:
		return binary.LittleEndian.AppendUint16(buf, uint16(v.Int()))
	case reflect.Uint16:
		return binary.LittleEndian.AppendUint16(buf, uint16(v.Uint()))
	case reflect.Int32:
		return binary.LittleEndian.AppendUint32(buf, uint32(v.Int()))
	case reflect.Uint32:
		return binary.LittleEndian.AppendUint32(buf, uint32(v.Uint()))
	case reflect.Int64:
		return binary.LittleEndian.AppendUint64(buf, uint64(v.Int()))
	case reflect.Uint64:
		return binary.LittleEndian.AppendUint64(buf, v.Uint())
	case reflect.Float32:
		return binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(v.Float())))
	case reflect.Float64:
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.Float()))
	default:
		panic("not fixed")
	}
}

// ReadFixed decodes the next fixed-width value from in into dst.
func ReadFixed(in *slice.Input, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Bool:
		v, err := in.ReadBool()
		dst.SetBool(v)
		return err
	case reflect.Int8:
		v, err := in.ReadInt8()
		dst.SetInt(int64(v))
		return err
	case reflect.Uint8:
		v, err := in.ReadUint8()
		dst.SetUint(uint64(v))
		return err
	case reflect.Int16:
		v, err := in.ReadInt16()
		dst.SetInt(int64(v))
		return err
	case reflect.Uint16:
		v, err := in.ReadUint16()
		dst.SetUint(uint64(v))
		return err
	case reflect.Int32:
		v, err := in.ReadInt32()
		dst.SetInt(int64(v))
		return err
	case reflect.Uint32:
		v, err := in.ReadUint32()
		dst.SetUint(uint64(v))
		return err
	case reflect.Int64:
		v, err := in.ReadInt64()
		dst.SetInt(v)
		return err
	case reflect.Uint64:
		v, err := in.ReadUint64()
		dst.SetUint(v)
		return err
	case reflect.Float32:
		v, err := in.ReadFloat32()
		dst.SetFloat(float64(v))
		return err
	case reflect.Float64:
		v, err := in.ReadFloat64()
		dst.SetFloat(v)
		return err
	default:
		panic("not fixed")
	}
}
