package types

import (
	"encoding/binary"
	"math"
)

// ValueType is the closed enumeration of value types a WebAssembly function
// signature, global, or table element can carry.
type ValueType uint8

const (
	None ValueType = iota
	I32
	I64
	F32
	F64
	V128
	FuncRef
	AnyRef
	Any
	NullRef
)

func (t ValueType) String() string {
	switch t {
	case None:
		return "none"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case V128:
		return "v128"
	case FuncRef:
		return "funcref"
	case AnyRef:
		return "anyref"
	case Any:
		return "any"
	case NullRef:
		return "nullref"
	default:
		return "unknown"
	}
}

// ByteWidth returns the number of bytes needed to hold a value of this type
// in an untagged storage cell (global data, thunk scratch region, table
// element). Reference types are stored as 8-byte opaque handles regardless
// of host pointer width, so the layout is portable across platforms.
func (t ValueType) ByteWidth() uint32 {
	switch t {
	case I32, F32:
		return 4
	case I64, F64, FuncRef, AnyRef:
		return 8
	case V128:
		return 16
	default:
		return 0
	}
}

// IsV128 reports whether a value of this type requires the 16-byte-aligned
// thunk scratch slot per §4.6.
func (t ValueType) IsV128() bool { return t == V128 }

// UntaggedValue is a 128-bit-capable union big enough to hold any storage
// form of a Value without its type tag, mirroring WAVM's UntaggedValue.
type UntaggedValue [16]byte

func I32Value(v int32) UntaggedValue {
	var u UntaggedValue
	binary.LittleEndian.PutUint32(u[:4], uint32(v))
	return u
}

func I64Value(v int64) UntaggedValue {
	var u UntaggedValue
	binary.LittleEndian.PutUint64(u[:8], uint64(v))
	return u
}

func F32Value(v float32) UntaggedValue {
	var u UntaggedValue
	binary.LittleEndian.PutUint32(u[:4], math.Float32bits(v))
	return u
}

func F64Value(v float64) UntaggedValue {
	var u UntaggedValue
	binary.LittleEndian.PutUint64(u[:8], math.Float64bits(v))
	return u
}

func V128Value(b [16]byte) UntaggedValue { return UntaggedValue(b) }

func (u UntaggedValue) I32() int32   { return int32(binary.LittleEndian.Uint32(u[:4])) }
func (u UntaggedValue) I64() int64   { return int64(binary.LittleEndian.Uint64(u[:8])) }
func (u UntaggedValue) F32() float32 { return math.Float32frombits(binary.LittleEndian.Uint32(u[:4])) }
func (u UntaggedValue) F64() float64 { return math.Float64frombits(binary.LittleEndian.Uint64(u[:8])) }
func (u UntaggedValue) V128() [16]byte { return [16]byte(u) }

// Bytes returns the leading n bytes of the untagged storage, n being the
// type's ByteWidth.
func (u UntaggedValue) Bytes(n uint32) []byte { return u[:n] }

// Value is a type tag paired with its untagged storage.
type Value struct {
	Type      ValueType
	Untagged  UntaggedValue
}

func NewI32(v int32) Value { return Value{Type: I32, Untagged: I32Value(v)} }
func NewI64(v int64) Value { return Value{Type: I64, Untagged: I64Value(v)} }
func NewF32(v float32) Value { return Value{Type: F32, Untagged: F32Value(v)} }
func NewF64(v float64) Value { return Value{Type: F64, Untagged: F64Value(v)} }
