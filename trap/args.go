package trap

import "github.com/embervm/embervm/types"

// The helpers below read/write a single thunk-scratch slot at a
// compartment.ThunkLayout-computed offset. They exist so each intrinsic body
// reads like the plain-value WAVMIntrinsics.cpp signature it mirrors instead
// of repeating byte-slicing at every call site.

func readI32(buf []byte, offset uint32) int32 {
	var u types.UntaggedValue
	copy(u[:], buf[offset:offset+4])
	return u.I32()
}

func readI64(buf []byte, offset uint32) int64 {
	var u types.UntaggedValue
	copy(u[:], buf[offset:offset+8])
	return u.I64()
}

func readF32(buf []byte, offset uint32) float32 {
	var u types.UntaggedValue
	copy(u[:], buf[offset:offset+4])
	return u.F32()
}

func readF64(buf []byte, offset uint32) float64 {
	var u types.UntaggedValue
	copy(u[:], buf[offset:offset+8])
	return u.F64()
}

func writeI32(buf []byte, offset uint32, v int32) { copy(buf[offset:offset+4], types.I32Value(v).Bytes(4)) }
func writeF32(buf []byte, offset uint32, v float32) {
	copy(buf[offset:offset+4], types.F32Value(v).Bytes(4))
}
func writeF64(buf []byte, offset uint32, v float64) {
	copy(buf[offset:offset+8], types.F64Value(v).Bytes(8))
}
