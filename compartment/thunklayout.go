package compartment

import "github.com/embervm/embervm/types"

// ThunkLayout computes the byte offset each value in a parameter or result
// tuple is read from/written to within a context's thunk scratch region
// (§4.6): every scalar occupies an 8-byte slot regardless of its natural
// width, while a v128 occupies a 16-byte slot that is itself 16-byte
// aligned, padding the previous slot if necessary. It returns each value's
// offset alongside the total number of bytes the tuple occupies.
func ThunkLayout(vals []types.ValueType) (offsets []uint32, size uint32) {
	offsets = make([]uint32, len(vals))
	var offset uint32
	for i, v := range vals {
		if v.IsV128() {
			offset = alignUp(offset, 16)
			offsets[i] = offset
			offset += 16
		} else {
			offsets[i] = offset
			offset += 8
		}
	}
	return offsets, offset
}
