package invoke

import (
	"sync"

	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/types"
)

// thunkKey identifies a memoised layout plan: a FunctionType (by its
// canonical Key) paired with a CallingConvention (§4.6: "thunks are
// memoised per (FunctionType*, callingConvention)").
type thunkKey struct {
	typeKey string
	cc      compartment.CallingConvention
}

// thunkPlan is the byte layout invoke reads/writes a context's thunk
// scratch region against: parameter offsets for the pre-call phase, result
// offsets for the post-call phase, and the scratch size the call needs,
// which is the larger of the two phases since both share the same bytes.
type thunkPlan struct {
	paramOffsets  []uint32
	resultOffsets []uint32
	size          uint32
}

var (
	thunkCacheMu sync.Mutex
	thunkCache   = map[thunkKey]*thunkPlan{}
)

// planFor returns the cached layout plan for (fType, cc), computing and
// caching it on first use.
func planFor(fType types.FunctionType, cc compartment.CallingConvention) *thunkPlan {
	key := thunkKey{typeKey: fType.Key(), cc: cc}

	thunkCacheMu.Lock()
	defer thunkCacheMu.Unlock()
	if p, ok := thunkCache[key]; ok {
		return p
	}

	paramOffsets, paramsSize := compartment.ThunkLayout(fType.Params)
	resultOffsets, resultsSize := compartment.ThunkLayout(fType.Results)
	size := paramsSize
	if resultsSize > size {
		size = resultsSize
	}

	p := &thunkPlan{paramOffsets: paramOffsets, resultOffsets: resultOffsets, size: size}
	thunkCache[key] = p
	return p
}
