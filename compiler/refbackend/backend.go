package refbackend

import (
	"fmt"

	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/compiler"
	"github.com/embervm/embervm/errors"
	"github.com/embervm/embervm/types"
)

// Version identifies this backend for objcache.CodeKey (§4.8): a real
// backend would bump this whenever its code generation changes in a way
// that invalidates previously cached artifacts.
const Version = "refbackend-1"

// Backend is the zero-value-usable reference compiler.Backend.
type Backend struct{}

// CompileModule wraps each FunctionDecl.Body into a compartment.NativeEntry
// that decodes its arguments from the thunk scratch region, calls Body, and
// encodes its results back into the same region (§4.6), exactly the
// contract invoke.InvokeFunctionUnchecked/Checked expect from any backend.
func (Backend) CompileModule(ir *compiler.ModuleIR) (*compiler.ModuleRef, error) {
	entries := make([]compartment.NativeEntry, len(ir.Functions))
	for i, fn := range ir.Functions {
		if fn.Body == nil {
			return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
				Detail("function %d declares no body", i).Build()
		}
		entries[i] = bindEntry(fn.Type, fn.Body)
	}
	return &compiler.ModuleRef{IR: ir, Entries: entries}, nil
}

// bindEntry closes over fType so the returned NativeEntry knows how many
// bytes to read/write without re-deriving the layout on every call.
func bindEntry(fType types.FunctionType, body compiler.NativeBody) compartment.NativeEntry {
	paramOffsets, _ := compartment.ThunkLayout(fType.Params)
	resultOffsets, _ := compartment.ThunkLayout(fType.Results)

	return func(rt compartment.ContextRuntimeData, buf []byte) *types.Exception {
		args := make([]types.Value, len(fType.Params))
		for i, t := range fType.Params {
			args[i] = decodeValue(buf, paramOffsets[i], t)
		}

		results, exc := body(rt, args)
		if exc != nil {
			return exc
		}
		if len(results) != len(fType.Results) {
			return types.NewException(types.ExceptionInvokeSignatureMismatch,
				fmt.Sprintf("body returned %d results, type declares %d", len(results), len(fType.Results)))
		}
		for i, v := range results {
			if v.Type != fType.Results[i] {
				return types.NewException(types.ExceptionInvokeSignatureMismatch,
					fmt.Sprintf("result %d: got %s, want %s", i, v.Type, fType.Results[i]))
			}
			encodeValue(buf, resultOffsets[i], v)
		}
		return nil
	}
}

func decodeValue(buf []byte, offset uint32, t types.ValueType) types.Value {
	width := t.ByteWidth()
	var u types.UntaggedValue
	copy(u[:], buf[offset:offset+width])
	return types.Value{Type: t, Untagged: u}
}

func encodeValue(buf []byte, offset uint32, v types.Value) {
	width := v.Type.ByteWidth()
	copy(buf[offset:offset+width], v.Untagged.Bytes(width))
}
