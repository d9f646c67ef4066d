package invoke

import (
	"fmt"

	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/types"
)

// InvokeFunctionUnchecked calls fn with args, trusting the caller that
// len(args) and each arg's type already match fn.Type().Params (§4.6). It
// writes each argument into ctx's thunk scratch region (8-byte slots for
// scalars, 16-byte-aligned 16-byte slots for v128), raising outOfMemory if
// the signature's marshalled size would exceed the context's scratch
// capacity, then calls fn.Entry and decodes its result tuple back out of
// the same bytes.
func InvokeFunctionUnchecked(ctx *compartment.Context, fn *compartment.FunctionInstance, args []types.Value) ([]types.Value, *types.Exception) {
	plan := planFor(fn.Type(), fn.Convention())

	scratch := ctx.ThunkScratch()
	if plan.size > uint32(len(scratch)) {
		return nil, types.NewException(types.ExceptionOutOfMemory,
			fmt.Sprintf("thunk requires %d bytes, context scratch region holds %d", plan.size, len(scratch)))
	}
	buf := scratch[:plan.size]

	for i, a := range args {
		width := a.Type.ByteWidth()
		off := plan.paramOffsets[i]
		copy(buf[off:off+width], a.Untagged.Bytes(width))
	}

	Logger().Sugar().Debugw("invoking", "function", fn.DebugName(), "convention", fn.Convention())

	if exc := fn.Entry()(ctx.RuntimeData(), buf); exc != nil {
		return nil, exc
	}

	resultTypes := fn.Type().Results
	results := make([]types.Value, len(resultTypes))
	for i, rt := range resultTypes {
		width := rt.ByteWidth()
		off := plan.resultOffsets[i]
		var u types.UntaggedValue
		copy(u[:], buf[off:off+width])
		results[i] = types.Value{Type: rt, Untagged: u}
	}
	return results, nil
}

// InvokeFunctionChecked validates args against fn.Type().Params before
// delegating to InvokeFunctionUnchecked, raising invokeSignatureMismatch on
// an arity or per-argument type mismatch instead of corrupting the thunk
// scratch region (§4.6).
func InvokeFunctionChecked(ctx *compartment.Context, fn *compartment.FunctionInstance, args []types.Value) ([]types.Value, *types.Exception) {
	params := fn.Type().Params
	if len(args) != len(params) {
		return nil, types.NewException(types.ExceptionInvokeSignatureMismatch,
			fmt.Sprintf("expected %d arguments, got %d", len(params), len(args)))
	}
	for i, want := range params {
		if args[i].Type != want {
			return nil, types.NewException(types.ExceptionInvokeSignatureMismatch,
				fmt.Sprintf("argument %d: expected %s, got %s", i, want, args[i].Type))
		}
	}
	return InvokeFunctionUnchecked(ctx, fn, args)
}
