package invoke

import (
	"testing"

	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/compiler"
	"github.com/embervm/embervm/compiler/refbackend"
	"github.com/embervm/embervm/types"
)

func compileAdd(t *testing.T) (*compiler.ModuleRef, types.FunctionType) {
	t.Helper()
	fType := types.FunctionType{Params: []types.ValueType{types.I32, types.I32}, Results: []types.ValueType{types.I32}}
	ir := &compiler.ModuleIR{
		Functions: []compiler.FunctionDecl{{
			Type: fType,
			Body: func(_ compartment.ContextRuntimeData, args []types.Value) ([]types.Value, *types.Exception) {
				return []types.Value{types.NewI32(args[0].Untagged.I32() + args[1].Untagged.I32())}, nil
			},
		}},
	}
	ref, err := refbackend.Backend{}.CompileModule(ir)
	if err != nil {
		t.Fatalf("CompileModule: %v", err)
	}
	return ref, fType
}

func TestInvokeFunctionUncheckedRoundTrips(t *testing.T) {
	ref, fType := compileAdd(t)
	c, err := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	if err != nil {
		t.Fatalf("CreateCompartment: %v", err)
	}
	ctx := compartment.CreateContext(c)
	fn := compartment.NewFunctionInstance(c.ID(), fType, ref.Entries[0], compartment.CallingConventionWasm, "add")

	results, exc := InvokeFunctionUnchecked(ctx, fn, []types.Value{types.NewI32(3), types.NewI32(4)})
	if exc != nil {
		t.Fatalf("unexpected exception: %v", exc)
	}
	if len(results) != 1 || results[0].Untagged.I32() != 7 {
		t.Fatalf("expected [7], got %+v", results)
	}
}

func TestInvokeFunctionCheckedRejectsArityMismatch(t *testing.T) {
	ref, fType := compileAdd(t)
	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	ctx := compartment.CreateContext(c)
	fn := compartment.NewFunctionInstance(c.ID(), fType, ref.Entries[0], compartment.CallingConventionWasm, "add")

	_, exc := InvokeFunctionChecked(ctx, fn, []types.Value{types.NewI32(1)})
	if exc == nil || exc.ExcKind != types.ExceptionInvokeSignatureMismatch {
		t.Fatalf("expected invokeSignatureMismatch, got %v", exc)
	}
}

func TestInvokeFunctionCheckedRejectsTypeMismatch(t *testing.T) {
	ref, fType := compileAdd(t)
	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	ctx := compartment.CreateContext(c)
	fn := compartment.NewFunctionInstance(c.ID(), fType, ref.Entries[0], compartment.CallingConventionWasm, "add")

	_, exc := InvokeFunctionChecked(ctx, fn, []types.Value{types.NewI32(1), types.NewF32(2)})
	if exc == nil || exc.ExcKind != types.ExceptionInvokeSignatureMismatch {
		t.Fatalf("expected invokeSignatureMismatch, got %v", exc)
	}
}

func TestInvokeFunctionCheckedAcceptsValidArgs(t *testing.T) {
	ref, fType := compileAdd(t)
	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	ctx := compartment.CreateContext(c)
	fn := compartment.NewFunctionInstance(c.ID(), fType, ref.Entries[0], compartment.CallingConventionWasm, "add")

	results, exc := InvokeFunctionChecked(ctx, fn, []types.Value{types.NewI32(10), types.NewI32(32)})
	if exc != nil {
		t.Fatalf("unexpected exception: %v", exc)
	}
	if results[0].Untagged.I32() != 42 {
		t.Fatalf("expected 42, got %d", results[0].Untagged.I32())
	}
}

func TestInvokeFunctionUncheckedRaisesOutOfMemoryOnOversizedSignature(t *testing.T) {
	manyParams := make([]types.ValueType, 40)
	for i := range manyParams {
		manyParams[i] = types.I64
	}
	fType := types.FunctionType{Params: manyParams, Results: []types.ValueType{types.I64}}
	ir := &compiler.ModuleIR{
		Functions: []compiler.FunctionDecl{{
			Type: fType,
			Body: func(_ compartment.ContextRuntimeData, args []types.Value) ([]types.Value, *types.Exception) {
				return []types.Value{types.NewI64(0)}, nil
			},
		}},
	}
	ref, err := refbackend.Backend{}.CompileModule(ir)
	if err != nil {
		t.Fatalf("CompileModule: %v", err)
	}

	limits := compartment.DefaultLimits()
	limits.MaxThunkArgAndReturnBytes = 64 // too small for 40 i64 args (320 bytes)
	c, _ := compartment.CreateCompartment(limits, nil)
	ctx := compartment.CreateContext(c)
	fn := compartment.NewFunctionInstance(c.ID(), fType, ref.Entries[0], compartment.CallingConventionWasm, "many")

	args := make([]types.Value, len(manyParams))
	for i := range args {
		args[i] = types.NewI64(int64(i))
	}

	_, exc := InvokeFunctionUnchecked(ctx, fn, args)
	if exc == nil || exc.ExcKind != types.ExceptionOutOfMemory {
		t.Fatalf("expected outOfMemory, got %v", exc)
	}
}

func TestInvokeFunctionUncheckedPropagatesTrap(t *testing.T) {
	fType := types.FunctionType{Results: []types.ValueType{types.I32}}
	ir := &compiler.ModuleIR{
		Functions: []compiler.FunctionDecl{{
			Type: fType,
			Body: func(_ compartment.ContextRuntimeData, _ []types.Value) ([]types.Value, *types.Exception) {
				return nil, types.NewException(types.ExceptionReachedUnreachable, "")
			},
		}},
	}
	ref, err := refbackend.Backend{}.CompileModule(ir)
	if err != nil {
		t.Fatalf("CompileModule: %v", err)
	}
	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	ctx := compartment.CreateContext(c)
	fn := compartment.NewFunctionInstance(c.ID(), fType, ref.Entries[0], compartment.CallingConventionWasm, "trap")

	_, exc := InvokeFunctionUnchecked(ctx, fn, nil)
	if exc == nil || exc.ExcKind != types.ExceptionReachedUnreachable {
		t.Fatalf("expected reachedUnreachable, got %v", exc)
	}
}

func TestThunkPlanIsMemoizedPerSignatureAndConvention(t *testing.T) {
	fType := types.FunctionType{Params: []types.ValueType{types.I32}, Results: []types.ValueType{types.I32}}
	p1 := planFor(fType, compartment.CallingConventionWasm)
	p2 := planFor(fType, compartment.CallingConventionWasm)
	if p1 != p2 {
		t.Fatal("expected the same cached plan for an identical (type, convention) pair")
	}
	p3 := planFor(fType, compartment.CallingConventionIntrinsic)
	if p1 == p3 {
		t.Fatal("expected a distinct plan for a different calling convention")
	}
}
