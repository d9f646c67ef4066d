package trap

import (
	"fmt"

	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/types"
)

// unaryFloat32/64 and binaryFloat32/64 adapt the plain-value floatMin/Max/...
// functions in floats.go into compartment.NativeEntry, handling the
// thunk-scratch decode/encode once instead of in each of the twelve float
// intrinsics.
func binaryFloat32(fn func(float32, float32) float32) compartment.NativeEntry {
	ft := types.FunctionType{Params: []types.ValueType{types.F32, types.F32}, Results: []types.ValueType{types.F32}}
	offsets, _ := compartment.ThunkLayout(ft.Params)
	return func(_ compartment.ContextRuntimeData, buf []byte) *types.Exception {
		left := readF32(buf, offsets[0])
		right := readF32(buf, offsets[1])
		writeF32(buf, 0, fn(left, right))
		return nil
	}
}

func binaryFloat64(fn func(float64, float64) float64) compartment.NativeEntry {
	ft := types.FunctionType{Params: []types.ValueType{types.F64, types.F64}, Results: []types.ValueType{types.F64}}
	offsets, _ := compartment.ThunkLayout(ft.Params)
	return func(_ compartment.ContextRuntimeData, buf []byte) *types.Exception {
		left := readF64(buf, offsets[0])
		right := readF64(buf, offsets[1])
		writeF64(buf, 0, fn(left, right))
		return nil
	}
}

func unaryFloat32(fn func(float32) float32) compartment.NativeEntry {
	return func(_ compartment.ContextRuntimeData, buf []byte) *types.Exception {
		writeF32(buf, 0, fn(readF32(buf, 0)))
		return nil
	}
}

func unaryFloat64(fn func(float64) float64) compartment.NativeEntry {
	return func(_ compartment.ContextRuntimeData, buf []byte) *types.Exception {
		writeF64(buf, 0, fn(readF64(buf, 0)))
		return nil
	}
}

// namedTrap builds a NativeEntry for one of the eight §4.7 traps: a niladic
// intrinsic that unconditionally raises a fixed exception kind.
func namedTrap(kind types.ExceptionKind, message string) compartment.NativeEntry {
	return func(_ compartment.ContextRuntimeData, _ []byte) *types.Exception {
		return types.NewException(kind, message)
	}
}

func indirectCallSignatureMismatchEntry() compartment.NativeEntry {
	ft := types.FunctionType{Params: []types.ValueType{types.I32, types.I64}}
	offsets, _ := compartment.ThunkLayout(ft.Params)
	return func(rt compartment.ContextRuntimeData, buf []byte) *types.Exception {
		index := uint32(readI32(buf, offsets[0]))
		tableID := compartment.TableID(readI64(buf, offsets[1]))

		table := compartment.GetTableFromRuntimeData(rt, tableID)
		if table == nil {
			return types.NewException(types.ExceptionUndefinedTableElement, "table not found")
		}
		element, ok := compartment.TableGet(table, index)
		if !ok || element.Entry == nil {
			return types.NewException(types.ExceptionUndefinedTableElement, fmt.Sprintf("index %d", index))
		}
		Logger().Sugar().Debugw("call_indirect signature mismatch",
			"index", index, "actual", element.FuncType.Key())
		return types.NewException(types.ExceptionIndirectCallSignatureMismatch,
			fmt.Sprintf("index %d: actual signature %s", index, element.FuncType.Key()))
	}
}

func growMemoryEntry() compartment.NativeEntry {
	ft := types.FunctionType{Params: []types.ValueType{types.I32, types.I64}, Results: []types.ValueType{types.I32}}
	offsets, _ := compartment.ThunkLayout(ft.Params)
	return func(rt compartment.ContextRuntimeData, buf []byte) *types.Exception {
		deltaPages := uint32(readI32(buf, offsets[0]))
		memoryID := compartment.MemoryID(readI64(buf, offsets[1]))

		memory := compartment.GetMemoryFromRuntimeData(rt, memoryID)
		if memory == nil {
			return types.NewException(types.ExceptionAccessViolation, "memory not found")
		}
		previous := compartment.GrowMemory(memory, deltaPages)
		if previous < 0 {
			writeI32(buf, 0, -1)
		} else {
			writeI32(buf, 0, int32(previous))
		}
		return nil
	}
}

func currentMemoryEntry() compartment.NativeEntry {
	ft := types.FunctionType{Params: []types.ValueType{types.I64}, Results: []types.ValueType{types.I32}}
	offsets, _ := compartment.ThunkLayout(ft.Params)
	return func(rt compartment.ContextRuntimeData, buf []byte) *types.Exception {
		memoryID := compartment.MemoryID(readI64(buf, offsets[0]))
		memory := compartment.GetMemoryFromRuntimeData(rt, memoryID)
		if memory == nil {
			return types.NewException(types.ExceptionAccessViolation, "memory not found")
		}
		numPages := memory.NumPages()
		if numPages > 0x7fffffff {
			numPages = 0x7fffffff
		}
		writeI32(buf, 0, int32(numPages))
		return nil
	}
}

// intrinsicEntries pairs each intrinsic's export name with its type and
// NativeEntry. The names match WAVMIntrinsics.cpp's module-local names
// exactly so diagnostics and tests can refer to them without translation.
type intrinsicEntry struct {
	name  string
	fType types.FunctionType
	entry compartment.NativeEntry
}

func intrinsicEntries() []intrinsicEntry {
	f32f32f32 := types.FunctionType{Params: []types.ValueType{types.F32, types.F32}, Results: []types.ValueType{types.F32}}
	f64f64f64 := types.FunctionType{Params: []types.ValueType{types.F64, types.F64}, Results: []types.ValueType{types.F64}}
	f32f32 := types.FunctionType{Params: []types.ValueType{types.F32}, Results: []types.ValueType{types.F32}}
	f64f64 := types.FunctionType{Params: []types.ValueType{types.F64}, Results: []types.ValueType{types.F64}}
	none := types.FunctionType{}

	return []intrinsicEntry{
		{"f32.min", f32f32f32, binaryFloat32(floatMin32)},
		{"f64.min", f64f64f64, binaryFloat64(floatMin64)},
		{"f32.max", f32f32f32, binaryFloat32(floatMax32)},
		{"f64.max", f64f64f64, binaryFloat64(floatMax64)},
		{"f32.ceil", f32f32, unaryFloat32(floatCeil32)},
		{"f64.ceil", f64f64, unaryFloat64(floatCeil64)},
		{"f32.floor", f32f32, unaryFloat32(floatFloor32)},
		{"f64.floor", f64f64, unaryFloat64(floatFloor64)},
		{"f32.trunc", f32f32, unaryFloat32(floatTrunc32)},
		{"f64.trunc", f64f64, unaryFloat64(floatTrunc64)},
		{"f32.nearest", f32f32, unaryFloat32(floatNearest32)},
		{"f64.nearest", f64f64, unaryFloat64(floatNearest64)},

		{"divideByZeroOrIntegerOverflowTrap", none, namedTrap(types.ExceptionIntegerDivideByZeroOrOverflow, "")},
		{"unreachableTrap", none, namedTrap(types.ExceptionReachedUnreachable, "")},
		{"accessViolationTrap", none, namedTrap(types.ExceptionAccessViolation, "")},
		{"invalidFloatOperationTrap", none, namedTrap(types.ExceptionInvalidFloatOperation, "")},
		{"indirectCallSignatureMismatch", types.FunctionType{Params: []types.ValueType{types.I32, types.I64}}, indirectCallSignatureMismatchEntry()},
		{"indirectCallIndexOutOfBounds", none, namedTrap(types.ExceptionUndefinedTableElement, "")},
		{"growMemory", types.FunctionType{Params: []types.ValueType{types.I32, types.I64}, Results: []types.ValueType{types.I32}}, growMemoryEntry()},
		{"currentMemory", types.FunctionType{Params: []types.ValueType{types.I64}, Results: []types.ValueType{types.I32}}, currentMemoryEntry()},
	}
}

// NewIntrinsicsModule builds the intrinsics ModuleInstance every compartment
// is instantiated with, mirroring instantiateWAVMIntrinsics(compartment). Its
// signature matches compartment.IntrinsicsFactory, so it is passed directly
// to compartment.CreateCompartment.
func NewIntrinsicsModule(c *compartment.Compartment) (*compartment.ModuleInstance, error) {
	exports := make(map[string]compartment.Object, 20)
	for _, e := range intrinsicEntries() {
		fn := compartment.NewFunctionInstance(c.ID(), e.fType, e.entry, compartment.CallingConventionIntrinsic, e.name)
		exports[e.name] = fn
	}
	return compartment.NewModuleInstance(c, "wavmIntrinsics", nil, exports, nil), nil
}
