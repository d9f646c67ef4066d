package emscripten

import (
	"github.com/embervm/embervm/abi"
	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/types"
)

// Resolver is a linker.Resolver satisfying abi.EmscriptenModuleName
// function imports. Like abi/wasi.Resolver, it binds the guest's own
// exported memory after instantiation, since the memory import it is
// itself asked to resolve is satisfied separately, not by this resolver
// (abi.Detect's Emscripten rule requires *both* an env.memory import and an
// env function import; the memory import is resolved by whatever supplies
// the actual backing MemoryInstance, typically a RootResolver entry the
// host registers, not this Resolver).
type Resolver struct {
	compartment *compartment.Compartment
	memory      *compartment.MemoryInstance
}

func NewResolver(c *compartment.Compartment) *Resolver {
	return &Resolver{compartment: c}
}

// BindMemory records the memory backing env.memory so memcpyBig can copy
// within it.
func (r *Resolver) BindMemory(mem *compartment.MemoryInstance) { r.memory = mem }

func (r *Resolver) Resolve(moduleName, exportName string, expectedType types.ObjectType) (compartment.Object, bool) {
	if moduleName != abi.EmscriptenModuleName || expectedType.Kind != types.KindFunction {
		return nil, false
	}

	var fType types.FunctionType
	var entry compartment.NativeEntry
	switch exportName {
	case "abort":
		fType = types.FunctionType{Params: []types.ValueType{types.I32}}
		entry = r.abort()
	case "_emscripten_memcpy_big":
		fType = types.FunctionType{
			Params:  []types.ValueType{types.I32, types.I32, types.I32},
			Results: []types.ValueType{types.I32},
		}
		entry = r.memcpyBig()
	case "emscripten_notify_memory_growth":
		fType = types.FunctionType{Params: []types.ValueType{types.I32}}
		entry = r.notifyMemoryGrowth()
	default:
		return nil, false
	}

	if !fType.Equal(expectedType.Function) {
		return nil, false
	}
	fn := compartment.NewFunctionInstance(r.compartment.ID(), fType, entry, compartment.CallingConventionWasm, exportName)
	return fn, true
}

func (r *Resolver) abort() compartment.NativeEntry {
	return func(_ compartment.ContextRuntimeData, _ []byte) *types.Exception {
		return types.NewException(types.ExceptionCalledAbort, "abort() called by guest module")
	}
}

func (r *Resolver) memcpyBig() compartment.NativeEntry {
	ft := types.FunctionType{Params: []types.ValueType{types.I32, types.I32, types.I32}}
	offsets, _ := compartment.ThunkLayout(ft.Params)
	return func(_ compartment.ContextRuntimeData, buf []byte) *types.Exception {
		if r.memory == nil {
			return types.NewException(types.ExceptionAccessViolation, "env.memory not bound")
		}
		dest := readI32(buf, offsets[0])
		src := readI32(buf, offsets[1])
		num := readI32(buf, offsets[2])

		data := r.memory.Bytes()
		if dest < 0 || src < 0 || num < 0 ||
			int64(dest)+int64(num) > int64(len(data)) || int64(src)+int64(num) > int64(len(data)) {
			return types.NewException(types.ExceptionAccessViolation, "_emscripten_memcpy_big out of bounds")
		}
		copy(data[dest:dest+num], data[src:src+num])
		writeI32(buf, 0, dest)
		return nil
	}
}

func (r *Resolver) notifyMemoryGrowth() compartment.NativeEntry {
	return func(_ compartment.ContextRuntimeData, _ []byte) *types.Exception {
		return nil
	}
}

func readI32(buf []byte, offset uint32) int32 {
	var u types.UntaggedValue
	copy(u[:], buf[offset:offset+4])
	return u.I32()
}

func writeI32(buf []byte, offset uint32, v int32) {
	copy(buf[offset:offset+4], types.I32Value(v).Bytes(4))
}
