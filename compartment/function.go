package compartment

import "github.com/embervm/embervm/types"

// CallingConvention tags how a compiled entry point expects
// ContextRuntimeData to be passed, mirroring §3's "wasm" vs "intrinsic"
// distinction: wasm-calling-convention entries are reached only through an
// invoke thunk, while intrinsic-calling-convention entries are called
// directly by other compiled code and receive the runtime data as an
// explicit leading argument.
type CallingConvention uint8

const (
	CallingConventionWasm CallingConvention = iota
	CallingConventionIntrinsic
)

// NativeEntry is the opaque compiled-code entry point a FunctionInstance
// invokes (§1: "the core treats compiled function bodies as opaque native
// entry points invoked through thunks"). argsAndReturn is the calling
// context's thunk scratch region: the entry reads its parameters from the
// front of the buffer in the layout package invoke establishes and, before
// returning normally, overwrites the same bytes with the result. A non-nil
// returned exception means the call trapped instead of returning.
type NativeEntry func(rt ContextRuntimeData, argsAndReturn []byte) *types.Exception

// FunctionInstance holds a function's type, its native entry point, its
// calling convention, and a debug name (§3).
type FunctionInstance struct {
	compartmentID CompartmentID
	fType         types.FunctionType
	entry         NativeEntry
	convention    CallingConvention
	debugName     string
}

// NewFunctionInstance wraps an already-compiled entry point. compartmentID
// may be zero (no compartment) for functions that do not need compartment-scoped resources
// (e.g. host stubs bound eagerly before any compartment exists); most
// functions are created with a non-nil compartment via the instantiation
// path.
func NewFunctionInstance(compartmentID CompartmentID, fType types.FunctionType, entry NativeEntry, cc CallingConvention, debugName string) *FunctionInstance {
	return &FunctionInstance{
		compartmentID: compartmentID,
		fType:         fType,
		entry:         entry,
		convention:    cc,
		debugName:     debugName,
	}
}

func (f *FunctionInstance) Type() types.FunctionType    { return f.fType }
func (f *FunctionInstance) Entry() NativeEntry          { return f.entry }
func (f *FunctionInstance) Convention() CallingConvention { return f.convention }
func (f *FunctionInstance) DebugName() string           { return f.debugName }

// DescribedType implements types.Described.
func (f *FunctionInstance) DescribedType() types.ObjectType {
	return types.FunctionObjectType(f.fType)
}

// Kind implements Object.
func (f *FunctionInstance) Kind() types.ObjectKind { return types.KindFunction }

// CompartmentID implements Object.
func (f *FunctionInstance) CompartmentID() CompartmentID { return f.compartmentID }
