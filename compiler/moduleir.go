package compiler

import (
	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/types"
)

// NativeBody is the opaque compiled-function body a real backend would
// instead emit as machine code (§1 non-goal: "the core treats compiled
// function bodies as opaque native entry points"). It receives already
// type-checked, decoded argument values and the calling context's runtime
// handle (needed by bodies that call an intrinsic, e.g. growMemory), and
// returns either the declared result tuple or a trap.
type NativeBody func(rt compartment.ContextRuntimeData, args []types.Value) ([]types.Value, *types.Exception)

// ImportDecl names one entry of a module's import table, in declaration
// order: the §4.4 linker resolves each by (Module, Name, Type).
type ImportDecl struct {
	Module string
	Name   string
	Type   types.ObjectType
}

// FunctionDecl is a locally defined function: its signature and the body a
// backend compiles into a native entry. Imported functions do not appear
// here — they are ImportDecls with Type.Kind == types.KindFunction, resolved
// by the linker instead of compiled.
type FunctionDecl struct {
	Type types.FunctionType
	Body NativeBody
}

// InitExprKind enumerates the only two init-expression forms this IR
// supports: a module's globals, table offsets, and data-segment offsets are
// each either a compile-time constant or a read of an already-resolved
// imported global, matching the subset of the wasm constant-expression
// grammar that a module's own instantiation-time initialisers are restricted
// to (§4.5 step 2).
type InitExprKind uint8

const (
	InitExprConst InitExprKind = iota
	InitExprGlobalGet
)

type InitExpr struct {
	Kind InitExprKind
	// Const is used when Kind == InitExprConst.
	Const types.Value
	// GlobalIndex indexes the combined (imports then locals) global space
	// and is used when Kind == InitExprGlobalGet. instantiate.InstantiateModule
	// requires it to name an immutable global that is already defined when the
	// expression is evaluated (an import or an earlier local global); it does
	// not restrict it to imported globals.
	GlobalIndex uint32
}

type GlobalDecl struct {
	Type types.GlobalType
	Init InitExpr
}

type MemoryDecl struct {
	Type types.MemoryType
}

type TableDecl struct {
	Type types.TableType
}

// ExportDecl names one entry of the exports map built in §4.5 step 5. Index
// indexes the combined (imports then locals) space for its Kind.
type ExportDecl struct {
	Name  string
	Kind  types.ObjectKind
	Index uint32
}

// ElementSegment initialises a range of a table with function references,
// evaluated against the final table per §4.5 step 3.
type ElementSegment struct {
	TableIndex uint32
	Offset     InitExpr
	// FuncIndices indexes the combined (imports then locals) function space;
	// a table slot beyond the module's own function count can still be
	// populated if all listed indices happen to be in range, matching the
	// wasm spec's 'ref.func' restriction loosely since it's already
	// presumed validated by the (out of scope) decoder.
	FuncIndices []uint32
}

// DataSegment initialises a byte range of a memory, evaluated against the
// final memory per §4.5 step 4.
type DataSegment struct {
	MemoryIndex uint32
	Offset      InitExpr
	Bytes       []byte
}

// ModuleIR is the validated module description a Backend compiles and
// instantiate.InstantiateModule consumes. It is assumed already validated:
// no decoder runs over it here (§1 non-goal).
type ModuleIR struct {
	Imports  []ImportDecl
	Functions []FunctionDecl
	Globals  []GlobalDecl
	Memories []MemoryDecl
	Tables   []TableDecl
	Exports  []ExportDecl

	ElementSegments []ElementSegment
	DataSegments    []DataSegment

	// Start indexes the combined (imports then locals) function space, or is
	// nil if the module declares no start function (§4.5 step 6: recorded,
	// not auto-invoked).
	Start *uint32
}

// ModuleRef is the compiled artifact a Backend produces: the IR it was
// compiled from, plus one compartment.NativeEntry per entry of
// ir.Functions, in the same order, ready to be bound into a
// compartment.FunctionInstance once a compartment exists.
type ModuleRef struct {
	IR      *ModuleIR
	Entries []compartment.NativeEntry
}

// Backend is the external collaborator's interface: turn a validated
// ModuleIR into a ModuleRef. A real implementation emits machine code (and
// may consult an objcache.Store keyed on §4.8's codeKey); refbackend instead
// interprets each FunctionDecl.Body directly.
type Backend interface {
	CompileModule(ir *ModuleIR) (*ModuleRef, error)
}
