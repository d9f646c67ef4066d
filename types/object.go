package types

// ObjectKind discriminates the fixed, small set of live object kinds a
// Compartment can own. Every Object carries its kind as the first
// discriminator; downcasts elsewhere in this module are permitted only
// after a kind check, per §3 invariant.
type ObjectKind uint8

const (
	KindFunction ObjectKind = iota
	KindGlobal
	KindTable
	KindMemory
	KindExceptionType
	KindModuleInstance
	KindCompartment
	KindContext
)

func (k ObjectKind) String() string {
	switch k {
	case KindFunction:
		return "func"
	case KindGlobal:
		return "global"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindExceptionType:
		return "exceptionType"
	case KindModuleInstance:
		return "moduleInstance"
	case KindCompartment:
		return "compartment"
	case KindContext:
		return "context"
	default:
		return "unknown"
	}
}

// FunctionType is (parameter tuple, result tuple). Function types are
// invariant: two FunctionTypes satisfy each other only if they are equal.
type FunctionType struct {
	Params  []ValueType
	Results []ValueType
}

// Key returns a canonical string uniquely identifying this signature, used
// the way wazero's internal Store interns FunctionType.String() into a
// FunctionTypeID: as a map key for indirect-call signature checks and
// invoke-thunk memoization, so two structurally equal FunctionTypes compare
// equal without a deep walk on the hot path.
func (f FunctionType) Key() string {
	buf := make([]byte, 0, len(f.Params)+len(f.Results)+2)
	for _, p := range f.Params {
		buf = append(buf, byte(p))
	}
	buf = append(buf, 0xff)
	for _, r := range f.Results {
		buf = append(buf, byte(r))
	}
	return string(buf)
}

func (f FunctionType) Equal(other FunctionType) bool { return f.Key() == other.Key() }

// GlobalType is (value type, mutability flag). Invariant: equality.
type GlobalType struct {
	ValType ValueType
	Mutable bool
}

// TableType is (element kind, min, optional max). Table types obey
// width-subtyping.
type TableType struct {
	Element ValueType
	Min     uint32
	Max     *uint32 // nil means unbounded (+Inf)
}

// IsSubtypeOf reports whether an object with type t satisfies a request for
// type requested: t.Min >= requested.Min and t.Max (treated as +Inf when
// nil) <= requested.Max (treated as +Inf when nil).
func (t TableType) IsSubtypeOf(requested TableType) bool {
	if t.Element != requested.Element {
		return false
	}
	if t.Min < requested.Min {
		return false
	}
	return boundedBy(t.Max, requested.Max)
}

// MemoryType is (min pages, optional max pages); same width-subtyping rule
// as TableType.
type MemoryType struct {
	MinPages uint32
	MaxPages *uint32
}

func (m MemoryType) IsSubtypeOf(requested MemoryType) bool {
	if m.MinPages < requested.MinPages {
		return false
	}
	return boundedBy(m.MaxPages, requested.MaxPages)
}

// boundedBy reports whether actualMax (nil == +Inf) is <= requestedMax
// (nil == +Inf).
func boundedBy(actualMax, requestedMax *uint32) bool {
	if requestedMax == nil {
		return true // requester accepts anything up to +Inf
	}
	if actualMax == nil {
		return false // actual is unbounded but requester wants a cap
	}
	return *actualMax <= *requestedMax
}

// ExceptionType is a parameter tuple. Invariant: equality.
type ExceptionType struct {
	Params []ValueType
}

func (e ExceptionType) Key() string {
	buf := make([]byte, len(e.Params))
	for i, p := range e.Params {
		buf[i] = byte(p)
	}
	return string(buf)
}

func (e ExceptionType) Equal(other ExceptionType) bool { return e.Key() == other.Key() }

// ObjectType is the tagged union used throughout the resolver and
// instantiation path to name "the type an import/export is expected to
// have": resolve(moduleName, exportName, expectedType) in §4.4 takes one of
// these, and every concrete object exposes its own ObjectType via
// DescribedType() for comparison against it.
type ObjectType struct {
	Kind      ObjectKind
	Function  FunctionType
	Global    GlobalType
	Table     TableType
	Memory    MemoryType
	Exception ExceptionType
}

func FunctionObjectType(ft FunctionType) ObjectType {
	return ObjectType{Kind: KindFunction, Function: ft}
}

func GlobalObjectType(gt GlobalType) ObjectType {
	return ObjectType{Kind: KindGlobal, Global: gt}
}

func TableObjectType(tt TableType) ObjectType {
	return ObjectType{Kind: KindTable, Table: tt}
}

func MemoryObjectType(mt MemoryType) ObjectType {
	return ObjectType{Kind: KindMemory, Memory: mt}
}

func ExceptionObjectType(et ExceptionType) ObjectType {
	return ObjectType{Kind: KindExceptionType, Exception: et}
}

// IsA implements the §3 subtyping rule: an object described by actual
// satisfies a request for expected iff the kinds match and, per kind, the
// invariant-equality or width-subtyping rule holds. Object kinds with no
// subtyping notion (module instance, compartment, context) never satisfy an
// IsA check — they are not importable/exportable as typed capabilities.
func IsA(actual, expected ObjectType) bool {
	if actual.Kind != expected.Kind {
		return false
	}
	switch actual.Kind {
	case KindFunction:
		return actual.Function.Equal(expected.Function)
	case KindGlobal:
		return actual.Global == expected.Global
	case KindTable:
		return actual.Table.IsSubtypeOf(expected.Table)
	case KindMemory:
		return actual.Memory.IsSubtypeOf(expected.Memory)
	case KindExceptionType:
		return actual.Exception.Equal(expected.Exception)
	default:
		return false
	}
}

// Described is implemented by every object kind that can appear as an
// import or export: functions, globals, tables, memories, and exception
// types. Module instances, compartments, and contexts are Objects but are
// never themselves import/export capabilities, so they do not implement
// Described.
type Described interface {
	DescribedType() ObjectType
}
