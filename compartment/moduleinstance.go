package compartment

import "github.com/embervm/embervm/types"

// ExceptionTypeInstance is the object form of an ExceptionType (§3); it
// exists so exception types can be exported/imported like any other
// object kind.
type ExceptionTypeInstance struct {
	compartmentID CompartmentID
	eType         types.ExceptionType
	debugName     string
}

func NewExceptionTypeInstance(compartmentID CompartmentID, eType types.ExceptionType, debugName string) *ExceptionTypeInstance {
	return &ExceptionTypeInstance{compartmentID: compartmentID, eType: eType, debugName: debugName}
}

func (e *ExceptionTypeInstance) Type() types.ExceptionType { return e.eType }
func (e *ExceptionTypeInstance) DescribedType() types.ObjectType {
	return types.ExceptionObjectType(e.eType)
}
func (e *ExceptionTypeInstance) Kind() types.ObjectKind        { return types.KindExceptionType }
func (e *ExceptionTypeInstance) CompartmentID() CompartmentID { return e.compartmentID }

// ModuleInstance owns references to its imports and exports (each a named
// Object), an optional start function, and a debug name (§3).
type ModuleInstance struct {
	compartmentID CompartmentID
	debugName     string

	imports []Object
	exports map[string]Object

	start    *FunctionInstance
	released bool
}

// NewModuleInstance constructs a ModuleInstance and takes a reference on c,
// so TryCollectCompartment will refuse to retire c until every ModuleInstance
// built from it is released (§3 "Resource lifetime": a compartment is
// retired only when no outstanding Context, ModuleInstance, or intrinsic
// binding refers to it). It is exported so package instantiate (which
// performs the full §4.5 instantiation algorithm) and the intrinsics factory
// (package trap) can both build one without reaching into
// compartment-private fields.
func NewModuleInstance(c *Compartment, debugName string, imports []Object, exports map[string]Object, start *FunctionInstance) *ModuleInstance {
	if exports == nil {
		exports = map[string]Object{}
	}
	c.addRef()
	return &ModuleInstance{
		compartmentID: c.id,
		debugName:     debugName,
		imports:       imports,
		exports:       exports,
		start:         start,
	}
}

// ReleaseModuleInstance drops the reference NewModuleInstance took on its
// owning compartment. Calling it more than once for the same instance is a
// no-op, as repeated Context.Close calls are for contexts; most hosts hold a
// ModuleInstance for the process lifetime and never call this at all.
func ReleaseModuleInstance(m *ModuleInstance) {
	if m.released {
		return
	}
	m.released = true
	if c := lookupCompartment(m.compartmentID); c != nil {
		c.releaseRef()
	}
}

func (m *ModuleInstance) DebugName() string   { return m.debugName }
func (m *ModuleInstance) Imports() []Object   { return m.imports }
func (m *ModuleInstance) Start() *FunctionInstance { return m.start }

// GetInstanceExport returns the named export, or nil if it does not exist.
// The returned object's compartment always equals the instance's
// compartment (§3 invariant 5) because every export was created within
// this same module's instantiation.
func GetInstanceExport(m *ModuleInstance, name string) Object {
	return m.exports[name]
}

// ExportNames returns the instance's export names, for diagnostics.
func (m *ModuleInstance) ExportNames() []string {
	names := make([]string, 0, len(m.exports))
	for n := range m.exports {
		names = append(names, n)
	}
	return names
}

func (m *ModuleInstance) Kind() types.ObjectKind        { return types.KindModuleInstance }
func (m *ModuleInstance) CompartmentID() CompartmentID { return m.compartmentID }
