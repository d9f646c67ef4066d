package linker

import (
	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/types"
)

// RootResolver carries a host-built mapping from module name to
// ModuleInstance and resolves imports by looking up the named export and
// checking it satisfies the requested type via types.IsA, falling back to
// an embedded StubResolver on a miss or a type mismatch (§4.4; grounded on
// wavm-run.cpp's RootResolver, which embeds a StubResolver exactly this
// way).
type RootResolver struct {
	compartment *compartment.Compartment
	modules     map[string]*compartment.ModuleInstance
	stub        *StubResolver
}

func NewRootResolver(c *compartment.Compartment) *RootResolver {
	return &RootResolver{
		compartment: c,
		modules:     make(map[string]*compartment.ModuleInstance),
		stub:        NewStubResolver(c),
	}
}

// AddModule registers a module instance under name, making its exports
// available to later Resolve calls. Re-registering a name replaces the
// previous mapping.
func (r *RootResolver) AddModule(name string, instance *compartment.ModuleInstance) {
	r.modules[name] = instance
}

func (r *RootResolver) Resolve(moduleName, exportName string, expectedType types.ObjectType) (compartment.Object, bool) {
	if mod, ok := r.modules[moduleName]; ok {
		if obj := compartment.GetInstanceExport(mod, exportName); obj != nil {
			if described, ok := obj.(types.Described); ok && types.IsA(described.DescribedType(), expectedType) {
				return obj, true
			}
		}
	}
	return r.stub.Resolve(moduleName, exportName, expectedType)
}
