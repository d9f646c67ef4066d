package linker

import (
	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/types"
)

// StubResolver synthesizes a function matching the exact requested
// FunctionType whose body raises calledAbort when called, so a module that
// links against a missing host function still loads and only fails the
// first time the guest actually calls it (§4.4). It cannot stub a
// memory/table/global import the same way — there is no meaningful
// "abort on access" value for those kinds — so Resolve misses for every
// expected type other than KindFunction, leaving RootResolver's own miss
// path (reported through LinkModule's missing-imports list) as the only
// way those surface.
type StubResolver struct {
	compartment *compartment.Compartment
}

func NewStubResolver(c *compartment.Compartment) *StubResolver {
	return &StubResolver{compartment: c}
}

func (s *StubResolver) Resolve(moduleName, exportName string, expectedType types.ObjectType) (compartment.Object, bool) {
	if expectedType.Kind != types.KindFunction {
		return nil, false
	}

	Logger().Sugar().Infow("synthesized stub import",
		"module", moduleName, "export", exportName, "type", expectedType.Function.Key())

	entry := func(compartment.ContextRuntimeData, []byte) *types.Exception {
		return types.NewException(types.ExceptionCalledAbort,
			"call to unresolved import "+moduleName+"."+exportName)
	}
	debugName := moduleName + "." + exportName + " (stub)"
	fn := compartment.NewFunctionInstance(s.compartment.ID(), expectedType.Function, entry, compartment.CallingConventionWasm, debugName)
	return fn, true
}
