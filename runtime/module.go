package runtime

import (
	"github.com/embervm/embervm/compiler"
	"github.com/embervm/embervm/errors"
	"github.com/embervm/embervm/instantiate"
	"github.com/embervm/embervm/linker"
)

// Module is a compiled artifact bound to a Runtime: compiler.Backend's
// output, not yet linked or instantiated. The same Module may be
// Instantiate()d any number of times, each producing an independent
// Instance inside the Runtime's compartment (§4.5).
type Module struct {
	runtime   *Runtime
	ref       *compiler.ModuleRef
	debugName string
}

// LoadModule compiles ir via backend and binds the result to r (§2
// compileModule). debugName is carried through to every ModuleInstance
// this Module later produces.
func (r *Runtime) LoadModule(ir *compiler.ModuleIR, backend compiler.Backend, debugName string) (*Module, error) {
	ref, err := backend.CompileModule(ir)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCompile, errors.KindInvalidInput, err, "compile module")
	}
	return &Module{runtime: r, ref: ref, debugName: debugName}, nil
}

// Instantiate links m's imports against resolver and instantiates the
// result inside the Runtime's compartment (§4.4, §4.5). A resolver miss
// aborts instantiation; the returned error wraps LinkModule's
// multierr-combined missing-import list, so every miss is visible in one
// report rather than only the first.
func (m *Module) Instantiate(resolver linker.Resolver) (*Instance, error) {
	resolved, err := linker.LinkModule(m.ref.IR, resolver)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLinking, errors.KindMissingImport, err, "link module "+m.debugName)
	}

	mi, err := instantiate.InstantiateModule(m.runtime.compartment, m.ref, resolved, m.debugName)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInstantiation, err, "instantiate module "+m.debugName)
	}

	return &Instance{module: m, moduleInstance: mi}, nil
}

// DebugName returns the name this Module's Instances are created with.
func (m *Module) DebugName() string { return m.debugName }

// IR returns the validated module description this Module was compiled
// from, for callers that need to inspect its import/export tables (e.g.
// abi.Detect).
func (m *Module) IR() *compiler.ModuleIR { return m.ref.IR }
