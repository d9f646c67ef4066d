package runtime

import (
	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/errors"
	"github.com/embervm/embervm/invoke"
	"github.com/embervm/embervm/types"
)

// Instance is one instantiation of a Module (§4.5). An Instance's exports
// are called through a caller-supplied *compartment.Context, not a context
// owned by the Instance itself, since one Context may drive calls into
// several Instances sharing a compartment and §5 requires each Context be
// driven by one goroutine at a time, not each Instance.
type Instance struct {
	module         *Module
	moduleInstance *compartment.ModuleInstance
}

// Export looks up name among the Instance's exports without invoking it.
func (i *Instance) Export(name string) (compartment.Object, bool) {
	obj := compartment.GetInstanceExport(i.moduleInstance, name)
	if obj == nil {
		return nil, false
	}
	return obj, true
}

// Invoke calls the exported function named name with args, type-checking
// args against the export's declared signature before dispatch (§4.6
// InvokeFunctionChecked). The ctx argument is the caller's execution
// cursor, not owned by this Instance.
func (i *Instance) Invoke(ctx *compartment.Context, name string, args []types.Value) ([]types.Value, error) {
	obj, ok := i.Export(name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseRuntime, "export", name)
	}
	fn, ok := obj.(*compartment.FunctionInstance)
	if !ok {
		return nil, errors.New(errors.PhaseRuntime, errors.KindTypeMismatch).
			Detail("export %q is a %s, not a function", name, obj.Kind()).Build()
	}

	results, exc := invoke.InvokeFunctionChecked(ctx, fn, args)
	if exc != nil {
		return nil, exc
	}
	return results, nil
}

// Start invokes the module's declared start function, if any, recorded by
// §4.5 step 6. It is a no-op returning (nil, nil) for a module with none.
func (i *Instance) Start(ctx *compartment.Context) ([]types.Value, error) {
	start := i.moduleInstance.Start()
	if start == nil {
		return nil, nil
	}
	results, exc := invoke.InvokeFunctionUnchecked(ctx, start, nil)
	if exc != nil {
		return nil, exc
	}
	return results, nil
}

// Close releases this Instance's reference on its compartment (§3
// "Resource lifetime"), making way for a later Runtime.Close to collect
// the compartment once every other outstanding reference is also gone.
func (i *Instance) Close() {
	compartment.ReleaseModuleInstance(i.moduleInstance)
}
