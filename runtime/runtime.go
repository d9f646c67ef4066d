package runtime

import (
	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/errors"
	"github.com/embervm/embervm/trap"
)

// Runtime owns one compartment and the modules loaded into it. A host
// typically creates one Runtime per isolation boundary it wants to
// enforce (§4.1): every Module a Runtime loads is instantiated inside the
// same compartment, so their objects may freely reference one another, but
// objects from a different Runtime's compartment can never satisfy an
// import here (§3 invariant 6, enforced by instantiate.InstantiateModule).
type Runtime struct {
	compartment *compartment.Compartment
}

// New creates a Runtime backed by a fresh compartment seeded with the
// standard intrinsics module (§4.1, §4.7).
func New(limits compartment.Limits) (*Runtime, error) {
	c, err := compartment.CreateCompartment(limits, trap.NewIntrinsicsModule)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInstantiation, err, "create compartment")
	}
	return &Runtime{compartment: c}, nil
}

// Compartment returns the Runtime's backing compartment, for callers that
// need to build a compartment.Context or a linker.Resolver bound to it.
func (r *Runtime) Compartment() *compartment.Compartment {
	return r.compartment
}

// Close attempts to retire the Runtime's compartment (§3 "Resource
// lifetime"). It returns false, without error, if any Context or
// ModuleInstance created against this Runtime is still open — a host
// should close every Instance it created before calling Close.
func (r *Runtime) Close() bool {
	collected := compartment.TryCollectCompartment(r.compartment)
	if !collected {
		Logger().Sugar().Warnw("compartment not collected: instances or contexts still live",
			"compartment", r.compartment.ID())
	}
	return collected
}
