package compartment

import (
	"sync"
	"sync/atomic"

	"github.com/embervm/embervm/errors"
	"github.com/embervm/embervm/types"
)

var nextCompartmentID atomic.Uint64

// IntrinsicsFactory instantiates the per-compartment intrinsics module
// (§4.7's "Intrinsic module") into a freshly created Compartment. The core
// does not know how to build that module itself — it is supplied by the
// trap package, which depends on compartment, not the other way around;
// wiring it this way (a caller-supplied factory rather than a compartment
// -> trap import) avoids an import cycle.
type IntrinsicsFactory func(*Compartment) (*ModuleInstance, error)

// Compartment is an isolated WebAssembly execution domain (§4.1). It
// exclusively owns every live object reachable from it: contexts, tables,
// memories, the mutable-global arena, and the pre-instantiated intrinsics
// module.
type Compartment struct {
	id     CompartmentID
	limits Limits

	mu sync.Mutex

	contexts []*Context // index == ContextID; nulled (not compacted) on destroy
	tables   []*TableInstance
	memories []*MemoryInstance

	// initialContextGlobalData is the byte-buffer new contexts seed their
	// global-data page from (§4.2).
	initialContextGlobalData []byte
	numGlobalBytes           uint32

	intrinsics *ModuleInstance

	// liveRefs counts outstanding Contexts and ModuleInstances (excluding
	// the intrinsics module, which is owned internally and does not block
	// collection). TryCollectCompartment succeeds only when this is zero.
	liveRefs atomic.Int32
}

// CreateCompartment reserves the compartment's header state and
// instantiates the intrinsics module into it. It fails only when the
// supplied IntrinsicsFactory fails — the WAVM original's analogous failure
// mode is virtual-memory exhaustion when reserving the compartment region;
// since this port backs storage with Go slices (see package doc), the only
// realistic failure left is intrinsics installation.
func CreateCompartment(limits Limits, intrinsics IntrinsicsFactory) (*Compartment, error) {
	resolved := limits.withDefaults()
	c := &Compartment{
		id:                       CompartmentID(nextCompartmentID.Add(1)),
		limits:                   resolved,
		initialContextGlobalData: make([]byte, resolved.MaxGlobalBytes),
	}

	registerCompartment(c)

	if intrinsics != nil {
		mod, err := intrinsics(c)
		if err != nil {
			unregisterCompartment(c.id)
			return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInstantiation, err, "instantiate intrinsics module")
		}
		c.intrinsics = mod
		// NewModuleInstance took a ref on c as it would for any module
		// instance; the intrinsics module is owned internally by c and must
		// not itself keep c alive, so cancel that ref back out immediately.
		c.releaseRef()
	}

	Logger().Sugar().Debugw("created compartment", "id", c.id)
	return c, nil
}

// ID returns the compartment's process-unique identity.
func (c *Compartment) ID() CompartmentID { return c.id }

// Limits returns the resource ceilings this compartment enforces.
func (c *Compartment) Limits() Limits { return c.limits }

// Intrinsics returns the pre-instantiated intrinsics module, or nil if the
// compartment was created without an IntrinsicsFactory.
func (c *Compartment) Intrinsics() *ModuleInstance { return c.intrinsics }

// Kind implements Object.
func (c *Compartment) Kind() types.ObjectKind { return types.KindCompartment }

// CompartmentID implements Object.
func (c *Compartment) CompartmentID() CompartmentID { return c.id }

// TryCollectCompartment attempts to retire the compartment; it succeeds iff
// no outstanding Context or ModuleInstance references remain. On failure
// the compartment is left exactly as it was — per §4.1 this is a
// programmer error the caller must treat as such, not a retryable
// condition the core resolves for them.
func TryCollectCompartment(c *Compartment) bool {
	if c.liveRefs.Load() != 0 {
		return false
	}
	c.mu.Lock()
	c.contexts = nil
	c.tables = nil
	c.memories = nil
	c.initialContextGlobalData = nil
	c.mu.Unlock()
	unregisterCompartment(c.id)
	return true
}

func (c *Compartment) addRef()      { c.liveRefs.Add(1) }
func (c *Compartment) releaseRef()  { c.liveRefs.Add(-1) }
