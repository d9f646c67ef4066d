package compartment

import "github.com/embervm/embervm/types"

// ContextID, TableID, and MemoryID are dense, stable indices into a
// Compartment's per-kind slab vectors (§3 "Entities and ownership").
type (
	ContextID uint32
	TableID   uint32
	MemoryID  uint32
)

// CompartmentID uniquely identifies a Compartment for the lifetime of the
// process. Object.CompartmentID lets callers cheaply enforce §3 invariants 1
// and 6 (no object or import crosses a compartment boundary) without
// chasing pointers.
type CompartmentID uint64

// Object is implemented by every value a Compartment can own: functions,
// globals, tables, memories, exception types, module instances, and the
// Compartment and Context themselves (§3: "Object kinds").
type Object interface {
	Kind() types.ObjectKind
	CompartmentID() CompartmentID
}

// sameCompartment reports whether every object in objs belongs to
// compartment c, enforcing §3 invariant 6 before it can be violated.
func sameCompartment(c *Compartment, objs ...Object) bool {
	for _, o := range objs {
		if o == nil {
			continue
		}
		if o.CompartmentID() != c.id {
			return false
		}
	}
	return true
}
