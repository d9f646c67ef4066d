package compartment

import (
	"sync"

	"github.com/embervm/embervm/types"
)

// MemoryInstance is a growable linear-memory region, exclusively owned by
// the compartment it lives in and referenced by module instances (§3,
// §4.3). It lives in the compartment's indexed vector for the compartment's
// lifetime.
type MemoryInstance struct {
	compartmentID CompartmentID
	id            MemoryID
	mType         types.MemoryType
	maxPages      uint32 // resolved ceiling: min(mType.MaxPages, compartment limit)

	mu   sync.Mutex
	data []byte // length is always a multiple of WasmPageSize
}

// CreateMemory reserves a MemoryInstance in the compartment's indexed
// vector and backs it with mType.MinPages worth of zeroed storage.
func CreateMemory(c *Compartment, mType types.MemoryType) *MemoryInstance {
	ceiling := c.limits.MaxMemoryPages
	if mType.MaxPages != nil && *mType.MaxPages < ceiling {
		ceiling = *mType.MaxPages
	}

	m := &MemoryInstance{
		compartmentID: c.id,
		mType:         mType,
		maxPages:      ceiling,
		data:          make([]byte, uint64(mType.MinPages)*WasmPageSize),
	}

	c.mu.Lock()
	m.id = MemoryID(len(c.memories))
	c.memories = append(c.memories, m)
	c.mu.Unlock()

	return m
}

// NumPages returns the memory's current size in pages.
func (m *MemoryInstance) NumPages() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint32(len(m.data) / WasmPageSize)
}

// GrowMemory returns the previous page count; if the new total would
// exceed the resolved page ceiling, it returns -1 and leaves the memory
// unchanged (§4.3).
func GrowMemory(m *MemoryInstance, deltaPages uint32) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	previous := uint32(len(m.data) / WasmPageSize)
	newTotal := uint64(previous) + uint64(deltaPages)
	if newTotal > uint64(m.maxPages) {
		return -1
	}

	grown := make([]byte, newTotal*WasmPageSize)
	copy(grown, m.data)
	m.data = grown
	return int64(previous)
}

// Bytes returns the memory's current backing slice. Callers must not hold
// onto it across a GrowMemory call, which may reallocate.
func (m *MemoryInstance) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

func (m *MemoryInstance) ID() MemoryID            { return m.id }
func (m *MemoryInstance) Type() types.MemoryType  { return m.mType }

// DescribedType implements types.Described. The reported type reflects the
// instance's *current* size as its Min, per WAVM's width-subtyping rule
// (an object satisfies a request if its current bounds are within the
// requested range).
func (m *MemoryInstance) DescribedType() types.ObjectType {
	return types.MemoryObjectType(types.MemoryType{MinPages: m.NumPages(), MaxPages: m.mType.MaxPages})
}

func (m *MemoryInstance) Kind() types.ObjectKind        { return types.KindMemory }
func (m *MemoryInstance) CompartmentID() CompartmentID { return m.compartmentID }
