package compartment

import (
	"sync"

	"github.com/embervm/embervm/types"
)

// TableElement is a single cell of a TableInstance. It stores both the
// function's type (for the indirect-call signature check in §4.7) and the
// native entry pointer; a nil Entry represents a null/uninitialized slot,
// which indirect calls must trap on as undefinedTableElement rather than
// indirectCallSignatureMismatch.
type TableElement struct {
	FuncType types.FunctionType
	Entry    NativeEntry
}

// TableInstance is a growable vector of TableElement, exclusively owned by
// the compartment it lives in (§3, §4.3).
type TableInstance struct {
	compartmentID CompartmentID
	id            TableID
	tType         types.TableType
	maxElements   uint32

	mu       sync.Mutex
	elements []TableElement
}

// CreateTable reserves a TableInstance in the compartment's indexed vector.
func CreateTable(c *Compartment, tType types.TableType) *TableInstance {
	ceiling := c.limits.MaxTableElements
	if tType.Max != nil && *tType.Max < ceiling {
		ceiling = *tType.Max
	}

	t := &TableInstance{
		compartmentID: c.id,
		tType:         tType,
		maxElements:   ceiling,
		elements:      make([]TableElement, tType.Min),
	}

	c.mu.Lock()
	t.id = TableID(len(c.tables))
	c.tables = append(c.tables, t)
	c.mu.Unlock()

	return t
}

// GrowTable returns the previous element count, or -1 if growth would
// exceed the resolved element ceiling, following the same contract as
// GrowMemory.
func GrowTable(t *TableInstance, delta uint32) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	previous := uint32(len(t.elements))
	newTotal := uint64(previous) + uint64(delta)
	if newTotal > uint64(t.maxElements) {
		return -1
	}
	grown := make([]TableElement, newTotal)
	copy(grown, t.elements)
	t.elements = grown
	return int64(previous)
}

// TableGet returns the element at index, or (TableElement{}, false) if
// index is out of bounds.
func TableGet(t *TableInstance, index uint32) (TableElement, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index >= uint32(len(t.elements)) {
		return TableElement{}, false
	}
	return t.elements[index], true
}

// TableSet writes the element at index, returning false if index is out of
// bounds.
func TableSet(t *TableInstance, index uint32, el TableElement) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index >= uint32(len(t.elements)) {
		return false
	}
	t.elements[index] = el
	return true
}

// NumElements returns the table's current length.
func (t *TableInstance) NumElements() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return uint32(len(t.elements))
}

func (t *TableInstance) ID() TableID          { return t.id }
func (t *TableInstance) Type() types.TableType { return t.tType }

// DescribedType implements types.Described, reporting the instance's
// current size as Min (see MemoryInstance.DescribedType for the rationale).
func (t *TableInstance) DescribedType() types.ObjectType {
	return types.TableObjectType(types.TableType{Element: t.tType.Element, Min: t.NumElements(), Max: t.tType.Max})
}

func (t *TableInstance) Kind() types.ObjectKind        { return types.KindTable }
func (t *TableInstance) CompartmentID() CompartmentID { return t.compartmentID }
