package compartment

import (
	"github.com/embervm/embervm/types"
)

// GlobalInstance is a typed storage cell for a WebAssembly global (§4.3).
// Immutable globals hold their value inline; mutable globals reserve a
// naturally aligned byte offset into every context's global-data page.
type GlobalInstance struct {
	compartment *Compartment // nil for immutable globals created without one
	compartmentID CompartmentID
	gType types.GlobalType

	// immutableValue is used only when !gType.Mutable.
	immutableValue types.UntaggedValue

	// mutableDataOffset is the naturally aligned byte offset into every
	// context's global-data page; meaningful only when gType.Mutable.
	mutableDataOffset uint32
}

// CreateGlobal creates a GlobalInstance. Immutable globals may be created
// with a nil compartment, storing their value in the instance itself.
// Mutable globals bump-allocate within the compartment's global-data arena
// with alignment equal to the value type's width; it returns (nil, false)
// if the arena would overflow maxGlobalBytes (§4.3).
func CreateGlobal(c *Compartment, gType types.GlobalType, initial types.Value) (*GlobalInstance, bool) {
	if initial.Type != gType.ValType {
		return nil, false
	}
	if !gType.Mutable {
		g := &GlobalInstance{gType: gType, immutableValue: initial.Untagged}
		if c != nil {
			g.compartment = c
			g.compartmentID = c.id
		}
		return g, true
	}
	if c == nil {
		return nil, false
	}

	width := gType.ValType.ByteWidth()
	c.mu.Lock()
	defer c.mu.Unlock()

	offset := alignUp(c.numGlobalBytes, width)
	if uint64(offset)+uint64(width) > uint64(c.limits.MaxGlobalBytes) {
		return nil, false
	}
	c.numGlobalBytes = offset + width

	copy(c.initialContextGlobalData[offset:offset+width], initial.Untagged.Bytes(width))
	for _, ctx := range c.contexts {
		if ctx != nil {
			copy(ctx.globalData[offset:offset+width], initial.Untagged.Bytes(width))
		}
	}

	return &GlobalInstance{
		compartment:       c,
		compartmentID:     c.id,
		gType:             gType,
		mutableDataOffset: offset,
	}, true
}

func alignUp(v, align uint32) uint32 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// GetGlobalValue reads the immutable field or ctx.globalData[offset].
func GetGlobalValue(ctx *Context, g *GlobalInstance) types.Value {
	if !g.gType.Mutable {
		return types.Value{Type: g.gType.ValType, Untagged: g.immutableValue}
	}
	width := g.gType.ValType.ByteWidth()
	var u types.UntaggedValue
	copy(u[:], ctx.globalData[g.mutableDataOffset:g.mutableDataOffset+width])
	return types.Value{Type: g.gType.ValType, Untagged: u}
}

// SetGlobalValue requires the global be mutable and v.Type ==
// g.ValueType; it returns the previous value. The host-side swap is
// non-atomic, matching §4.3: concurrent wasm writes to the same global from
// two contexts in the same compartment are undefined at the language level.
func SetGlobalValue(ctx *Context, g *GlobalInstance, v types.Value) (types.Value, bool) {
	if !g.gType.Mutable || v.Type != g.gType.ValType {
		return types.Value{}, false
	}
	width := g.gType.ValType.ByteWidth()
	prev := GetGlobalValue(ctx, g)
	copy(ctx.globalData[g.mutableDataOffset:g.mutableDataOffset+width], v.Untagged.Bytes(width))
	return prev, true
}

// Type returns the global's declared type.
func (g *GlobalInstance) Type() types.GlobalType { return g.gType }

// DescribedType implements types.Described.
func (g *GlobalInstance) DescribedType() types.ObjectType { return types.GlobalObjectType(g.gType) }

// Kind implements Object.
func (g *GlobalInstance) Kind() types.ObjectKind { return types.KindGlobal }

// CompartmentID implements Object.
func (g *GlobalInstance) CompartmentID() CompartmentID { return g.compartmentID }
