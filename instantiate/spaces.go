package instantiate

import (
	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/compiler"
	"github.com/embervm/embervm/linker"
	"github.com/embervm/embervm/types"
)

// combinedSpaces holds the per-kind index spaces (imports in declaration
// order, then locally defined objects in declaration order) that element
// segments, data segments, exports, and the start-function index are all
// addressed against, mirroring the way a real wasm binary's import and
// definition sections interleave into one index space per entity kind.
type combinedSpaces struct {
	functions []*compartment.FunctionInstance
	globals   []*compartment.GlobalInstance
	tables    []*compartment.TableInstance
	memories  []*compartment.MemoryInstance
}

// buildImportedSpaces walks ir.Imports once, sorting each resolved object
// into its kind's slice by encounter order.
func buildImportedSpaces(c *compartment.Compartment, ir *compiler.ModuleIR, resolved *linker.ResolvedImports) (combinedSpaces, error) {
	var spaces combinedSpaces
	for i, imp := range ir.Imports {
		obj := resolved.Objects[i]
		if obj == nil {
			return spaces, instantiateError("import %s.%s was not resolved", imp.Module, imp.Name)
		}
		if obj.CompartmentID() != c.ID() {
			return spaces, instantiateError("import %s.%s resolved to an object from a different compartment", imp.Module, imp.Name)
		}
		described, ok := obj.(types.Described)
		if !ok {
			return spaces, instantiateError("import %s.%s resolved to a non-describable object kind", imp.Module, imp.Name)
		}
		if !types.IsA(described.DescribedType(), imp.Type) {
			return spaces, instantiateError("import %s.%s does not satisfy its declared type", imp.Module, imp.Name)
		}

		switch imp.Type.Kind {
		case types.KindFunction:
			spaces.functions = append(spaces.functions, obj.(*compartment.FunctionInstance))
		case types.KindGlobal:
			spaces.globals = append(spaces.globals, obj.(*compartment.GlobalInstance))
		case types.KindTable:
			spaces.tables = append(spaces.tables, obj.(*compartment.TableInstance))
		case types.KindMemory:
			spaces.memories = append(spaces.memories, obj.(*compartment.MemoryInstance))
		}
	}
	return spaces, nil
}

func (s combinedSpaces) object(kind types.ObjectKind, index uint32) compartment.Object {
	switch kind {
	case types.KindFunction:
		if int(index) >= len(s.functions) {
			return nil
		}
		return s.functions[index]
	case types.KindGlobal:
		if int(index) >= len(s.globals) {
			return nil
		}
		return s.globals[index]
	case types.KindTable:
		if int(index) >= len(s.tables) {
			return nil
		}
		return s.tables[index]
	case types.KindMemory:
		if int(index) >= len(s.memories) {
			return nil
		}
		return s.memories[index]
	default:
		return nil
	}
}
