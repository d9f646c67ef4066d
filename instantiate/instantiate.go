package instantiate

import (
	"go.uber.org/multierr"

	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/compiler"
	"github.com/embervm/embervm/linker"
	"github.com/embervm/embervm/types"
)

// InstantiateModule binds resolved against ref's import table, creates
// storage for every declared memory/table/global, evaluates element and
// data segments, builds the exports map, and records the optional start
// function — the §4.5 algorithm, in its six numbered steps.
func InstantiateModule(c *compartment.Compartment, ref *compiler.ModuleRef, resolved *linker.ResolvedImports, debugName string) (*compartment.ModuleInstance, error) {
	ir := ref.IR

	// Step 1: resolvedImports must match the module's imports position by
	// position by type.
	spaces, err := buildImportedSpaces(c, ir, resolved)
	if err != nil {
		return nil, err
	}

	// Locally defined functions are bound to their compiled entries now, so
	// later steps (element segments, exports, start) can address the
	// combined function space uniformly.
	for i, decl := range ir.Functions {
		name := ""
		fn := compartment.NewFunctionInstance(c.ID(), decl.Type, ref.Entries[i], compartment.CallingConventionWasm, name)
		spaces.functions = append(spaces.functions, fn)
	}

	// Step 2: create storage for each declared memory, table, and global,
	// running their initialisers against the imports visible so far.
	for _, decl := range ir.Memories {
		spaces.memories = append(spaces.memories, compartment.CreateMemory(c, decl.Type))
	}
	for _, decl := range ir.Tables {
		spaces.tables = append(spaces.tables, compartment.CreateTable(c, decl.Type))
	}
	for _, decl := range ir.Globals {
		initial, err := evalInitExpr(decl.Init, spaces.globals)
		if err != nil {
			return nil, err
		}
		g, ok := compartment.CreateGlobal(c, decl.Type, initial)
		if !ok {
			return nil, instantiateError("global initializer type mismatch or global arena overflow")
		}
		spaces.globals = append(spaces.globals, g)
	}

	// Steps 3-4: evaluate element and data segments against the final
	// table/memory. Every failure is collected rather than short-circuited,
	// so a caller sees every out-of-bounds segment in one report; any
	// failure aborts instantiation without returning a ModuleInstance. The
	// compartment-owned tables/memories/globals created above are not
	// individually freed — this port's slab design never frees a single
	// slot outright, only the whole compartment — so a failed attempt
	// leaves them allocated but unreachable once this function returns an
	// error, the same "leak rather than corrupt" posture §4.1 takes for a
	// tryCollectCompartment failure.
	var errs error
	for _, seg := range ir.ElementSegments {
		if segErr := applyElementSegment(seg, spaces); segErr != nil {
			errs = multierr.Append(errs, segErr)
		}
	}
	for _, seg := range ir.DataSegments {
		if segErr := applyDataSegment(seg, spaces); segErr != nil {
			errs = multierr.Append(errs, segErr)
		}
	}
	if errs != nil {
		return nil, errs
	}

	// Step 5: build the exports map.
	exports := make(map[string]compartment.Object, len(ir.Exports))
	for _, exp := range ir.Exports {
		obj := spaces.object(exp.Kind, exp.Index)
		if obj == nil {
			return nil, instantiateError("export %q indexes a nonexistent %s", exp.Name, exp.Kind)
		}
		exports[exp.Name] = obj
	}

	// Step 6: record (not invoke) the optional start function.
	var start *compartment.FunctionInstance
	if ir.Start != nil {
		if int(*ir.Start) >= len(spaces.functions) {
			return nil, instantiateError("start function index %d out of range", *ir.Start)
		}
		start = spaces.functions[*ir.Start]
	}

	imports := make([]compartment.Object, len(resolved.Objects))
	copy(imports, resolved.Objects)

	return compartment.NewModuleInstance(c, debugName, imports, exports, start), nil
}

func evalInitExpr(expr compiler.InitExpr, globals []*compartment.GlobalInstance) (types.Value, error) {
	switch expr.Kind {
	case compiler.InitExprConst:
		return expr.Const, nil
	case compiler.InitExprGlobalGet:
		if int(expr.GlobalIndex) >= len(globals) {
			return types.Value{}, instantiateError("global.get index %d out of range", expr.GlobalIndex)
		}
		g := globals[expr.GlobalIndex]
		if g.Type().Mutable {
			return types.Value{}, instantiateError("global.get in an init expression must reference an immutable global")
		}
		return compartment.GetGlobalValue(nil, g), nil
	default:
		return types.Value{}, instantiateError("unknown init expression kind %d", expr.Kind)
	}
}

func applyElementSegment(seg compiler.ElementSegment, spaces combinedSpaces) error {
	if int(seg.TableIndex) >= len(spaces.tables) {
		return instantiateError("element segment references nonexistent table %d", seg.TableIndex)
	}
	table := spaces.tables[seg.TableIndex]

	offsetValue, err := evalInitExpr(seg.Offset, spaces.globals)
	if err != nil {
		return err
	}
	offset := uint32(offsetValue.Untagged.I32())

	for i, funcIdx := range seg.FuncIndices {
		if int(funcIdx) >= len(spaces.functions) {
			return instantiateError("element segment function index %d out of range", funcIdx)
		}
		fn := spaces.functions[funcIdx]
		index := offset + uint32(i)
		element := compartment.TableElement{FuncType: fn.Type(), Entry: fn.Entry()}
		if !compartment.TableSet(table, index, element) {
			return instantiateError("element segment index %d out of bounds for table %d", index, seg.TableIndex)
		}
	}
	return nil
}

func applyDataSegment(seg compiler.DataSegment, spaces combinedSpaces) error {
	if int(seg.MemoryIndex) >= len(spaces.memories) {
		return instantiateError("data segment references nonexistent memory %d", seg.MemoryIndex)
	}
	memory := spaces.memories[seg.MemoryIndex]

	offsetValue, err := evalInitExpr(seg.Offset, spaces.globals)
	if err != nil {
		return err
	}
	offset := uint32(offsetValue.Untagged.I32())

	bytes := memory.Bytes()
	if uint64(offset)+uint64(len(seg.Bytes)) > uint64(len(bytes)) {
		return instantiateError("data segment at offset %d (length %d) out of bounds for memory %d", offset, len(seg.Bytes), seg.MemoryIndex)
	}
	copy(bytes[offset:], seg.Bytes)
	return nil
}
