package instantiate

import (
	"testing"

	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/compiler"
	"github.com/embervm/embervm/compiler/refbackend"
	"github.com/embervm/embervm/linker"
	"github.com/embervm/embervm/types"
)

func compileAndLink(t *testing.T, ir *compiler.ModuleIR, resolver linker.Resolver) (*compiler.ModuleRef, *linker.ResolvedImports) {
	t.Helper()
	ref, err := refbackend.Backend{}.CompileModule(ir)
	if err != nil {
		t.Fatalf("CompileModule: %v", err)
	}
	resolved, err := linker.LinkModule(ir, resolver)
	if err != nil {
		t.Fatalf("LinkModule: %v", err)
	}
	return ref, resolved
}

func TestInstantiateBareAddModule(t *testing.T) {
	addType := types.FunctionType{Params: []types.ValueType{types.I32, types.I32}, Results: []types.ValueType{types.I32}}
	ir := &compiler.ModuleIR{
		Functions: []compiler.FunctionDecl{{
			Type: addType,
			Body: func(_ compartment.ContextRuntimeData, args []types.Value) ([]types.Value, *types.Exception) {
				return []types.Value{types.NewI32(args[0].Untagged.I32() + args[1].Untagged.I32())}, nil
			},
		}},
		Exports: []compiler.ExportDecl{{Name: "add", Kind: types.KindFunction, Index: 0}},
	}

	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	ref, resolved := compileAndLink(t, ir, linker.NullResolver{})

	inst, err := InstantiateModule(c, ref, resolved, "add-module")
	if err != nil {
		t.Fatalf("InstantiateModule: %v", err)
	}
	exp := compartment.GetInstanceExport(inst, "add")
	if exp == nil {
		t.Fatal("expected export \"add\"")
	}
	if exp.(*compartment.FunctionInstance).Type().Key() != addType.Key() {
		t.Fatal("exported function type mismatch")
	}
}

func TestInstantiateRunsDataSegment(t *testing.T) {
	ir := &compiler.ModuleIR{
		Memories: []compiler.MemoryDecl{{Type: types.MemoryType{MinPages: 1}}},
		DataSegments: []compiler.DataSegment{{
			MemoryIndex: 0,
			Offset:      compiler.InitExpr{Kind: compiler.InitExprConst, Const: types.NewI32(0)},
			Bytes:       []byte("hi"),
		}},
		Exports: []compiler.ExportDecl{{Name: "memory", Kind: types.KindMemory, Index: 0}},
	}

	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	ref, resolved := compileAndLink(t, ir, linker.NullResolver{})

	inst, err := InstantiateModule(c, ref, resolved, "data-module")
	if err != nil {
		t.Fatalf("InstantiateModule: %v", err)
	}
	mem := compartment.GetInstanceExport(inst, "memory").(*compartment.MemoryInstance)
	if string(mem.Bytes()[0:2]) != "hi" {
		t.Fatalf("data segment did not write expected bytes, got %q", mem.Bytes()[0:2])
	}
}

func TestInstantiateRejectsOutOfBoundsDataSegment(t *testing.T) {
	ir := &compiler.ModuleIR{
		Memories: []compiler.MemoryDecl{{Type: types.MemoryType{MinPages: 1}}},
		DataSegments: []compiler.DataSegment{{
			MemoryIndex: 0,
			Offset:      compiler.InitExpr{Kind: compiler.InitExprConst, Const: types.NewI32(int32(compartment.WasmPageSize - 1))},
			Bytes:       []byte("too long"),
		}},
	}
	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	ref, resolved := compileAndLink(t, ir, linker.NullResolver{})

	if _, err := InstantiateModule(c, ref, resolved, "oob-module"); err == nil {
		t.Fatal("expected an out-of-bounds data segment error")
	}
}

func TestInstantiateRejectsMissingRequiredImport(t *testing.T) {
	ir := &compiler.ModuleIR{
		Imports: []compiler.ImportDecl{
			{Module: "env", Name: "external", Type: types.FunctionObjectType(types.FunctionType{})},
		},
	}
	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	ref, err := refbackend.Backend{}.CompileModule(ir)
	if err != nil {
		t.Fatalf("CompileModule: %v", err)
	}
	resolved, linkErr := linker.LinkModule(ir, linker.NullResolver{})
	if linkErr == nil {
		t.Fatal("expected LinkModule to report the missing import")
	}
	if _, err := InstantiateModule(c, ref, resolved, "missing-import-module"); err == nil {
		t.Fatal("expected InstantiateModule to reject an unresolved import slot")
	}
}

func TestInstantiateElementSegmentWiresIndirectCall(t *testing.T) {
	fnType := types.FunctionType{Results: []types.ValueType{types.I32}}
	ir := &compiler.ModuleIR{
		Functions: []compiler.FunctionDecl{{
			Type: fnType,
			Body: func(_ compartment.ContextRuntimeData, _ []types.Value) ([]types.Value, *types.Exception) {
				return []types.Value{types.NewI32(42)}, nil
			},
		}},
		Tables: []compiler.TableDecl{{Type: types.TableType{Element: types.FuncRef, Min: 1}}},
		ElementSegments: []compiler.ElementSegment{{
			TableIndex:  0,
			Offset:      compiler.InitExpr{Kind: compiler.InitExprConst, Const: types.NewI32(0)},
			FuncIndices: []uint32{0},
		}},
		Exports: []compiler.ExportDecl{{Name: "table", Kind: types.KindTable, Index: 0}},
	}
	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	ref, resolved := compileAndLink(t, ir, linker.NullResolver{})

	inst, err := InstantiateModule(c, ref, resolved, "elem-module")
	if err != nil {
		t.Fatalf("InstantiateModule: %v", err)
	}
	table := compartment.GetInstanceExport(inst, "table").(*compartment.TableInstance)
	el, ok := compartment.TableGet(table, 0)
	if !ok || el.Entry == nil {
		t.Fatal("expected table slot 0 to hold the local function's entry")
	}
	if exc := el.Entry(compartment.ContextRuntimeData{}, make([]byte, 16)); exc != nil {
		t.Fatalf("unexpected exception: %v", exc)
	}
}
