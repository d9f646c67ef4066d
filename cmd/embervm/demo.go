package main

import (
	"github.com/embervm/embervm/abi"
	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/compiler"
	"github.com/embervm/embervm/types"
)

// demoProgram is a built-in stand-in for a decoded module (§1 non-goal: the
// real WASM binary/text decoder is an external collaborator). Each one is
// hand-built IR exercising one of §8's end-to-end scenarios, keyed by the
// name a caller would otherwise pass a real module file under.
type demoProgram struct {
	ir           *compiler.ModuleIR
	defaultEntry string
}

func demoPrograms() map[string]demoProgram {
	return map[string]demoProgram{
		// S1: bare add, exit code is the result.
		"add": {
			ir: &compiler.ModuleIR{
				Functions: []compiler.FunctionDecl{{
					Type: types.FunctionType{Params: []types.ValueType{types.I32, types.I32}, Results: []types.ValueType{types.I32}},
					Body: func(_ compartment.ContextRuntimeData, args []types.Value) ([]types.Value, *types.Exception) {
						return []types.Value{types.NewI32(args[0].Untagged.I32() + args[1].Untagged.I32())}, nil
					},
				}},
				Exports: []compiler.ExportDecl{{Name: "add", Kind: types.KindFunction, Index: 0}},
			},
			defaultEntry: "add",
		},
		// S2: bare trap, a/b with b == 0 raises a runtime exception.
		"div": {
			ir: &compiler.ModuleIR{
				Functions: []compiler.FunctionDecl{{
					Type: types.FunctionType{Params: []types.ValueType{types.I32, types.I32}, Results: []types.ValueType{types.I32}},
					Body: func(_ compartment.ContextRuntimeData, args []types.Value) ([]types.Value, *types.Exception) {
						b := args[1].Untagged.I32()
						if b == 0 {
							return nil, types.NewException(types.ExceptionIntegerDivideByZeroOrOverflow, "integer divide by zero or integer overflow")
						}
						return []types.Value{types.NewI32(args[0].Untagged.I32() / b)}, nil
					},
				}},
				Exports: []compiler.ExportDecl{{Name: "div", Kind: types.KindFunction, Index: 0}},
			},
			defaultEntry: "div",
		},
		// S4: bare module importing an export no resolver supplies.
		"needs-import": {
			ir: &compiler.ModuleIR{
				Imports: []compiler.ImportDecl{{
					Module: abi.EmscriptenModuleName,
					Name:   "external",
					Type:   types.FunctionObjectType(types.FunctionType{Params: []types.ValueType{types.I32}}),
				}},
			},
			defaultEntry: "",
		},
	}
}
