// Package abi implements §6's ABI auto-detection rule: which host ABI a
// module expects, inferred from the shape of its import table rather than
// an explicit flag. The two concrete ABI shims themselves (abi/wasi,
// abi/emscripten) provide the minimal Resolver each forces once detected
// or selected with --abi; their syscall/runtime bodies are external
// collaborators per §1 and are intentionally thin.
package abi

import (
	"github.com/embervm/embervm/compiler"
	"github.com/embervm/embervm/types"
)

// Kind enumerates the three ABI modes §6 documents.
type Kind uint8

const (
	Bare Kind = iota
	Wasi
	Emscripten
)

func (k Kind) String() string {
	switch k {
	case Wasi:
		return "wasi"
	case Emscripten:
		return "emscripten"
	default:
		return "bare"
	}
}

// WasiModuleName is the system-interface import namespace §6 names as the
// detection trigger.
const WasiModuleName = "wasi_unstable"

// EmscriptenModuleName and EmscriptenMemoryImportName name the two conditions
// §6 requires together for Emscripten detection: a memory import named
// "env.memory" and at least one function import in module "env".
const (
	EmscriptenModuleName      = "env"
	EmscriptenMemoryImportName = "memory"
)

// Detect applies §6's three-way rule against ir's import table, in order:
// any wasi_unstable function import wins outright; otherwise an env.memory
// import alongside any other env function import selects Emscripten;
// otherwise Bare.
func Detect(ir *compiler.ModuleIR) Kind {
	hasEnvMemory := false
	hasEnvFunction := false

	for _, imp := range ir.Imports {
		if imp.Module == WasiModuleName && imp.Type.Kind == types.KindFunction {
			return Wasi
		}
		if imp.Module == EmscriptenModuleName {
			switch {
			case imp.Type.Kind == types.KindMemory && imp.Name == EmscriptenMemoryImportName:
				hasEnvMemory = true
			case imp.Type.Kind == types.KindFunction:
				hasEnvFunction = true
			}
		}
	}

	if hasEnvMemory && hasEnvFunction {
		return Emscripten
	}
	return Bare
}
