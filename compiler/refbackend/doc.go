// Package refbackend is a reference compiler.Backend used by this
// repository's own tests and by cmd/embervm: it does not decode WebAssembly
// or emit machine code, it compiles a compiler.ModuleIR by wrapping each
// compiler.NativeBody in the exact argument/return thunk-scratch marshalling
// (§4.6) a real backend's generated code would also have to perform, so
// anything exercised against it exercises the real invoke-path contract
// rather than a shortcut.
package refbackend
