// Package types defines the value-type and object-type model shared by every
// other package in this module: the closed enumeration of WebAssembly value
// types, the tagged/untagged value representations used to cross the
// host/guest boundary, and the typed descriptors (FunctionType, GlobalType,
// TableType, MemoryType, ExceptionType) together with the subtyping rules
// that the linker and instantiation path use to decide whether one object
// may stand in for another.
//
// Nothing in this package depends on compartment, linker, or invoke — it is
// the leaf of the dependency graph, the same role wasm/types.go plays for
// the teacher's Component Model packages.
package types
