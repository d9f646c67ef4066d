// Package wasi is a minimal stand-in for the system-interface ABI shim
// (§1 non-goal: ABI shim bodies are external collaborators). It implements
// just enough of WASI preview1's import surface — fd_write, proc_exit, and
// a root-sandboxed path_open stub — to drive this repository's own S3/S6
// scenarios at the linker.Resolver level; it is not a general-purpose WASI
// host.
package wasi
