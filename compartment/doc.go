// Package compartment implements the isolated execution domain described in
// §4.1-§4.3: the Compartment that exclusively owns every live object plus
// the shared global-data arena, the per-thread Context that carries mutable
// global storage and the thunk argument/return scratch region, and the
// typed storage cells (GlobalInstance, MemoryInstance, TableInstance,
// FunctionInstance, ModuleInstance) that live inside a Compartment.
//
// # Reserved-region simplification
//
// The design this package implements reserves a fixed virtual-address range
// per compartment so JIT'd code can address memories/tables/globals at
// small fixed offsets from one base register. This repository never emits
// machine code itself (see package compiler) — compiled function bodies are
// opaque Go closures supplied by a compiler.Backend — so there is no JIT
// base-register addressing to optimize for. Compartment backs its
// per-context page and global-data arena with plain mutex-guarded Go
// slices instead of a raw mmap'd reservation. The size ceilings and the
// context-id stability invariant are preserved exactly; only the backing
// storage mechanism differs. See DESIGN.md, Open Question: reserved region.
//
// # Thread safety
//
// Compartment is safe for concurrent use; its mutex guards context
// creation/destruction, table/memory vectors, and global-byte allocation,
// matching §5. Context is owned by exactly one goroutine at a time by
// convention, never enforced at the type level, matching the "contexts are
// not threads" rule in §4.2.
package compartment
