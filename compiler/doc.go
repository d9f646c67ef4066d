// Package compiler defines the boundary between the runtime core and the
// external collaborator that turns a validated module IR into callable
// native code (§1, §4.8): a decoder/text-parser producing ModuleIR, and a
// machine-code generator implementing Backend, are both out of scope here.
// What this package owns is the shape of that boundary: ModuleIR (the
// validated input a backend consumes), ModuleRef (the compiled artifact a
// backend produces), and the Backend interface itself.
//
// Subpackage refbackend supplies a reference Backend used by this repository's
// own tests and by cmd/embervm's minimal driver: it adapts already-written Go
// closures into compartment.NativeEntry values using the exact thunk-scratch
// marshalling a real JIT-emitting backend would also have to respect, so code
// exercised against it exercises the real invoke-path contract.
package compiler
