// Package invoke implements §4.6's two call entry points:
// InvokeFunctionUnchecked and InvokeFunctionChecked. Both marshal a
// parameter tuple into a Context's thunk scratch region, call the target
// FunctionInstance's compiled entry point, and unmarshal its result tuple
// back out of the same bytes — the host-side half of the contract every
// compiler.Backend's NativeEntry is required to honor.
//
// Grounded on Runtime.cpp's invokeFunctionUnchecked/invokeFunctionChecked
// and the generic invoke thunk they dispatch through; this port has no JIT
// to generate a thunk for, so "thunk" here names the (offsets, size) layout
// plan computed once per (FunctionType, CallingConvention) pair and cached,
// mirroring the original's per-signature thunk memoization without
// reproducing its machine-code generation.
package invoke
