// Package trap implements the intrinsics module every compartment is
// instantiated with (§4.7): the eight named traps that lift a compiled
// entry's failure into a *types.Exception, plus the floating-point helper
// intrinsics (f32.min/f64.min/.../nearest) whose IEEE-754 NaN-quieting and
// signed-zero tie-breaking the runtime itself (not the compiler backend)
// is responsible for getting right.
//
// The intrinsics themselves are never called directly by Go code (unlike
// CatchRuntimeExceptions, which hosts call at the top of a command); they
// are bound as compartment.NativeEntry values and reached only through
// the table of exported intrinsic objects built by NewIntrinsicsModule,
// which is passed to compartment.CreateCompartment as an
// compartment.IntrinsicsFactory.
package trap
