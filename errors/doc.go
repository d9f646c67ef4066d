// Package errors provides the structured error type shared by every
// runtime package.
//
// Errors are categorized by Phase (where in the runtime's pipeline the
// error occurred) and Kind (what went wrong). The Error type chains a
// Cause so callers can still recover the original error with errors.Unwrap.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRuntime, errors.KindTypeMismatch).
//		Detail("export %q is a %s, not a function", name, kind).
//		Build()
//
// Or use a convenience constructor for a common pattern:
//
//	err := errors.NotFound(errors.PhaseRuntime, "export", name)
//	err := errors.Wrap(errors.PhaseCompile, errors.KindInvalidInput, cause, "compile module")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
