package trap

import (
	"fmt"

	"github.com/embervm/embervm/types"
)

// CatchRuntimeExceptions runs fn and dispatches its returned exception (if
// any) to onException, mirroring Runtime::catchRuntimeExceptions's role in
// wavm-run.cpp: callers use it once at the top of a command so every
// exception a compiled entry's call chain raises — trap, host exit, or
// otherwise — funnels through one place instead of being checked ad hoc at
// every call site.
//
// fn reports its exception through a normal return rather than a thrown C++
// exception, since this port already threads *types.Exception through
// NativeEntry's return value; CatchRuntimeExceptions also recovers a Go
// panic surfacing from fn and reports it as an accessViolation exception, in
// case a misbehaving external collaborator (compiler backend, ABI shim)
// panics instead of returning one.
func CatchRuntimeExceptions(fn func() *types.Exception, onException func(*types.Exception)) {
	var exception *types.Exception
	func() {
		defer func() {
			if r := recover(); r != nil {
				exception = types.NewException(types.ExceptionAccessViolation, "recovered panic")
				exception.Diagnostic = panicMessage(r)
			}
		}()
		exception = fn()
	}()
	if exception != nil {
		onException(exception)
	}
}

func panicMessage(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", r)
}
