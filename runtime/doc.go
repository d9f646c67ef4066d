// Package runtime is the top-level facade wiring compiler, linker,
// compartment, instantiate, invoke, and trap together into the public API
// a host actually calls.
//
// # Quick start
//
//	rt, err := runtime.New(compartment.DefaultLimits())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	mod, err := rt.LoadModule(ir, refbackend.Backend{}, "main")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(resolver)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close()
//
//	results, exc := inst.Invoke(ctx, "run", args)
//
// # Thread safety
//
// Runtime and Module are safe for concurrent use; a Module may be
// Instantiate()d from multiple goroutines. Instance is not thread-safe:
// each goroutine invoking exports needs its own *compartment.Context.
package runtime
