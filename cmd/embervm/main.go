// Command embervm is a minimal driver over package runtime (§6 External
// Interfaces). It never decodes a real WebAssembly binary or text module —
// that decoder is an explicit non-goal — so "<program>" names one of a
// handful of built-in demo modules (see demo.go) hand-built against
// compiler/refbackend, enough to drive §8's S1/S2/S4 scenarios end to end.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/embervm/embervm/abi"
	"github.com/embervm/embervm/abi/emscripten"
	"github.com/embervm/embervm/abi/wasi"
	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/compiler/refbackend"
	"github.com/embervm/embervm/errors"
	"github.com/embervm/embervm/linker"
	"github.com/embervm/embervm/objcache"
	"github.com/embervm/embervm/runtime"
	"github.com/embervm/embervm/trap"
	"github.com/embervm/embervm/types"
)

type enableFlags []string

func (e *enableFlags) String() string { return strings.Join(*e, ",") }
func (e *enableFlags) Set(v string) error {
	*e = append(*e, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("embervm", flag.ContinueOnError)
	function := fs.String("function", "", "override the default entry point")
	fs.StringVar(function, "f", "", "override the default entry point (shorthand)")
	abiFlag := fs.String("abi", "", "force ABI: bare|emscripten|wasi (otherwise auto-detected)")
	precompiled := fs.Bool("precompiled", false, "treat the input as carrying a wavm.precompiled_object section")
	mountRoot := fs.String("mount-root", "", "expose DIR as the guest's root under the system-interface ABI")
	wasiTrace := fs.String("wasi-trace", "", "enable syscall tracing: syscalls|syscalls-with-callstacks")
	var enable enableFlags
	fs.Var(&enable, "enable", "toggle a named feature (recorded only; no feature-gated decoder exists)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: embervm [options] <program> [program arguments]")
		return 1
	}
	programName := fs.Arg(0)
	programArgs := fs.Args()[1:]

	if *precompiled {
		reportUnsupported(errors.Unsupported(errors.PhaseLoad, "--precompiled: precompiled object section reader is an external collaborator"))
		return 1
	}
	if *wasiTrace != "" {
		reportUnsupported(errors.Unsupported(errors.PhaseLoad, "--wasi-trace: syscall tracer is an external collaborator"))
		return 1
	}
	if len(enable) > 0 {
		fmt.Fprintf(os.Stderr, "note: --enable %s recorded, no feature-gated decoder exists to act on it\n", strings.Join(enable, ","))
	}

	cacheStore, cacheErr := openObjectCacheFromEnv()
	if cacheErr != nil {
		fmt.Fprintf(os.Stderr, "embervm: object cache: %v\n", cacheErr)
		return 1
	}
	if cacheStore != nil {
		defer cacheStore.Close()
	}

	program, ok := demoPrograms()[programName]
	if !ok {
		fmt.Fprintf(os.Stderr, "embervm: unknown program %q\n", programName)
		return 1
	}

	detected := abi.Detect(program.ir)
	if *abiFlag != "" {
		forced, err := parseABI(*abiFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "embervm: %v\n", err)
			return 1
		}
		detected = forced
	}
	rt, err := runtime.New(compartment.DefaultLimits())
	if err != nil {
		fmt.Fprintf(os.Stderr, "embervm: %v\n", err)
		return 1
	}
	defer rt.Close()

	mod, err := rt.LoadModule(program.ir, refbackend.Backend{}, programName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "embervm: compile: %v\n", err)
		return 1
	}

	resolver := resolverFor(rt, detected, *mountRoot)
	inst, err := mod.Instantiate(resolver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "embervm: %v\n", err)
		return 1
	}
	defer inst.Close()

	ctx := compartment.CreateContext(rt.Compartment())
	defer ctx.Close()

	entry := *function
	if entry == "" {
		entry = program.defaultEntry
	}
	invokeArgs, err := parseI32Args(programArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "embervm: %v\n", err)
		return 1
	}

	exitCode := 0
	var results []types.Value
	trap.CatchRuntimeExceptions(func() *types.Exception {
		if _, exc := inst.Start(ctx); exc != nil {
			return asException(exc)
		}
		if entry == "" {
			return nil
		}
		var invokeErr error
		results, invokeErr = inst.Invoke(ctx, entry, invokeArgs)
		return asException(invokeErr)
	}, func(exc *types.Exception) {
		if exc.ExcKind == types.ExceptionHostExit {
			exitCode = int(exc.ExitCode)
			return
		}
		fmt.Fprintf(os.Stderr, "Runtime exception: %s\n", exc.Message)
		exitCode = 1
	})
	if exitCode != 0 {
		return exitCode
	}

	if len(results) == 1 && results[0].Type == types.I32 {
		return int(results[0].Untagged.I32())
	}
	return 0
}

// asException adapts an *Instance call's plain error return (which is
// either nil, a *types.Exception, or some other host-side error) into the
// *types.Exception CatchRuntimeExceptions expects; a non-exception error is
// reported immediately rather than funnelled through the exception path,
// since it represents a host-side bug rather than a guest trap.
func asException(err error) *types.Exception {
	if err == nil {
		return nil
	}
	if exc, ok := err.(*types.Exception); ok {
		return exc
	}
	fmt.Fprintf(os.Stderr, "embervm: %v\n", err)
	os.Exit(1)
	return nil
}

func reportUnsupported(err error) {
	fmt.Fprintf(os.Stderr, "embervm: %v\n", err)
}

func parseABI(s string) (abi.Kind, error) {
	switch s {
	case "bare":
		return abi.Bare, nil
	case "emscripten":
		return abi.Emscripten, nil
	case "wasi":
		return abi.Wasi, nil
	default:
		return 0, fmt.Errorf("unknown --abi %q (want bare|emscripten|wasi)", s)
	}
}

func parseI32Args(args []string) ([]types.Value, error) {
	values := make([]types.Value, len(args))
	for i, a := range args {
		n, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("argument %q is not an i32: %w", a, err)
		}
		values[i] = types.NewI32(int32(n))
	}
	return values, nil
}

// resolverFor mirrors wavm-run.cpp's own ABI-keyed resolver choice: bare
// links against a NullResolver (so a missing import is reported, not
// stubbed — §8 S4), while wasi/emscripten link against this port's minimal
// stand-in resolver for that ABI's own function imports.
func resolverFor(rt *runtime.Runtime, detected abi.Kind, mountRoot string) linker.Resolver {
	switch detected {
	case abi.Wasi:
		return wasi.NewResolver(rt.Compartment(), wasi.Options{RootDir: mountRoot, Stdout: os.Stdout, Stderr: os.Stderr})
	case abi.Emscripten:
		return emscripten.NewResolver(rt.Compartment())
	default:
		return linker.NullResolver{}
	}
}

// openObjectCacheFromEnv honours WAVM_OBJECT_CACHE_DIR/WAVM_OBJECT_CACHE_MAX_MB
// (§6); returns (nil, nil) when the cache is not enabled. Only cmd/embervm
// reads these, never a library package (§1.4).
func openObjectCacheFromEnv() (*objcache.DirStore, error) {
	dir := os.Getenv("WAVM_OBJECT_CACHE_DIR")
	if dir == "" {
		return nil, nil
	}
	maxMB := int64(1024)
	if v := os.Getenv("WAVM_OBJECT_CACHE_MAX_MB"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("WAVM_OBJECT_CACHE_MAX_MB must be a positive integer, got %q", v)
		}
		maxMB = parsed
	}
	maxBytes := uint64(maxMB) * 1_000_000
	codeKey := objcache.CodeKey(refbackend.Version, "embervm-1")
	store, result, err := objcache.Open(dir, maxBytes, codeKey)
	if err != nil {
		return nil, err
	}
	if result != objcache.OpenSuccess {
		return nil, fmt.Errorf("object cache open: %s", result)
	}
	return store, nil
}
