package wasi

import (
	"bytes"
	"testing"

	"github.com/embervm/embervm/abi"
	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/types"
)

func TestResolverSatisfiesFdWrite(t *testing.T) {
	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	var stdout bytes.Buffer
	r := NewResolver(c, Options{Stdout: &stdout})

	mem := compartment.CreateMemory(c, types.MemoryType{MinPages: 1})
	r.BindMemory(mem)

	ft := types.FunctionType{
		Params:  []types.ValueType{types.I32, types.I32, types.I32, types.I32},
		Results: []types.ValueType{types.I32},
	}
	obj, ok := r.Resolve(abi.WasiModuleName, "fd_write", types.FunctionObjectType(ft))
	if !ok {
		t.Fatal("expected fd_write to resolve")
	}
	fn := obj.(*compartment.FunctionInstance)

	data := mem.Bytes()
	copy(data[100:], []byte("hi"))
	putLeUint32(data[16:20], 100) // iov[0].ptr
	putLeUint32(data[20:24], 2)   // iov[0].len

	buf := make([]byte, 64)
	putLeUint32(buf[0:4], 1)   // fd = stdout
	putLeUint32(buf[8:12], 16) // iovs ptr
	putLeUint32(buf[16:20], 1) // iovs_len
	putLeUint32(buf[24:28], 200) // nwritten ptr

	if exc := fn.Entry()(compartment.ContextRuntimeData{}, buf); exc != nil {
		t.Fatalf("unexpected exception: %v", exc)
	}
	if stdout.String() != "hi" {
		t.Fatalf("expected stdout %q, got %q", "hi", stdout.String())
	}
	written := leUint32(data[200:204])
	if written != 2 {
		t.Fatalf("expected nwritten=2, got %d", written)
	}
}

func TestResolverMissesUnknownExport(t *testing.T) {
	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	r := NewResolver(c, Options{})
	if _, ok := r.Resolve(abi.WasiModuleName, "clock_time_get", types.FunctionObjectType(types.FunctionType{})); ok {
		t.Fatal("expected a miss for an unimplemented export")
	}
}

func TestResolverMissesOtherModules(t *testing.T) {
	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	r := NewResolver(c, Options{})
	ft := types.FunctionType{Params: []types.ValueType{types.I32}}
	if _, ok := r.Resolve("env", "proc_exit", types.FunctionObjectType(ft)); ok {
		t.Fatal("expected a miss outside the wasi_unstable namespace")
	}
}

func TestPathOpenRejectsWithoutRootDir(t *testing.T) {
	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	r := NewResolver(c, Options{})
	ft := types.FunctionType{
		Params:  []types.ValueType{types.I32, types.I32, types.I32, types.I32},
		Results: []types.ValueType{types.I32},
	}
	obj, ok := r.Resolve(abi.WasiModuleName, "path_open", types.FunctionObjectType(ft))
	if !ok {
		t.Fatal("expected path_open to resolve")
	}
	fn := obj.(*compartment.FunctionInstance)

	buf := make([]byte, 64)
	if exc := fn.Entry()(compartment.ContextRuntimeData{}, buf); exc != nil {
		t.Fatalf("unexpected exception: %v", exc)
	}
	got := readI32(buf, 0)
	if Errno(got) != ErrnoNotCapable {
		t.Fatalf("expected ErrnoNotCapable without a bound root, got %d", got)
	}
}

func TestPathOpenPermitsWhenRootDirSet(t *testing.T) {
	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	r := NewResolver(c, Options{RootDir: "/sandbox"})
	ft := types.FunctionType{
		Params:  []types.ValueType{types.I32, types.I32, types.I32, types.I32},
		Results: []types.ValueType{types.I32},
	}
	obj, _ := r.Resolve(abi.WasiModuleName, "path_open", types.FunctionObjectType(ft))
	fn := obj.(*compartment.FunctionInstance)

	buf := make([]byte, 64)
	if exc := fn.Entry()(compartment.ContextRuntimeData{}, buf); exc != nil {
		t.Fatalf("unexpected exception: %v", exc)
	}
	got := readI32(buf, 0)
	if Errno(got) == ErrnoNotCapable {
		t.Fatal("expected a bound RootDir to pass the sandbox gate")
	}
}

func TestProcExitRaisesHostExit(t *testing.T) {
	c, _ := compartment.CreateCompartment(compartment.DefaultLimits(), nil)
	r := NewResolver(c, Options{})
	ft := types.FunctionType{Params: []types.ValueType{types.I32}}
	obj, _ := r.Resolve(abi.WasiModuleName, "proc_exit", types.FunctionObjectType(ft))
	fn := obj.(*compartment.FunctionInstance)

	buf := make([]byte, 64)
	putLeUint32(buf[0:4], 7)
	exc := fn.Entry()(compartment.ContextRuntimeData{}, buf)
	if exc == nil || exc.ExcKind != types.ExceptionHostExit || exc.ExitCode != 7 {
		t.Fatalf("expected hostExit with code 7, got %v", exc)
	}
}
