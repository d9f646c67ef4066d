package wasi

import (
	"io"

	"github.com/embervm/embervm/abi"
	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/types"
)

// Errno mirrors the subset of WASI preview1's errno numbering this stub
// actually returns.
type Errno int32

const (
	ErrnoSuccess      Errno = 0
	ErrnoBadFileDesc  Errno = 8
	ErrnoNoSys        Errno = 52
	ErrnoNotCapable   Errno = 76
)

// Options configures a Resolver.
type Options struct {
	// RootDir is the sandbox root exposed under the system-interface ABI
	// (§6 `--mount-root`). Empty means no filesystem capability is granted
	// at all: every path-taking syscall returns ErrnoNotCapable.
	RootDir string
	// Stdout/Stderr receive fd_write output for file descriptors 1 and 2.
	// Both default to io.Discard when nil.
	Stdout io.Writer
	Stderr io.Writer
}

// Resolver is a linker.Resolver satisfying imports from abi.WasiModuleName.
// Synthesized functions are bound to compartment c, the same compartment
// the guest module that imports them will be instantiated into (§3
// invariant 6: no cross-compartment Object ever appears in an imports
// list), following the same construction-time compartment binding as
// linker.StubResolver. Memory is bound after instantiation via BindMemory,
// since a host import is linked before the guest's own exported memory
// exists; this mirrors how a real WASI host defers its "memory" capability
// binding to just after instantiateModule returns.
type Resolver struct {
	compartment *compartment.Compartment
	opts        Options
	memory      *compartment.MemoryInstance
}

func NewResolver(c *compartment.Compartment, opts Options) *Resolver {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	return &Resolver{compartment: c, opts: opts}
}

// BindMemory records the guest's own linear memory so fd_write and
// path_open can read/write through it. Call once, right after
// instantiate.InstantiateModule returns the ModuleInstance this resolver
// helped link.
func (r *Resolver) BindMemory(mem *compartment.MemoryInstance) { r.memory = mem }

func (r *Resolver) Resolve(moduleName, exportName string, expectedType types.ObjectType) (compartment.Object, bool) {
	if moduleName != abi.WasiModuleName || expectedType.Kind != types.KindFunction {
		return nil, false
	}

	var fType types.FunctionType
	var entry compartment.NativeEntry
	switch exportName {
	case "fd_write":
		fType = types.FunctionType{
			Params:  []types.ValueType{types.I32, types.I32, types.I32, types.I32},
			Results: []types.ValueType{types.I32},
		}
		entry = r.fdWrite()
	case "proc_exit":
		fType = types.FunctionType{Params: []types.ValueType{types.I32}}
		entry = r.procExit()
	case "path_open":
		fType = types.FunctionType{
			Params:  []types.ValueType{types.I32, types.I32, types.I32, types.I32},
			Results: []types.ValueType{types.I32},
		}
		entry = r.pathOpen()
	default:
		return nil, false
	}

	if !fType.Equal(expectedType.Function) {
		return nil, false
	}
	fn := compartment.NewFunctionInstance(r.compartment.ID(), fType, entry, compartment.CallingConventionWasm, exportName)
	return fn, true
}

func (r *Resolver) fdWrite() compartment.NativeEntry {
	ft := types.FunctionType{Params: []types.ValueType{types.I32, types.I32, types.I32, types.I32}}
	offsets, _ := compartment.ThunkLayout(ft.Params)
	return func(_ compartment.ContextRuntimeData, buf []byte) *types.Exception {
		if r.memory == nil {
			writeErrno(buf, ErrnoNoSys)
			return nil
		}
		fd := readI32(buf, offsets[0])
		iovsPtr := uint32(readI32(buf, offsets[1]))
		iovsLen := uint32(readI32(buf, offsets[2]))
		nwrittenPtr := uint32(readI32(buf, offsets[3]))

		var w io.Writer
		switch fd {
		case 1:
			w = r.opts.Stdout
		case 2:
			w = r.opts.Stderr
		default:
			writeErrno(buf, ErrnoBadFileDesc)
			return nil
		}

		mem := r.memory.Bytes()
		var total uint32
		for i := uint32(0); i < iovsLen; i++ {
			entry := mem[iovsPtr+i*8 : iovsPtr+i*8+8]
			ptr := leUint32(entry[0:4])
			length := leUint32(entry[4:8])
			n, _ := w.Write(mem[ptr : ptr+length])
			total += uint32(n)
		}
		putLeUint32(mem[nwrittenPtr:nwrittenPtr+4], total)
		writeErrno(buf, ErrnoSuccess)
		return nil
	}
}

func (r *Resolver) procExit() compartment.NativeEntry {
	return func(_ compartment.ContextRuntimeData, buf []byte) *types.Exception {
		code := readI32(buf, 0)
		return &types.Exception{ExcKind: types.ExceptionHostExit, ExitCode: code}
	}
}

// pathOpen implements only the sandbox-root gate: without a bound RootDir
// it always returns ErrnoNotCapable, demonstrating §6's --mount-root
// contract without a real filesystem jail behind it (§1 non-goal).
func (r *Resolver) pathOpen() compartment.NativeEntry {
	return func(_ compartment.ContextRuntimeData, buf []byte) *types.Exception {
		if r.opts.RootDir == "" {
			writeErrno(buf, ErrnoNotCapable)
			return nil
		}
		writeErrno(buf, ErrnoNoSys)
		return nil
	}
}

func readI32(buf []byte, offset uint32) int32 {
	var u types.UntaggedValue
	copy(u[:], buf[offset:offset+4])
	return u.I32()
}

func writeErrno(buf []byte, errno Errno) {
	copy(buf[0:4], types.I32Value(int32(errno)).Bytes(4))
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLeUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
