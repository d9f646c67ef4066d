package compartment

import "github.com/embervm/embervm/types"

// Context is an execution cursor inside a Compartment (§4.2). It carries
// per-instance mutable global storage and the thunk argument/return
// scratch region described in §4.6. A Context is not a thread: a goroutine
// may use several contexts sequentially, but two goroutines must never
// drive the same Context concurrently.
type Context struct {
	compartment *Compartment
	id          ContextID

	// globalData is this context's private mutable-global page. Written
	// only by the goroutine driving this context; see §5.
	globalData []byte

	// thunkScratch is the fixed-size buffer invoke writes arguments into
	// and reads results back from (§4.2, §4.6).
	thunkScratch []byte

	closed bool
}

// CreateContext allocates the next id under the compartment mutex and
// seeds the new context's global-data page from
// compartment.initialContextGlobalData[0:numGlobalBytes], satisfying §8
// invariant 2.
func CreateContext(c *Compartment) *Context {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx := &Context{
		compartment:  c,
		globalData:   make([]byte, c.limits.MaxGlobalBytes),
		thunkScratch: make([]byte, c.limits.MaxThunkArgAndReturnBytes),
	}
	copy(ctx.globalData, c.initialContextGlobalData[:c.numGlobalBytes])

	ctx.id = ContextID(len(c.contexts))
	c.contexts = append(c.contexts, ctx)

	c.addRef()
	Logger().Sugar().Debugw("created context", "compartment", c.id, "context", ctx.id)
	return ctx
}

// CloneContext is structurally equivalent to CreateContext followed by a
// copy of the source's global-data slab, letting a host fork execution
// state without re-running any initializers.
func CloneContext(src *Context) *Context {
	cloned := CreateContext(src.compartment)
	src.compartment.mu.Lock()
	defer src.compartment.mu.Unlock()
	copy(cloned.globalData, src.globalData[:src.compartment.numGlobalBytes])
	return cloned
}

// Close finalizes the context. The compartment nulls the slot rather than
// compacting the vector, so every previously issued ContextID remains
// stable for the compartment's lifetime (§3 invariant 4).
func (ctx *Context) Close() {
	if ctx.closed {
		return
	}
	ctx.closed = true
	c := ctx.compartment
	c.mu.Lock()
	c.contexts[ctx.id] = nil
	c.mu.Unlock()
	c.releaseRef()
}

// ID returns the context's dense, stable id within its compartment.
func (ctx *Context) ID() ContextID { return ctx.id }

// Compartment returns the owning compartment.
func (ctx *Context) Compartment() *Compartment { return ctx.compartment }

// GetContextFromRuntimeData is the reverse lookup used by intrinsic
// functions whose only argument is the raw per-context runtime pointer the
// compiled entry point was called with (§4.2). Since this port represents
// "ContextRuntimeData*" as a typed handle rather than a raw pointer, the
// reverse lookup is simply returning the handle the caller already has;
// the function exists to name the same seam the spec describes so intrinsic
// code in package trap can be written against it rather than against *Context
// directly, and to validate the id is still live.
func GetContextFromRuntimeData(c *Compartment, id ContextID) *Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(id) >= len(c.contexts) {
		return nil
	}
	return c.contexts[id]
}

// Kind implements Object.
func (ctx *Context) Kind() types.ObjectKind { return types.KindContext }

// CompartmentID implements Object.
func (ctx *Context) CompartmentID() CompartmentID { return ctx.compartment.id }

// ThunkScratch returns the context's argument/return scratch region for use
// by package invoke. It is exposed rather than copied so repeated invokes
// do not allocate.
func (ctx *Context) ThunkScratch() []byte { return ctx.thunkScratch }

// GlobalData returns the context's private mutable-global page for use by
// GetGlobalValue/SetGlobalValue.
func (ctx *Context) GlobalData() []byte { return ctx.globalData }
