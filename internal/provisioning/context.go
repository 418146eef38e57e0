package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/vmprovision/internal/cloud"
)

// Handles maps logical step names to the handles they produced.
// Each name is written once, by the runner, after its step returns.
type Handles struct {
	order  []string
	byName map[string]cloud.Handle
}

// NewHandles creates an empty handle set.
func NewHandles() *Handles {
	return &Handles{byName: make(map[string]cloud.Handle)}
}

// Get returns the handle stored under name.
func (h *Handles) Get(name string) (cloud.Handle, bool) {
	handle, ok := h.byName[name]
	return handle, ok
}

// Require returns the handle stored under name or an error naming the
// missing dependency.
func (h *Handles) Require(name string) (cloud.Handle, error) {
	handle, ok := h.byName[name]
	if !ok {
		return cloud.Handle{}, fmt.Errorf("no handle for %q in context", name)
	}
	return handle, nil
}

// Names returns the stored names in the order they were produced.
func (h *Handles) Names() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// Len returns the number of stored handles.
func (h *Handles) Len() int {
	return len(h.order)
}

func (h *Handles) put(name string, handle cloud.Handle) error {
	if _, exists := h.byName[name]; exists {
		return fmt.Errorf("handle %q already set", name)
	}
	h.byName[name] = handle
	h.order = append(h.order, name)
	return nil
}

// Context wraps the dependencies and state visible to a step.
type Context struct {
	context.Context
	RunID    string
	Handles  *Handles
	Observer Observer
}

// NewContext creates a context with an empty handle set. It is used to run a
// Cleanup outside of a Runner, as the destroy command does.
func NewContext(ctx context.Context, runID string, observer Observer) *Context {
	if observer == nil {
		observer = NewDiscardObserver()
	}
	return &Context{
		Context:  ctx,
		RunID:    runID,
		Handles:  NewHandles(),
		Observer: observer,
	}
}

// CallContext derives the context for one provider call. A zero timeout
// leaves the call bounded only by ctx.
func CallContext(ctx *Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
