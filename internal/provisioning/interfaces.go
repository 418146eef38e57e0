package provisioning

import "github.com/imamik/vmprovision/internal/cloud"

// Step creates one resource.
type Step interface {
	// Name returns the logical name under which the step's handle is stored.
	Name() string

	// Requires lists the logical names that must already be in the context.
	Requires() []string

	// Create provisions the resource and returns its handle.
	Create(ctx *Context) (cloud.Handle, error)
}

// Cleanup tears down everything the steps may have created.
type Cleanup interface {
	Name() string
	Cleanup(ctx *Context) error
}

type stepFunc struct {
	name     string
	requires []string
	create   func(*Context) (cloud.Handle, error)
}

// NewStep builds a Step from a function.
func NewStep(name string, requires []string, create func(*Context) (cloud.Handle, error)) Step {
	return &stepFunc{name: name, requires: requires, create: create}
}

func (s *stepFunc) Name() string                              { return s.name }
func (s *stepFunc) Requires() []string                        { return s.requires }
func (s *stepFunc) Create(ctx *Context) (cloud.Handle, error) { return s.create(ctx) }

type cleanupFunc struct {
	name string
	fn   func(*Context) error
}

// NewCleanup builds a Cleanup from a function.
func NewCleanup(name string, fn func(*Context) error) Cleanup {
	return &cleanupFunc{name: name, fn: fn}
}

func (c *cleanupFunc) Name() string               { return c.name }
func (c *cleanupFunc) Cleanup(ctx *Context) error { return c.fn(ctx) }
