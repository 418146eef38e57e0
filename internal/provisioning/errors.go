package provisioning

import (
	"errors"
	"fmt"
)

// Provider operations reported by ProviderError.
const (
	OpCreate = "create"
	OpDelete = "delete"
)

// ConfigurationError reports a malformed step list. It is returned before any
// provider call is made.
type ConfigurationError struct {
	Step   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Step == "" {
		return "invalid workflow: " + e.Reason
	}
	return fmt.Sprintf("invalid workflow: step %q %s", e.Step, e.Reason)
}

// ProviderError reports a failed provider call made by a step.
type ProviderError struct {
	Step string
	Op   string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Step, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// CleanupError accumulates the errors of a failed teardown.
type CleanupError struct {
	Name   string
	Errors []error
}

func (e *CleanupError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s failed: %v", e.Name, e.Errors[0])
	}
	return fmt.Sprintf("%s encountered %d errors: %v", e.Name, len(e.Errors), e.Errors)
}

func (e *CleanupError) Unwrap() error {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return errors.Join(e.Errors...)
}

// Add records err if it is non-nil.
func (e *CleanupError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors reports whether any error was recorded.
func (e *CleanupError) HasErrors() bool {
	return len(e.Errors) > 0
}

// RunError is returned by Runner.Run when the create phase, the teardown, or
// both failed. Neither error hides the other: errors.As finds a
// *ProviderError and a *CleanupError through it.
type RunError struct {
	State   RunState
	Create  error
	Cleanup error
}

func (e *RunError) Error() string {
	switch {
	case e.Create != nil && e.Cleanup != nil:
		return fmt.Sprintf("%v; cleanup also failed: %v", e.Create, e.Cleanup)
	case e.Create != nil:
		return e.Create.Error()
	case e.Cleanup != nil:
		return e.Cleanup.Error()
	default:
		return "run failed in state " + e.State.String()
	}
}

func (e *RunError) Unwrap() []error {
	var errs []error
	if e.Create != nil {
		errs = append(errs, e.Create)
	}
	if e.Cleanup != nil {
		errs = append(errs, e.Cleanup)
	}
	return errs
}
