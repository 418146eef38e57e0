package provisioning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/imamik/vmprovision/internal/cloud"
)

// StepResult records the outcome of one executed step.
type StepResult struct {
	Name     string
	Handle   cloud.Handle
	Duration time.Duration
	Err      error
}

// Result describes a finished run.
type Result struct {
	RunID      string
	State      RunState
	History    []RunState
	Handles    *Handles
	Steps      []StepResult
	CreateErr  error
	CleanupErr error
	Duration   time.Duration
}

// Err returns a *RunError when the create phase or the teardown failed.
func (r *Result) Err() error {
	if r.CreateErr == nil && r.CleanupErr == nil {
		return nil
	}
	return &RunError{State: r.State, Create: r.CreateErr, Cleanup: r.CleanupErr}
}

// Runner executes steps in order and then runs the cleanup exactly once.
type Runner struct {
	steps    []Step
	cleanup  Cleanup
	observer Observer
	metrics  *Metrics
	newRunID func() string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithObserver sets the observer receiving run events.
func WithObserver(observer Observer) RunnerOption {
	return func(r *Runner) {
		if observer != nil {
			r.observer = observer
		}
	}
}

// WithMetrics sets the collectors updated by the runner.
func WithMetrics(m *Metrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithRunIDGenerator replaces the random run id source.
func WithRunIDGenerator(fn func() string) RunnerOption {
	return func(r *Runner) {
		if fn != nil {
			r.newRunID = fn
		}
	}
}

// NewRunner validates the step list and returns a runner for it.
// A *ConfigurationError is returned when a step name is empty or repeated, or
// when a step requires a name that no earlier step produces.
func NewRunner(steps []Step, cleanup Cleanup, opts ...RunnerOption) (*Runner, error) {
	if cleanup == nil {
		return nil, &ConfigurationError{Reason: "a cleanup action is required"}
	}
	if err := validateSteps(steps); err != nil {
		return nil, err
	}

	r := &Runner{
		steps:    steps,
		cleanup:  cleanup,
		observer: NewDiscardObserver(),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func validateSteps(steps []Step) error {
	produced := make(map[string]bool, len(steps))
	for i, step := range steps {
		if step == nil {
			return &ConfigurationError{Reason: fmt.Sprintf("step %d is nil", i)}
		}
		name := step.Name()
		if name == "" {
			return &ConfigurationError{Reason: fmt.Sprintf("step %d has no name", i)}
		}
		if produced[name] {
			return &ConfigurationError{Step: name, Reason: "is declared more than once"}
		}
		for _, req := range step.Requires() {
			if produced[req] {
				continue
			}
			if later := producerAfter(steps[i:], req); later {
				return &ConfigurationError{Step: name, Reason: fmt.Sprintf("requires %q, which is only produced later", req)}
			}
			return &ConfigurationError{Step: name, Reason: fmt.Sprintf("requires %q, which no step produces", req)}
		}
		produced[name] = true
	}
	return nil
}

func producerAfter(steps []Step, name string) bool {
	for _, s := range steps {
		if s != nil && s.Name() == name {
			return true
		}
	}
	return false
}

// Steps returns the step names in execution order.
func (r *Runner) Steps() []string {
	names := make([]string, len(r.steps))
	for i, s := range r.steps {
		names[i] = s.Name()
	}
	return names
}

// Run executes the create phase and then the cleanup. The cleanup runs
// exactly once, also when a step panics, and uses a context that ignores
// cancellation of ctx. A panic in the cleanup is reported as a *CleanupError.
//
// The returned error is nil on success and a *RunError otherwise. The Result
// is always non-nil.
func (r *Runner) Run(ctx context.Context) (res *Result, err error) {
	runID := r.newRunID()
	rc := &Context{
		Context:  ctx,
		RunID:    runID,
		Handles:  NewHandles(),
		Observer: r.observer.WithFields(map[string]string{"run": runID}),
	}
	sm := newStateMachine()
	res = &Result{RunID: runID, Handles: rc.Handles}
	start := time.Now()

	rc.Observer.Event(Event{
		Type:    EventRunStarted,
		Message: fmt.Sprintf("Starting run with %d steps [%s]...", len(r.steps), strings.Join(r.Steps(), ", ")),
	})
	r.transition(rc, sm, StateCreating)

	defer func() {
		recovered := recover()
		if recovered != nil {
			step := ""
			if n := len(res.Steps); n > 0 {
				step = res.Steps[n-1].Name
				res.Steps[n-1].Err = fmt.Errorf("panic: %v", recovered)
			}
			res.CreateErr = &ProviderError{Step: step, Op: OpCreate, Err: fmt.Errorf("panic: %v", recovered)}
			r.transition(rc, sm, StateCreateFailed)
		}

		res.CleanupErr = r.runCleanup(rc, sm)
		if !sm.current.IsTerminal() {
			panic(fmt.Sprintf("run ended in non-terminal state %s", sm.current))
		}
		res.State = sm.current
		res.History = sm.snapshot()
		res.Duration = time.Since(start)
		r.metrics.recordRun(res.State)
		err = res.Err()

		rc.Observer.Event(Event{
			Type:    EventRunFinished,
			Err:     err,
			Message: fmt.Sprintf("Run finished in state %s after %v", res.State, res.Duration.Round(time.Millisecond)),
		})

		if recovered != nil {
			panic(recovered)
		}
	}()

	if createErr := r.create(rc, res); createErr != nil {
		res.CreateErr = createErr
		r.transition(rc, sm, StateCreateFailed)
	} else {
		r.transition(rc, sm, StateCreated)
	}
	return res, nil
}

func (r *Runner) create(rc *Context, res *Result) error {
	for i, step := range r.steps {
		name := step.Name()
		label := fmt.Sprintf("%s (%d/%d)", name, i+1, len(r.steps))
		LogStepStart(rc.Observer, name, label)

		res.Steps = append(res.Steps, StepResult{Name: name})
		stepStart := time.Now()

		handle, err := step.Create(rc)
		if err == nil && handle.IsZero() {
			err = errors.New("provider returned no resource id")
		}
		if err == nil {
			err = rc.Handles.put(name, handle)
		}

		elapsed := time.Since(stepStart)
		sr := &res.Steps[len(res.Steps)-1]
		sr.Duration = elapsed
		r.metrics.recordStep(name, err, elapsed)

		if err != nil {
			sr.Err = err
			LogStepFailed(rc.Observer, name, label, err)
			return &ProviderError{Step: name, Op: OpCreate, Err: err}
		}

		sr.Handle = handle
		LogResourceCreated(rc.Observer, name, handle)
		LogStepComplete(rc.Observer, name, label, elapsed)
	}
	return nil
}

func (r *Runner) runCleanup(rc *Context, sm *stateMachine) error {
	r.transition(rc, sm, StateCleaningUp)

	cleanupCtx := *rc
	cleanupCtx.Context = context.WithoutCancel(rc.Context)

	name := r.cleanup.Name()
	rc.Observer.Event(Event{Type: EventCleanupStarted, Step: name, Message: "Starting cleanup..."})
	start := time.Now()

	err := r.callCleanup(&cleanupCtx)
	r.metrics.recordCleanup(err)
	if err != nil {
		rc.Observer.Event(Event{Type: EventCleanupFailed, Step: name, Err: err, Message: "Cleanup failed"})
		r.transition(rc, sm, StateCleanupFailed)

		var cleanupErr *CleanupError
		if errors.As(err, &cleanupErr) {
			return cleanupErr
		}
		return &CleanupError{Name: name, Errors: []error{err}}
	}

	rc.Observer.Event(Event{
		Type:    EventCleanupCompleted,
		Step:    name,
		Message: fmt.Sprintf("Cleanup completed in %v", time.Since(start).Round(time.Millisecond)),
	})
	r.transition(rc, sm, StateDone)
	return nil
}

// callCleanup turns a panic in the cleanup into a *CleanupError so the run
// still reaches a terminal state.
func (r *Runner) callCleanup(ctx *Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &CleanupError{Name: r.cleanup.Name(), Errors: []error{fmt.Errorf("panic: %v", rec)}}
		}
	}()
	return r.cleanup.Cleanup(ctx)
}

// transition panics on an illegal move; the runner only requests legal ones.
func (r *Runner) transition(rc *Context, sm *stateMachine, next RunState) {
	from := sm.current
	if err := sm.transition(next); err != nil {
		panic(err)
	}
	rc.Observer.Event(Event{
		Type:    EventStateChanged,
		Message: fmt.Sprintf("%s -> %s", from, next),
		Fields:  map[string]string{"from": from.String(), "to": next.String()},
	})
}
