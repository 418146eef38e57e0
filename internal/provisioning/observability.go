package provisioning

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/vmprovision/internal/cloud"
)

// Observer defines the interface for structured observability during a run.
type Observer interface {
	// Printf logs a free-form message.
	Printf(format string, v ...any)

	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Step      string            // Step or cleanup name
	Message   string            // Human-readable message
	Resource  string            // Resource id if applicable
	Err       error             // Set on failure events
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventRunStarted indicates a run has started.
	EventRunStarted EventType = "run.started"
	// EventRunFinished indicates a run reached a terminal state.
	EventRunFinished EventType = "run.finished"
	// EventStateChanged indicates a run state transition.
	EventStateChanged EventType = "state.changed"

	// EventStepStarted indicates a step has started.
	EventStepStarted EventType = "step.started"
	// EventStepCompleted indicates a step completed successfully.
	EventStepCompleted EventType = "step.completed"
	// EventStepFailed indicates a step failed.
	EventStepFailed EventType = "step.failed"

	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceDeleting indicates a resource is being deleted.
	EventResourceDeleting EventType = "resource.deleting"
	// EventResourceDeleted indicates a resource was deleted successfully.
	EventResourceDeleted EventType = "resource.deleted"
	// EventResourceAbsent indicates there was nothing to delete.
	EventResourceAbsent EventType = "resource.absent"

	// EventCleanupStarted indicates the teardown has started.
	EventCleanupStarted EventType = "cleanup.started"
	// EventCleanupCompleted indicates the teardown succeeded.
	EventCleanupCompleted EventType = "cleanup.completed"
	// EventCleanupFailed indicates the teardown failed.
	EventCleanupFailed EventType = "cleanup.failed"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log logr.Logger
}

// NewLogObserver creates an observer writing to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{log: log}
}

// NewDiscardObserver creates an observer that drops everything.
func NewDiscardObserver() *LogObserver {
	return &LogObserver{log: logr.Discard()}
}

// Printf implements Observer.
func (o *LogObserver) Printf(format string, v ...any) {
	o.log.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer. Events carrying an error are logged at error
// level.
func (o *LogObserver) Event(event Event) {
	kv := []any{"event", string(event.Type)}
	if event.Step != "" {
		kv = append(kv, "step", event.Step)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	kv = append(kv, sortedKV(event.Fields)...)

	if event.Err != nil {
		o.log.Error(event.Err, event.Message, kv...)
		return
	}
	o.log.Info(event.Message, kv...)
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	return &LogObserver{log: o.log.WithValues(sortedKV(fields)...)}
}

func sortedKV(fields map[string]string) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}

// Helper functions for common events

// LogStepStart logs a step start event.
func LogStepStart(observer Observer, step, label string) {
	observer.Event(Event{
		Type:    EventStepStarted,
		Step:    step,
		Message: fmt.Sprintf("[%s] starting", label),
	})
}

// LogStepComplete logs a step completion event.
func LogStepComplete(observer Observer, step, label string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventStepCompleted,
		Step:    step,
		Message: fmt.Sprintf("[%s] completed in %v", label, duration.Round(time.Millisecond)),
	})
}

// LogStepFailed logs a step failure event.
func LogStepFailed(observer Observer, step, label string, err error) {
	observer.Event(Event{
		Type:    EventStepFailed,
		Step:    step,
		Err:     err,
		Message: fmt.Sprintf("[%s] failed", label),
	})
}

// LogResourceCreated reports a created resource as "<Kind> <id> created".
func LogResourceCreated(observer Observer, step string, handle cloud.Handle) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Step:     step,
		Resource: handle.ID,
		Message:  fmt.Sprintf("%s %s created", handle.Kind, handle.ID),
		Fields: map[string]string{
			"kind": string(handle.Kind),
			"name": handle.Name,
		},
	})
}

// LogResourceDeleting logs a resource deletion start event.
func LogResourceDeleting(observer Observer, step string, kind cloud.Kind, name string) {
	observer.Event(Event{
		Type:     EventResourceDeleting,
		Step:     step,
		Resource: name,
		Message:  fmt.Sprintf("deleting %s %s", kind, name),
		Fields: map[string]string{
			"kind": string(kind),
		},
	})
}

// LogResourceDeleted logs a successful resource deletion event.
func LogResourceDeleted(observer Observer, step string, kind cloud.Kind, name string) {
	observer.Event(Event{
		Type:     EventResourceDeleted,
		Step:     step,
		Resource: name,
		Message:  fmt.Sprintf("%s %s deleted", kind, name),
		Fields: map[string]string{
			"kind": string(kind),
		},
	})
}
