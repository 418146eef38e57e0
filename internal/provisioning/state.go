package provisioning

import "fmt"

// RunState is the lifecycle state of a single run.
type RunState int

// Run states. Provider calls only happen in StateCreating and StateCleaningUp.
const (
	StateNotStarted RunState = iota
	StateCreating
	StateCreated
	StateCreateFailed
	StateCleaningUp
	StateDone
	StateCleanupFailed
)

var stateNames = map[RunState]string{
	StateNotStarted:    "NotStarted",
	StateCreating:      "Creating",
	StateCreated:       "Created",
	StateCreateFailed:  "CreateFailed",
	StateCleaningUp:    "CleaningUp",
	StateDone:          "Done",
	StateCleanupFailed: "CleanupFailed",
}

var stateTransitions = map[RunState][]RunState{
	StateNotStarted:   {StateCreating},
	StateCreating:     {StateCreated, StateCreateFailed},
	StateCreated:      {StateCleaningUp},
	StateCreateFailed: {StateCleaningUp},
	StateCleaningUp:   {StateDone, StateCleanupFailed},
}

func (s RunState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("RunState(%d)", int(s))
}

// MarshalText renders the state by name.
func (s RunState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s RunState) CanTransitionTo(next RunState) bool {
	for _, allowed := range stateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s RunState) IsTerminal() bool {
	return s == StateDone || s == StateCleanupFailed
}

type stateMachine struct {
	current RunState
	history []RunState
}

func newStateMachine() *stateMachine {
	return &stateMachine{
		current: StateNotStarted,
		history: []RunState{StateNotStarted},
	}
}

func (m *stateMachine) transition(next RunState) error {
	if !m.current.CanTransitionTo(next) {
		return fmt.Errorf("cannot transition from %s to %s", m.current, next)
	}
	m.current = next
	m.history = append(m.history, next)
	return nil
}

func (m *stateMachine) snapshot() []RunState {
	out := make([]RunState, len(m.history))
	copy(out, m.history)
	return out
}
