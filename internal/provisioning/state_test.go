package provisioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunState_CanTransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to RunState
		want     bool
	}{
		{StateNotStarted, StateCreating, true},
		{StateNotStarted, StateCleaningUp, false},
		{StateCreating, StateCreated, true},
		{StateCreating, StateCreateFailed, true},
		{StateCreating, StateCleaningUp, false},
		{StateCreated, StateCleaningUp, true},
		{StateCreated, StateDone, false},
		{StateCreateFailed, StateCleaningUp, true},
		{StateCreateFailed, StateCreating, false},
		{StateCleaningUp, StateDone, true},
		{StateCleaningUp, StateCleanupFailed, true},
		{StateDone, StateCreating, false},
		{StateCleanupFailed, StateCleaningUp, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestRunState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "CleanupFailed", StateCleanupFailed.String())
	assert.Equal(t, "RunState(42)", RunState(42).String())

	text, err := StateDone.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Done", string(text))
}

func TestRunState_IsTerminal(t *testing.T) {
	t.Parallel()
	assert.True(t, StateDone.IsTerminal())
	assert.True(t, StateCleanupFailed.IsTerminal())
	assert.False(t, StateCreated.IsTerminal())
	assert.False(t, StateCleaningUp.IsTerminal())
}

func TestStateMachine_RejectsIllegalTransition(t *testing.T) {
	t.Parallel()
	sm := newStateMachine()

	err := sm.transition(StateDone)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot transition from NotStarted to Done")
	assert.Equal(t, StateNotStarted, sm.current)

	require.NoError(t, sm.transition(StateCreating))
	require.NoError(t, sm.transition(StateCreateFailed))
	require.NoError(t, sm.transition(StateCleaningUp))
	require.NoError(t, sm.transition(StateCleanupFailed))
	assert.Equal(t, []RunState{StateNotStarted, StateCreating, StateCreateFailed, StateCleaningUp, StateCleanupFailed}, sm.snapshot())
}
