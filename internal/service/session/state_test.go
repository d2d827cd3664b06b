package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestState_String tests the State.String method.
func TestState_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		state    State
		expected string
	}{
		{
			name:     "created",
			state:    StateCreated,
			expected: "created",
		},
		{
			name:     "browser launched",
			state:    StateBrowserLaunched,
			expected: "browser launched",
		},
		{
			name:     "navigating",
			state:    StateNavigating,
			expected: "navigating",
		},
		{
			name:     "awaiting consent",
			state:    StateAwaitingConsent,
			expected: "awaiting consent",
		},
		{
			name:     "awaiting token",
			state:    StateAwaitingToken,
			expected: "awaiting token",
		},
		{
			name:     "completed",
			state:    StateCompleted,
			expected: "completed",
		},
		{
			name:     "failed",
			state:    StateFailed,
			expected: "failed",
		},
		{
			name:     "closed",
			state:    StateClosed,
			expected: "closed",
		},
		{
			name:     "unknown value",
			state:    State(255),
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}
