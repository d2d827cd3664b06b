package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFormatDuration tests the formatDuration function.
func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{
			name:     "milliseconds",
			duration: 250 * time.Millisecond,
			expected: "250ms",
		},
		{
			name:     "seconds",
			duration: 42 * time.Second,
			expected: "42s",
		},
		{
			name:     "minutes and seconds",
			duration: 3*time.Minute + 5*time.Second,
			expected: "3m 5s",
		},
		{
			name:     "hours, minutes and seconds",
			duration: 2*time.Hour + 10*time.Minute + 30*time.Second,
			expected: "2h 10m 30s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, formatDuration(tt.duration))
		})
	}
}

// TestRecorders tests the outcome recording helpers.
func TestRecorders(t *testing.T) {
	t.Parallel()

	service := NewService(nil)

	service.recordSuccess("a@example.com")
	service.recordSkip()
	service.recordFailure("b@example.com", errors.New("boom"))

	assert.Equal(t, 3, service.stats.TotalProcessed)
	assert.Equal(t, 1, service.stats.Succeeded)
	assert.Equal(t, 1, service.stats.Skipped)
	assert.Equal(t, 1, service.stats.Failed)

	require.Len(t, service.stats.Outcomes, 3)
	assert.Equal(t, "a@example.com", service.stats.Outcomes[0].Identifier)
	assert.Empty(t, service.stats.Outcomes[1].Identifier)
	assert.Equal(t, "boom", service.stats.Outcomes[2].ErrorMessage)
	assert.Equal(t, FailureKindProvider, service.stats.Outcomes[2].FailureKind)
}

// TestOutcomeStatus_String tests the OutcomeStatus.String method.
func TestOutcomeStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "succeeded", OutcomeSucceeded.String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "unknown", OutcomeStatus(255).String())
}

// TestFailureKind_String tests the FailureKind.String method.
func TestFailureKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", FailureKindNone.String())
	assert.Equal(t, "provider", FailureKindProvider.String())
	assert.Equal(t, "interaction", FailureKindInteraction.String())
	assert.Equal(t, "timeout", FailureKindTimeout.String())
	assert.Equal(t, "unknown", FailureKind(255).String())
}

// TestPrintBatchSummary_EmptyBatchIsSilent tests that an empty batch prints nothing.
func TestPrintBatchSummary_EmptyBatchIsSilent(t *testing.T) {
	t.Parallel()

	service := NewService(nil)

	assert.NotPanics(t, func() {
		service.PrintBatchSummary(context.Background())
	})
}
