package batch

import (
	"errors"
	"time"

	"github.com/pwalczak/mailbox-token-grabber/internal/service/session"
	"github.com/pwalczak/mailbox-token-grabber/internal/store"
)

// OutcomeStatus classifies one account's result.
type OutcomeStatus uint8

const (
	// OutcomeSucceeded means a token record was confirmed in the store.
	OutcomeSucceeded OutcomeStatus = iota
	// OutcomeSkipped means the record had no identifier and no session was opened.
	OutcomeSkipped
	// OutcomeFailed means the acquisition attempt ended with an error.
	OutcomeFailed
)

// String returns the status name for logging.
func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FailureKind classifies what broke an acquisition attempt.
type FailureKind uint8

const (
	// FailureKindNone applies to non-failed outcomes.
	FailureKindNone FailureKind = iota
	// FailureKindProvider covers code-exchange and other provider-side errors.
	FailureKindProvider
	// FailureKindInteraction covers browser-launch, navigation and consent-control errors.
	FailureKindInteraction
	// FailureKindTimeout means the token never appeared in the store in time.
	FailureKindTimeout
)

// String returns the failure kind name for logging.
func (k FailureKind) String() string {
	switch k {
	case FailureKindNone:
		return "none"
	case FailureKindProvider:
		return "provider"
	case FailureKindInteraction:
		return "interaction"
	case FailureKindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// classifyFailure maps a session error to a failure kind.
func classifyFailure(err error) FailureKind {
	switch {
	case errors.Is(err, store.ErrTokenWaitTimeout):
		return FailureKindTimeout
	case errors.Is(err, session.ErrBrowserLaunch),
		errors.Is(err, session.ErrNavigationFailed),
		errors.Is(err, session.ErrConsentFailed):
		return FailureKindInteraction
	default:
		return FailureKindProvider
	}
}

// AccountOutcome records the result for one account.
type AccountOutcome struct {
	// Identifier is the account identifier, empty for skipped records.
	Identifier string
	// Status is the outcome classification.
	Status OutcomeStatus
	// FailureKind is set for failed outcomes.
	FailureKind FailureKind
	// ErrorMessage is the failure detail for the summary.
	ErrorMessage string
}

// BatchStatistics accumulates results for one batch run.
// Each driver instance owns its own value.
type BatchStatistics struct {
	// TotalProcessed is the number of records the loop has consumed.
	TotalProcessed int
	// Succeeded is the number of confirmed token records.
	Succeeded int
	// Skipped is the number of records without an identifier.
	Skipped int
	// Failed is the number of failed acquisition attempts.
	Failed int
	// StartTime is when the batch loop started.
	StartTime time.Time
	// EndTime is when the batch loop finished.
	EndTime time.Time
	// Outcomes holds one entry per processed record, in input order.
	Outcomes []AccountOutcome
}
