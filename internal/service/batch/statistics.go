package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/pwalczak/mailbox-token-grabber/internal/logger"
)

// minMeaningfulDuration is the shortest batch duration worth printing.
const minMeaningfulDuration = 100 * time.Millisecond

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// recordSuccess registers a confirmed token record.
func (s *ServiceImpl) recordSuccess(identifier string) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.Succeeded++
	s.stats.TotalProcessed++
	s.stats.Outcomes = append(s.stats.Outcomes, AccountOutcome{
		Identifier: identifier,
		Status:     OutcomeSucceeded,
	})
}

// recordSkip registers a record without an identifier.
func (s *ServiceImpl) recordSkip() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.Skipped++
	s.stats.TotalProcessed++
	s.stats.Outcomes = append(s.stats.Outcomes, AccountOutcome{
		Status: OutcomeSkipped,
	})
}

// recordFailure registers a failed acquisition attempt with its kind.
func (s *ServiceImpl) recordFailure(identifier string, err error) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.Failed++
	s.stats.TotalProcessed++
	s.stats.Outcomes = append(s.stats.Outcomes, AccountOutcome{
		Identifier:   identifier,
		Status:       OutcomeFailed,
		FailureKind:  classifyFailure(err),
		ErrorMessage: err.Error(),
	})
}

// PrintBatchSummary prints a formatted summary of batch results.
func (s *ServiceImpl) PrintBatchSummary(ctx context.Context) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := s.stats

	// If nothing was processed, don't print summary.
	if stats.TotalProcessed == 0 {
		return
	}

	// Check if the context was canceled (CTRL+C or timeout).
	wasInterrupted := ctx.Err() != nil

	s.printSummaryHeader(ctx, wasInterrupted)
	s.printAccountStatistics(ctx, stats)
	s.printDurationStatistics(ctx, stats)
	s.printSummaryFooter(ctx)
	s.printFailureDetails(ctx, stats)
	s.printFinalMessage(ctx, wasInterrupted, stats)
}

// printSummaryHeader prints the summary header.
func (s *ServiceImpl) printSummaryHeader(ctx context.Context, wasInterrupted bool) {
	logger.Info(ctx, "")
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")

	if wasInterrupted {
		logger.Info(ctx, "           TOKEN ACQUISITION SUMMARY (Interrupted)")
	} else {
		logger.Info(ctx, "                 TOKEN ACQUISITION SUMMARY")
	}

	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// printAccountStatistics prints per-account outcome counts.
func (s *ServiceImpl) printAccountStatistics(ctx context.Context, stats *BatchStatistics) {
	logger.Infof(ctx, "Accounts:         %d total processed", stats.TotalProcessed)

	if stats.Succeeded > 0 {
		logger.Infof(ctx, "  Succeeded:       %d", stats.Succeeded)
	}

	if stats.Skipped > 0 {
		logger.Infof(ctx, "  Skipped:         %d", stats.Skipped)
	}

	if stats.Failed > 0 {
		logger.Infof(ctx, "  Failed:          %d", stats.Failed)
	}

	// Success rate over attempted accounts (skips carry no attempt).
	attempted := stats.Succeeded + stats.Failed
	if attempted > 0 {
		successRate := float64(stats.Succeeded) / float64(attempted) * 100
		logger.Infof(ctx, "  Success Rate:    %.1f%%", successRate)
	}
}

// printDurationStatistics prints the elapsed time if meaningful.
func (s *ServiceImpl) printDurationStatistics(ctx context.Context, stats *BatchStatistics) {
	if stats.StartTime.IsZero() || stats.EndTime.IsZero() {
		return
	}

	duration := stats.EndTime.Sub(stats.StartTime)
	if duration > minMeaningfulDuration {
		logger.Infof(ctx, "Duration:         %s", formatDuration(duration))
	}
}

// printSummaryFooter prints the summary footer separator.
func (s *ServiceImpl) printSummaryFooter(ctx context.Context) {
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// printFailureDetails prints detailed failure information if any occurred.
func (s *ServiceImpl) printFailureDetails(ctx context.Context, stats *BatchStatistics) {
	if stats.Failed == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Errorf(ctx, "FAILURES: %d", stats.Failed)

	index := 0

	for i := range stats.Outcomes {
		if stats.Outcomes[i].Status != OutcomeFailed {
			continue
		}

		index++

		logger.Info(ctx, "")
		logger.Errorf(ctx, "  [%d] %s", index, stats.Outcomes[i].Identifier)
		logger.Errorf(ctx, "      Kind: %s", stats.Outcomes[i].FailureKind)
		logger.Errorf(ctx, "      Error: %s", stats.Outcomes[i].ErrorMessage)
	}

	logger.Info(ctx, "")
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// printFinalMessage prints a closing message based on batch results.
func (s *ServiceImpl) printFinalMessage(ctx context.Context, wasInterrupted bool, stats *BatchStatistics) {
	switch {
	case wasInterrupted:
		logger.Info(ctx, "")
		logger.Warn(ctx, "Batch interrupted by user (CTRL+C).")

		if stats.Succeeded > 0 {
			logger.Infof(ctx, "Acquired %d token(s) before interruption.", stats.Succeeded)
		}
	case stats.Failed > 0:
		logger.Info(ctx, "")
		logger.Warnf(ctx, "%d account(s) failed. See detailed failure log above.", stats.Failed)
	case stats.Succeeded > 0:
		logger.Info(ctx, "")
		logger.Info(ctx, "All tokens acquired successfully!")
	}
}
