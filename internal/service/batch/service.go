package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/pwalczak/mailbox-token-grabber/internal/logger"
	"github.com/pwalczak/mailbox-token-grabber/internal/service/session"
	"github.com/pwalczak/mailbox-token-grabber/internal/source"
)

// Service runs the acquisition batch over a list of accounts.
type Service interface {
	// Run processes the accounts sequentially. A single account's failure
	// never halts the batch; interruption via ctx stops before the next record.
	Run(ctx context.Context, accounts []source.Account)

	// PrintBatchSummary prints a formatted summary of batch results.
	PrintBatchSummary(ctx context.Context)
}

// ServiceImpl implements Service on top of the session orchestrator.
type ServiceImpl struct {
	sessionService session.Service
	stats          *BatchStatistics
	statsMutex     sync.Mutex
}

// NewService creates a new batch driver.
func NewService(sessionService session.Service) *ServiceImpl {
	return &ServiceImpl{
		sessionService: sessionService,
		stats:          &BatchStatistics{},
	}
}

// Run processes the accounts one at a time, never concurrently.
func (s *ServiceImpl) Run(ctx context.Context, accounts []source.Account) {
	s.statsMutex.Lock()
	s.stats.StartTime = time.Now()
	s.statsMutex.Unlock()

	defer func() {
		s.statsMutex.Lock()
		s.stats.EndTime = time.Now()
		s.statsMutex.Unlock()
	}()

	accountsCount := len(accounts)
	logger.Infof(ctx, "Processing %d account(s)", accountsCount)

	bar := s.newProgressBar(accountsCount)

	for index, account := range accounts {
		// Check if context was canceled (CTRL+C pressed) - stop immediately.
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.processAccount(ctx, account, index+1, accountsCount)

		if bar != nil {
			//nolint:errcheck // Progress rendering failures are cosmetic.
			_ = bar.Add(1)
		}
	}
}

// newProgressBar returns a progress tracker across accounts.
// Disabled in debug mode to avoid conflicts with trace output.
func (s *ServiceImpl) newProgressBar(total int) *progressbar.ProgressBar {
	if logger.IsDebugLevel() || total == 0 {
		return nil
	}

	return progressbar.Default(int64(total), "Accounts")
}

// processAccount runs one record through the session orchestrator and records
// the outcome. Records without an identifier are skipped without a session.
func (s *ServiceImpl) processAccount(ctx context.Context, account source.Account, position, total int) {
	if account.Identifier == "" {
		logger.Warnf(ctx, "Skipping record without identifier (%d / %d)", position, total)
		s.recordSkip()

		return
	}

	logger.Infof(ctx, "Processing account %q (%d / %d)", account.Identifier, position, total)

	if err := s.acquireToken(ctx, account); err != nil {
		logger.Errorf(ctx, "Failed to acquire token for %q: %v", account.Identifier, err)
		s.recordFailure(account.Identifier, err)

		return
	}

	s.recordSuccess(account.Identifier)
}

// acquireToken runs one session and converts an escaping panic into a
// recorded failure, so the remaining accounts are still attempted.
func (s *ServiceImpl) acquireToken(ctx context.Context, account source.Account) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: recovered from panic: %v", session.ErrBrowserLaunch, r)
		}
	}()

	return s.sessionService.AcquireToken(ctx, account)
}
