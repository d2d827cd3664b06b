package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pwalczak/mailbox-token-grabber/internal/logger"
)

// ErrTokenWaitTimeout is returned when no matching record appears before the deadline.
// Distinct from provider errors: the exchange may have failed silently, or the
// record may simply not be visible yet.
var ErrTokenWaitTimeout = errors.New("timed out waiting for token record")

// Waiter polls a Store until a record for a specific identifier shows up.
// It deliberately knows nothing about the callback server: the store file is
// the only coupling between writer and reader.
type Waiter struct {
	// store is the polled token store.
	store Store
	// pollInterval is the pause between store inspections.
	pollInterval time.Duration
	// waitTimeout bounds the total wait per identifier.
	waitTimeout time.Duration
}

// NewWaiter creates a waiter polling the given store.
func NewWaiter(store Store, pollInterval, waitTimeout time.Duration) *Waiter {
	return &Waiter{
		store:        store,
		pollInterval: pollInterval,
		waitTimeout:  waitTimeout,
	}
}

// AwaitToken blocks until a record matching the identifier is found, the
// configured timeout elapses, or ctx is canceled. It returns nil on match,
// ErrTokenWaitTimeout (wrapped) on deadline expiry, and ctx.Err() on cancellation.
func (w *Waiter) AwaitToken(ctx context.Context, identifier string) error {
	deadline := time.Now().Add(w.waitTimeout)

	for {
		found, err := w.store.FindState(ctx, identifier)
		if err != nil {
			// Transient read failures do not abort the wait; the deadline still bounds it.
			logger.Warnf(ctx, "Token store poll failed: %v", err)
		}

		if found {
			return nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fmt.Errorf("%w: no record for %q within %s", ErrTokenWaitTimeout, identifier, w.waitTimeout)
		}

		pause := w.pollInterval
		if pause > remaining {
			pause = remaining
		}

		timer := time.NewTimer(pause)

		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case <-timer.C:
		}
	}
}
