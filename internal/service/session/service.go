package session

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pwalczak/mailbox-token-grabber/internal/config"
	"github.com/pwalczak/mailbox-token-grabber/internal/logger"
	"github.com/pwalczak/mailbox-token-grabber/internal/source"
)

const (
	// browserSlowMotionDelay is the delay between browser actions for visibility during debugging.
	browserSlowMotionDelay = 200 * time.Millisecond

	// browserCleanupDelay is the delay to wait for Chrome to release file locks before cleanup.
	browserCleanupDelay = 500 * time.Millisecond

	// consentControlSelector matches the interstitial consent control some
	// providers show before the final redirect. Absence is not a failure.
	consentControlSelector = `input[name="ucaccept"], button#accept`
)

var (
	// ErrBrowserLaunch is returned when the browser cannot be started or attached to.
	ErrBrowserLaunch = errors.New("failed to launch browser")

	// ErrNavigationFailed is returned when the authorization page cannot be loaded.
	ErrNavigationFailed = errors.New("failed to load authorization page")

	// ErrConsentFailed is returned when the consent control is present but cannot be activated.
	ErrConsentFailed = errors.New("failed to activate consent control")
)

// AuthorizationURLBuilder yields the provider authorization URL carrying the
// given state. The callback server implements it.
type AuthorizationURLBuilder interface {
	AuthorizationURL(state string) string
}

// TokenWaiter blocks until a token record for the identifier appears in the store.
type TokenWaiter interface {
	AwaitToken(ctx context.Context, identifier string) error
}

// Service acquires one token pair per account through a browser session.
type Service interface {
	// AcquireToken runs one full acquisition attempt for the account.
	// The browser session is released on every exit path.
	AcquireToken(ctx context.Context, account source.Account) error
}

// ServiceImpl implements Service on top of a rod-driven browser.
type ServiceImpl struct {
	cfg        *config.Config
	urlBuilder AuthorizationURLBuilder
	waiter     TokenWaiter
}

// NewService creates a new session orchestrator.
func NewService(cfg *config.Config, urlBuilder AuthorizationURLBuilder, waiter TokenWaiter) *ServiceImpl {
	return &ServiceImpl{
		cfg:        cfg,
		urlBuilder: urlBuilder,
		waiter:     waiter,
	}
}

// AcquireToken drives a single account through the authorization-code flow.
func (s *ServiceImpl) AcquireToken(ctx context.Context, account source.Account) (err error) {
	sess := &browserSession{
		id:    uuid.NewString(),
		state: StateCreated,
	}

	logger.Infof(ctx, "Starting token acquisition for %q (session %s)", account.Identifier, sess.id)

	// rod reports some browser faults by panicking. The caller only ever sees
	// an error, so one broken session cannot take the whole run down.
	defer func() {
		if r := recover(); r != nil {
			sess.state = StateFailed
			err = fmt.Errorf("%w: recovered from panic: %v", ErrBrowserLaunch, r)
		}
	}()

	defer sess.close(ctx)

	if err := sess.launch(ctx, s.cfg); err != nil {
		sess.state = StateFailed

		return fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	sess.state = StateNavigating

	authorizationURL := s.urlBuilder.AuthorizationURL(account.Identifier)
	if err := sess.navigate(ctx, authorizationURL, s.cfg.ParsedNavigationTimeout); err != nil {
		sess.state = StateFailed

		return fmt.Errorf("%w: %v", ErrNavigationFailed, err)
	}

	sess.state = StateAwaitingConsent

	if err := sess.acceptConsent(ctx, s.cfg.ParsedConsentTimeout); err != nil {
		sess.state = StateFailed

		return fmt.Errorf("%w: %v", ErrConsentFailed, err)
	}

	sess.state = StateAwaitingToken

	if err := s.waiter.AwaitToken(ctx, account.Identifier); err != nil {
		sess.state = StateFailed

		return fmt.Errorf("token was not confirmed for %q: %w", account.Identifier, err)
	}

	sess.state = StateCompleted

	logger.Infof(ctx, "Token confirmed for %q (session %s)", account.Identifier, sess.id)

	return nil
}
