package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pwalczak/mailbox-token-grabber/internal/config"
	mock_session "github.com/pwalczak/mailbox-token-grabber/internal/service/session/mocks"
)

// TestNewService tests the NewService function.
func TestNewService(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := &config.Config{}
	urlBuilder := mock_session.NewMockAuthorizationURLBuilder(ctrl)
	waiter := mock_session.NewMockTokenWaiter(ctrl)

	service := NewService(cfg, urlBuilder, waiter)

	require.NotNil(t, service)
	assert.Equal(t, cfg, service.cfg)
}

// TestSentinelErrors tests that all sentinel errors are defined and have proper messages.
func TestSentinelErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		err   error
		wants string
	}{
		{
			name:  "ErrBrowserLaunch",
			err:   ErrBrowserLaunch,
			wants: "failed to launch browser",
		},
		{
			name:  "ErrNavigationFailed",
			err:   ErrNavigationFailed,
			wants: "failed to load authorization page",
		},
		{
			name:  "ErrConsentFailed",
			err:   ErrConsentFailed,
			wants: "failed to activate consent control",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Error(t, tt.err)
			assert.Equal(t, tt.wants, tt.err.Error())
		})
	}
}

// TestConstants tests that the consent selector and timings are properly defined.
func TestConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `input[name="ucaccept"], button#accept`, consentControlSelector)
	assert.Equal(t, 200, int(browserSlowMotionDelay.Milliseconds()))
	assert.Equal(t, 500, int(browserCleanupDelay.Milliseconds()))
}

// TestBrowserSession_Close tests the close function.
func TestBrowserSession_Close(t *testing.T) {
	t.Parallel()

	sess := &browserSession{
		// No browser initialized.
		state: StateCreated,
	}

	// Should not panic even with nil browser.
	assert.NotPanics(t, func() {
		sess.close(context.Background())
	})

	assert.Equal(t, StateClosed, sess.state)
}
