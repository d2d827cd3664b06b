package session

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/pwalczak/mailbox-token-grabber/internal/config"
	"github.com/pwalczak/mailbox-token-grabber/internal/logger"
)

// browserSession owns one browser instance plus its single page, scoped to
// exactly one account.
type browserSession struct {
	id      string
	state   State
	browser *rod.Browser
	page    *rod.Page
	// tempDir stores the temporary profile directory for cleanup.
	tempDir string
}

// launch starts a browser with a fresh temporary profile.
func (bs *browserSession) launch(ctx context.Context, cfg *config.Config) error {
	logger.Debugf(ctx, "Initializing browser for session %s", bs.id)

	// Fresh profile per session: no cookies or cached consent leak between accounts.
	tempDir, err := os.MkdirTemp("", "token-grabber-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary user data directory: %w", err)
	}

	bs.tempDir = tempDir

	browserLauncher := launcher.New().
		Headless(cfg.Headless).
		UserDataDir(tempDir)

	if cfg.ProxyURL != "" {
		logger.Debugf(ctx, "Routing session %s through proxy %s", bs.id, cfg.ProxyURL)

		browserLauncher = browserLauncher.Proxy(cfg.ProxyURL)
	}

	// Prefer a system Chrome installation; fall back to downloading Chromium.
	if chromePath, exists := launcher.LookPath(); exists {
		logger.Debugf(ctx, "Using system Chrome installation at: %s", chromePath)

		browserLauncher = browserLauncher.Bin(chromePath)
	} else {
		logger.Debug(ctx, "System Chrome not found, downloading Chromium")
	}

	launcherURL, err := browserLauncher.Launch()
	if err != nil {
		return fmt.Errorf("failed to start browser process: %w", err)
	}

	logger.Debugf(ctx, "Browser launched at: %s", launcherURL)

	browserInstance := rod.New().ControlURL(launcherURL)

	// Enable trace and slow motion only in debug mode.
	if logger.IsDebugLevel() {
		browserInstance = browserInstance.
			Trace(true).
			SlowMotion(browserSlowMotionDelay)
	}

	if err = browserInstance.Connect(); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}

	bs.browser = browserInstance

	page, err := browserInstance.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}

	bs.page = page
	bs.state = StateBrowserLaunched

	return nil
}

// navigate loads the authorization URL and waits for the page, bounded by timeout.
func (bs *browserSession) navigate(ctx context.Context, url string, timeout time.Duration) error {
	logger.Debugf(ctx, "Navigating session %s to authorization URL", bs.id)

	page := bs.page.Context(ctx).Timeout(timeout)

	if err := page.Navigate(url); err != nil {
		return err
	}

	return page.WaitLoad()
}

// acceptConsent waits for the interstitial consent control and activates it
// when present. The control legitimately may not appear; only a failed click
// on a present control is an error.
func (bs *browserSession) acceptConsent(ctx context.Context, timeout time.Duration) error {
	element, err := bs.page.Context(ctx).Timeout(timeout).Element(consentControlSelector)
	if err != nil {
		logger.Debugf(ctx, "No consent control within %s for session %s, continuing", timeout, bs.id)

		return nil
	}

	logger.Debugf(ctx, "Consent control found for session %s, activating", bs.id)

	return element.Click(proto.InputMouseButtonLeft, 1)
}

// close releases the browser and the temporary profile directory.
func (bs *browserSession) close(ctx context.Context) {
	defer func() {
		bs.state = StateClosed
	}()

	if bs.browser != nil {
		if err := bs.browser.Close(); err != nil {
			logger.Debugf(ctx, "Browser close error (expected): %v", err)
		}
	}

	if bs.tempDir != "" {
		// Give Chrome a moment to release file locks.
		time.Sleep(browserCleanupDelay)

		if err := os.RemoveAll(bs.tempDir); err != nil {
			// Can fail if Chrome hasn't fully exited. Not critical.
			logger.Debugf(ctx, "Could not clean up temp directory %s: %v", bs.tempDir, err)
		}
	}
}
