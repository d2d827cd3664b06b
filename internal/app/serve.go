package app

import (
	"context"

	"github.com/pwalczak/mailbox-token-grabber/internal/config"
	"github.com/pwalczak/mailbox-token-grabber/internal/logger"
	"github.com/pwalczak/mailbox-token-grabber/internal/server"
	"github.com/pwalczak/mailbox-token-grabber/internal/store"
)

// ExecuteServeCommand runs only the callback server until interrupted.
// Browser sessions are expected to be driven externally.
func ExecuteServeCommand(ctx context.Context, cfg *config.Config) {
	matchMode, recognized := store.ParseMatchMode(cfg.MatchMode)
	if !recognized {
		logger.Fatalf(ctx, "Unknown match mode: %q", cfg.MatchMode)
	}

	tokenStore := store.NewFileStore(cfg.TokensFilePath, matchMode)

	callbackServer, err := server.NewServer(cfg, tokenStore)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize callback server: %v", err)
	}

	if err = callbackServer.Start(ctx); err != nil {
		logger.Fatalf(ctx, "Failed to start callback server: %v", err)
	}

	logger.Info(ctx, "Press CTRL+C to stop")

	<-ctx.Done()

	if err = callbackServer.Shutdown(context.Background()); err != nil {
		logger.Errorf(ctx, "Callback server shutdown failed: %v", err)
	}
}
