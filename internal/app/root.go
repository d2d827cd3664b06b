package app

import (
	"context"

	"github.com/pwalczak/mailbox-token-grabber/internal/config"
	"github.com/pwalczak/mailbox-token-grabber/internal/logger"
	"github.com/pwalczak/mailbox-token-grabber/internal/server"
	"github.com/pwalczak/mailbox-token-grabber/internal/service/batch"
	"github.com/pwalczak/mailbox-token-grabber/internal/service/session"
	"github.com/pwalczak/mailbox-token-grabber/internal/source"
	"github.com/pwalczak/mailbox-token-grabber/internal/store"
)

// ExecuteRootCommand is the entry point for a batch run.
// It starts the callback server, reads the account source, and processes
// every account through the session orchestrator.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config) {
	matchMode, recognized := store.ParseMatchMode(cfg.MatchMode)
	if !recognized {
		logger.Fatalf(ctx, "Unknown match mode: %q", cfg.MatchMode)
	}

	tokenStore := store.NewFileStore(cfg.TokensFilePath, matchMode)
	waiter := store.NewWaiter(tokenStore, cfg.ParsedPollInterval, cfg.ParsedTokenWaitTimeout)

	callbackServer, err := server.NewServer(cfg, tokenStore)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize callback server: %v", err)
	}

	// A taken port must fail the run before any account is processed.
	if err = callbackServer.Start(ctx); err != nil {
		logger.Fatalf(ctx, "Failed to start callback server: %v", err)
	}

	defer func() {
		// ctx is usually canceled by this point, shut down on a fresh one.
		if shutdownErr := callbackServer.Shutdown(context.Background()); shutdownErr != nil {
			logger.Errorf(ctx, "Callback server shutdown failed: %v", shutdownErr)
		}
	}()

	accounts, err := source.ReadAccounts(ctx, cfg.AccountsFilePath, source.Options{
		Delimiter: cfg.ParsedCSVDelimiter,
		Headers:   cfg.CSVHeaders,
	})
	if err != nil {
		logger.Fatalf(ctx, "Failed to read account source: %v", err)
	}

	sessionService := session.NewService(cfg, callbackServer, waiter)
	batchService := batch.NewService(sessionService)

	// Ensure the summary is ALWAYS printed, even on panic.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		batchService.PrintBatchSummary(ctx)
	}()

	batchService.Run(ctx, accounts)
}
