package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pwalczak/mailbox-token-grabber/internal/app"
	"github.com/pwalczak/mailbox-token-grabber/internal/config"
	"github.com/pwalczak/mailbox-token-grabber/internal/logger"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run only the local callback server.",
		Long: `Runs the callback server without processing any accounts.

Useful when browser sessions are driven externally: the server exposes
/auth to enter the authorization flow and /callback to exchange
authorization codes and append token records to the store.

Stop with CTRL+C.`,
		Args:             cobra.NoArgs,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := config.ValidateConfig(appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Invalid configuration: %v", err)
			}

			app.ExecuteServeCommand(cmd.Context(), appConfig)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(serveCmd)
}
