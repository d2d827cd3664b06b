package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pwalczak/mailbox-token-grabber/internal/app"
	"github.com/pwalczak/mailbox-token-grabber/internal/config"
	"github.com/pwalczak/mailbox-token-grabber/internal/logger"
	"github.com/pwalczak/mailbox-token-grabber/internal/version"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "mailbox-token-grabber [flags]",
		Short: "Acquire OAuth2 mailbox tokens for a list of accounts.",
		Long: `Mailbox Token Grabber acquires OAuth2 access/refresh token pairs for a list
of accounts by driving a browser through the authorization-code flow.

For each account it:
- opens a browser session at the provider's authorization URL,
- captures the returned authorization code on a local callback server,
- exchanges the code for tokens and appends a record to the token store,
- waits until the record is durably written before moving on.

One account's failure never stops the batch; a summary is printed at the end.`,
		Args:             cobra.NoArgs,
		Version:          version.Full(),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			app.ExecuteRootCommand(cmd.Context(), appConfig)
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.StringP(
		"accounts",
		"a",
		"",
		"path to the account source file.")

	rootCmdFlags.StringP(
		"tokens",
		"t",
		"",
		"path to the token store file.")

	rootCmdFlags.IntP(
		"port",
		"p",
		0,
		"port for the local callback server.")

	rootCmdFlags.StringP(
		"delimiter",
		"d",
		"",
		"column delimiter of the account source file.")

	rootCmdFlags.Bool(
		"headless",
		false,
		"run the browser without a visible window.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("accounts"); flag != nil && flag.Changed {
		cfg.AccountsFilePath, _ = flags.GetString("accounts")
	}

	if flag := flags.Lookup("tokens"); flag != nil && flag.Changed {
		cfg.TokensFilePath, _ = flags.GetString("tokens")
	}

	if flag := flags.Lookup("port"); flag != nil && flag.Changed {
		cfg.ServerPort, _ = flags.GetInt("port")
	}

	if flag := flags.Lookup("delimiter"); flag != nil && flag.Changed {
		cfg.CSVDelimiter, _ = flags.GetString("delimiter")
	}

	if flag := flags.Lookup("headless"); flag != nil && flag.Changed {
		cfg.Headless, _ = flags.GetBool("headless")
	}

	return config.ValidateConfig(cfg)
}
