package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/pwalczak/mailbox-token-grabber/internal/constants"
)

// validConfig returns a configuration that passes validation.
func validConfig() *Config {
	return &Config{
		ServerPort:           3000,
		RedirectHost:         "localhost",
		OAuthClientID:        "client-id",
		OAuthClientSecret:    "client-secret",
		OAuthScope:           DefaultOAuthScope,
		OAuthTenant:          DefaultOAuthTenant,
		TokensFilePath:       "tokens.txt",
		AccountsFilePath:     "accounts.csv",
		CSVDelimiter:         ";",
		MatchMode:            MatchModeStrict,
		LogLevel:             "info",
		PollInterval:         "1s",
		ConsentTimeout:       "3s",
		TokenWaitTimeout:     "90s",
		NavigationTimeout:    "2m",
		FingerprintMinWidth:  1200,
		FingerprintMaxWidth:  2100,
		FingerprintMinHeight: 900,
		FingerprintMaxHeight: 1500,
	}
}

// TestLoadConfig tests the LoadConfig function.
//
//nolint:paralleltest // Uses the global viper instance.
func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name           string
		configContent  string
		expectError    bool
		verify         func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid config file",
			configContent: `
server_port: 8080
redirect_host: "127.0.0.1"
oauth_client_id: "abc"
oauth_client_secret: "def"
tokens_file: "out/tokens.txt"
accounts_file: "in/accounts.csv"
csv_delimiter: ","
log_level: "debug"
`,
			verify: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "127.0.0.1", cfg.RedirectHost)
				assert.Equal(t, "abc", cfg.OAuthClientID)
				assert.Equal(t, "def", cfg.OAuthClientSecret)
				assert.Equal(t, "out/tokens.txt", cfg.TokensFilePath)
				assert.Equal(t, "in/accounts.csv", cfg.AccountsFilePath)
				assert.Equal(t, ",", cfg.CSVDelimiter)
				assert.Equal(t, "debug", cfg.LogLevel)
				// Untouched keys fall back to defaults.
				assert.Equal(t, DefaultOAuthScope, cfg.OAuthScope)
				assert.Equal(t, DefaultOAuthTenant, cfg.OAuthTenant)
				assert.Equal(t, MatchModeStrict, cfg.MatchMode)
			},
		},
		{
			name: "defaults only",
			configContent: `
oauth_client_id: "abc"
oauth_client_secret: "def"
`,
			verify: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 3000, cfg.ServerPort)
				assert.Equal(t, "localhost", cfg.RedirectHost)
				assert.Equal(t, constants.DefaultTokensFilename, cfg.TokensFilePath)
				assert.Equal(t, constants.DefaultAccountsFilename, cfg.AccountsFilePath)
				assert.Equal(t, ";", cfg.CSVDelimiter)
				assert.Equal(t, "1s", cfg.PollInterval)
				assert.Equal(t, "90s", cfg.TokenWaitTimeout)
				assert.False(t, cfg.Headless)
			},
		},
		{
			name:          "malformed yaml",
			configContent: "server_port: [not a port",
			expectError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()

			configFilename := filepath.Join(t.TempDir(), "config.yaml")
			err := os.WriteFile(configFilename, []byte(tt.configContent), constants.DefaultFilePermissions)
			require.NoError(t, err)

			cfg, err := LoadConfig(configFilename)
			if tt.expectError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.verify(t, cfg)
		})
	}
}

// TestLoadConfig_ExplicitFileMissing tests that a missing explicit config file is an error.
//
//nolint:paralleltest // Uses the global viper instance.
func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	viper.Reset()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
	assert.Nil(t, cfg)
}

// TestLoadConfig_EnvOverride tests environment variable overrides.
//
//nolint:paralleltest // Uses the global viper instance and process environment.
func TestLoadConfig_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("TOKEN_GRABBER_SERVER_PORT", "4100")
	t.Setenv("TOKEN_GRABBER_OAUTH_CLIENT_ID", "env-client")

	configFilename := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(configFilename, []byte("oauth_client_secret: \"secret\"\n"), constants.DefaultFilePermissions)
	require.NoError(t, err)

	cfg, err := LoadConfig(configFilename)
	require.NoError(t, err)

	assert.Equal(t, 4100, cfg.ServerPort)
	assert.Equal(t, "env-client", cfg.OAuthClientID)
	assert.Equal(t, "secret", cfg.OAuthClientSecret)
}

// TestValidateConfig tests the ValidateConfig function.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		mutate        func(cfg *Config)
		expectedError error
	}{
		{
			name:   "valid config",
			mutate: func(_ *Config) {},
		},
		{
			name:          "empty client id",
			mutate:        func(cfg *Config) { cfg.OAuthClientID = "  " },
			expectedError: ErrEmptyClientID,
		},
		{
			name:          "empty client secret",
			mutate:        func(cfg *Config) { cfg.OAuthClientSecret = "" },
			expectedError: ErrEmptyClientSecret,
		},
		{
			name:          "port too low",
			mutate:        func(cfg *Config) { cfg.ServerPort = 0 },
			expectedError: ErrInvalidServerPort,
		},
		{
			name:          "port too high",
			mutate:        func(cfg *Config) { cfg.ServerPort = 70000 },
			expectedError: ErrInvalidServerPort,
		},
		{
			name:          "empty tokens file",
			mutate:        func(cfg *Config) { cfg.TokensFilePath = "" },
			expectedError: ErrEmptyTokensFile,
		},
		{
			name:          "empty accounts file",
			mutate:        func(cfg *Config) { cfg.AccountsFilePath = "" },
			expectedError: ErrEmptyAccountsFile,
		},
		{
			name:          "multi-character delimiter",
			mutate:        func(cfg *Config) { cfg.CSVDelimiter = ";;" },
			expectedError: ErrInvalidDelimiter,
		},
		{
			name:          "empty delimiter",
			mutate:        func(cfg *Config) { cfg.CSVDelimiter = "" },
			expectedError: ErrInvalidDelimiter,
		},
		{
			name:          "unknown match mode",
			mutate:        func(cfg *Config) { cfg.MatchMode = "fuzzy" },
			expectedError: ErrUnknownMatchMode,
		},
		{
			name:          "unknown log level",
			mutate:        func(cfg *Config) { cfg.LogLevel = "loud" },
			expectedError: ErrUnknownLogLevel,
		},
		{
			name:          "zero poll interval",
			mutate:        func(cfg *Config) { cfg.PollInterval = "0s" },
			expectedError: ErrInvalidPollInterval,
		},
		{
			name:          "negative consent timeout",
			mutate:        func(cfg *Config) { cfg.ConsentTimeout = "-5s" },
			expectedError: ErrInvalidConsentTimeout,
		},
		{
			name:          "zero token wait timeout",
			mutate:        func(cfg *Config) { cfg.TokenWaitTimeout = "0s" },
			expectedError: ErrInvalidTokenWaitTimeout,
		},
		{
			name:          "zero navigation timeout",
			mutate:        func(cfg *Config) { cfg.NavigationTimeout = "0s" },
			expectedError: ErrInvalidNavigationTimeout,
		},
		{
			name: "inverted fingerprint bounds",
			mutate: func(cfg *Config) {
				cfg.FingerprintMinWidth = 3000
			},
			expectedError: ErrInvalidFingerprintBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				return
			}

			require.NoError(t, err)
		})
	}
}

// TestValidateConfig_DerivedFields tests that validation fills in derived fields.
func TestValidateConfig_DerivedFields(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.ServerPort = 3456
	cfg.RedirectHost = "127.0.0.1"
	cfg.CSVDelimiter = "\t"
	cfg.LogLevel = "debug"

	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, "http://127.0.0.1:3456/callback", cfg.RedirectURI)
	assert.Equal(t, '\t', cfg.ParsedCSVDelimiter)
	assert.Equal(t, zapcore.DebugLevel, cfg.ParsedLogLevel)
	assert.Equal(t, time.Second, cfg.ParsedPollInterval)
	assert.Equal(t, 3*time.Second, cfg.ParsedConsentTimeout)
	assert.Equal(t, 90*time.Second, cfg.ParsedTokenWaitTimeout)
	assert.Equal(t, 2*time.Minute, cfg.ParsedNavigationTimeout)
}
