package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/pwalczak/mailbox-token-grabber/internal/constants"
	"github.com/pwalczak/mailbox-token-grabber/internal/logger"
)

// Config holds all configuration settings.
type Config struct {
	// ServerPort is the port the local callback server listens on.
	ServerPort int `mapstructure:"server_port"`
	// RedirectHost is the host part of the OAuth redirect URI.
	RedirectHost string `mapstructure:"redirect_host"`
	// OAuthClientID is the OAuth2 application (client) id.
	OAuthClientID string `mapstructure:"oauth_client_id"`
	// OAuthClientSecret is the OAuth2 client secret used for the code exchange.
	OAuthClientSecret string `mapstructure:"oauth_client_secret"`
	// OAuthScope is the space-separated scope string requested during authorization.
	OAuthScope string `mapstructure:"oauth_scope"`
	// OAuthTenant is the identity provider tenant ("common" for multi-tenant).
	OAuthTenant string `mapstructure:"oauth_tenant"`
	// TokensFilePath is the path of the append-only token store file.
	TokensFilePath string `mapstructure:"tokens_file"`
	// AccountsFilePath is the path of the delimited account source file.
	AccountsFilePath string `mapstructure:"accounts_file"`
	// CSVDelimiter is the field separator of the account source (single character).
	CSVDelimiter string `mapstructure:"csv_delimiter"`
	// CSVHeaders forces column names for the account source.
	// When empty, headers are inferred from the first row.
	CSVHeaders []string `mapstructure:"csv_headers"`
	// MatchMode selects how token records are correlated with identifiers:
	// "strict" compares the first tab-delimited field, "substring" reproduces
	// the legacy whole-line containment check.
	MatchMode string `mapstructure:"match_mode"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// PollInterval is the interval between token store polls (e.g. "1s").
	PollInterval string `mapstructure:"poll_interval"`
	// ConsentTimeout bounds the wait for the interstitial consent control.
	ConsentTimeout string `mapstructure:"consent_timeout"`
	// TokenWaitTimeout bounds the wait for a token record to appear in the store.
	TokenWaitTimeout string `mapstructure:"token_wait_timeout"`
	// NavigationTimeout bounds browser navigation to the authorization URL.
	NavigationTimeout string `mapstructure:"navigation_timeout"`
	// Headless controls whether the browser window is shown.
	// Interactive consent usually requires a visible browser.
	Headless bool `mapstructure:"headless"`
	// FingerprintTags constrains the device fingerprint requested from the
	// external fingerprint capability. Carried to that boundary, not interpreted here.
	FingerprintTags []string `mapstructure:"fingerprint_tags"`
	// FingerprintMinWidth is the minimum browser window width.
	FingerprintMinWidth int64 `mapstructure:"fingerprint_min_width"`
	// FingerprintMaxWidth is the maximum browser window width.
	FingerprintMaxWidth int64 `mapstructure:"fingerprint_max_width"`
	// FingerprintMinHeight is the minimum browser window height.
	FingerprintMinHeight int64 `mapstructure:"fingerprint_min_height"`
	// FingerprintMaxHeight is the maximum browser window height.
	FingerprintMaxHeight int64 `mapstructure:"fingerprint_max_height"`
	// ProxyURL routes browser traffic through a proxy when set.
	ProxyURL string `mapstructure:"proxy_url"`
	// CaptchaAPIKey is the credential for the external captcha-solving capability.
	// Carried to that boundary, not interpreted here.
	CaptchaAPIKey string `mapstructure:"captcha_api_key"`

	// RedirectURI is the full OAuth redirect URI derived from host and port.
	RedirectURI string
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedCSVDelimiter is the delimiter as a rune.
	ParsedCSVDelimiter rune
	// ParsedPollInterval is the parsed token store poll interval.
	ParsedPollInterval time.Duration
	// ParsedConsentTimeout is the parsed consent wait bound.
	ParsedConsentTimeout time.Duration
	// ParsedTokenWaitTimeout is the parsed token wait bound.
	ParsedTokenWaitTimeout time.Duration
	// ParsedNavigationTimeout is the parsed navigation bound.
	ParsedNavigationTimeout time.Duration
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".mailbox-token-grabber.yaml"

	// envPrefix is the prefix of environment variables recognized by the application.
	envPrefix = "TOKEN_GRABBER"

	// DefaultOAuthScope requests IMAP access plus a refresh token.
	DefaultOAuthScope = "https://outlook.office.com/IMAP.AccessAsUser.All offline_access"

	// DefaultOAuthTenant is the multi-tenant authorization endpoint.
	DefaultOAuthTenant = "common"

	// minServerPort and maxServerPort bound the listener port option.
	minServerPort = 1
	maxServerPort = 65535
)

// Static error definitions for better error handling.
var (
	// ErrEmptyClientID indicates that the OAuth client id is missing.
	ErrEmptyClientID = errors.New("oauth_client_id cannot be empty")
	// ErrEmptyClientSecret indicates that the OAuth client secret is missing.
	ErrEmptyClientSecret = errors.New("oauth_client_secret cannot be empty")
	// ErrInvalidServerPort indicates that the server port is out of range.
	ErrInvalidServerPort = errors.New("invalid server_port")
	// ErrEmptyTokensFile indicates that the token store path is missing.
	ErrEmptyTokensFile = errors.New("tokens_file cannot be empty")
	// ErrEmptyAccountsFile indicates that the account source path is missing.
	ErrEmptyAccountsFile = errors.New("accounts_file cannot be empty")
	// ErrInvalidDelimiter indicates that the CSV delimiter is not a single character.
	ErrInvalidDelimiter = errors.New("csv_delimiter must be a single character")
	// ErrUnknownMatchMode indicates that the match mode is not recognized.
	ErrUnknownMatchMode = errors.New("match_mode must be 'strict' or 'substring'")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidPollInterval indicates that the poll interval is not positive.
	ErrInvalidPollInterval = errors.New("poll_interval must be positive")
	// ErrInvalidConsentTimeout indicates that the consent timeout is not positive.
	ErrInvalidConsentTimeout = errors.New("consent_timeout must be positive")
	// ErrInvalidTokenWaitTimeout indicates that the token wait timeout is not positive.
	ErrInvalidTokenWaitTimeout = errors.New("token_wait_timeout must be positive")
	// ErrInvalidNavigationTimeout indicates that the navigation timeout is not positive.
	ErrInvalidNavigationTimeout = errors.New("navigation_timeout must be positive")
	// ErrInvalidFingerprintBounds indicates inverted fingerprint dimension bounds.
	ErrInvalidFingerprintBounds = errors.New("fingerprint min dimensions cannot exceed max dimensions")
)

// MatchMode values recognized in configuration.
const (
	// MatchModeStrict compares the identifier against the first tab-delimited field.
	MatchModeStrict = "strict"
	// MatchModeSubstring reproduces the legacy whole-line containment check.
	// Imprecise: an identifier that is a substring of another satisfies the wrong wait.
	MatchModeSubstring = "substring"
)

// setDefaults registers every recognized option so environment variables are
// picked up by viper even without a configuration file.
func setDefaults() {
	viper.SetDefault("server_port", 3000)
	viper.SetDefault("redirect_host", "localhost")
	viper.SetDefault("oauth_client_id", "")
	viper.SetDefault("oauth_client_secret", "")
	viper.SetDefault("oauth_scope", DefaultOAuthScope)
	viper.SetDefault("oauth_tenant", DefaultOAuthTenant)
	viper.SetDefault("tokens_file", constants.DefaultTokensFilename)
	viper.SetDefault("accounts_file", constants.DefaultAccountsFilename)
	viper.SetDefault("csv_delimiter", ";")
	viper.SetDefault("csv_headers", []string{})
	viper.SetDefault("match_mode", MatchModeStrict)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("poll_interval", "1s")
	viper.SetDefault("consent_timeout", "3s")
	viper.SetDefault("token_wait_timeout", "90s")
	viper.SetDefault("navigation_timeout", "2m")
	viper.SetDefault("headless", false)
	viper.SetDefault("fingerprint_tags", []string{"Desktop", "Chrome"})
	viper.SetDefault("fingerprint_min_width", 1200)
	viper.SetDefault("fingerprint_max_width", 2100)
	viper.SetDefault("fingerprint_min_height", 900)
	viper.SetDefault("fingerprint_max_height", 1500)
	viper.SetDefault("proxy_url", "")
	viper.SetDefault("captcha_api_key", "")
}

// LoadConfig loads configuration settings from, in increasing precedence:
// defaults, an optional YAML file, a .env file, and TOKEN_GRABBER_* environment
// variables. An explicitly passed configFilename must exist; the default file
// is optional.
func LoadConfig(configFilename string) (*Config, error) {
	// Populate the process environment from .env, if present.
	// Existing variables are not overwritten.
	_ = godotenv.Load(constants.DefaultEnvFilename)

	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	explicitFile := configFilename != ""
	if !explicitFile {
		configFilename = DefaultConfigFilename
	}

	viper.SetConfigFile(configFilename)

	if err := viper.ReadInConfig(); err != nil {
		if explicitFile || !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:funlen,gocognit,cyclop // Validation functions naturally have high complexity and length due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var err error

	if strings.TrimSpace(cfg.OAuthClientID) == "" {
		return ErrEmptyClientID
	}

	if strings.TrimSpace(cfg.OAuthClientSecret) == "" {
		return ErrEmptyClientSecret
	}

	if cfg.ServerPort < minServerPort || cfg.ServerPort > maxServerPort {
		return fmt.Errorf("%w: must be between %d and %d", ErrInvalidServerPort, minServerPort, maxServerPort)
	}

	if strings.TrimSpace(cfg.TokensFilePath) == "" {
		return ErrEmptyTokensFile
	}

	if strings.TrimSpace(cfg.AccountsFilePath) == "" {
		return ErrEmptyAccountsFile
	}

	if utf8.RuneCountInString(cfg.CSVDelimiter) != 1 {
		return fmt.Errorf("%w: got %q", ErrInvalidDelimiter, cfg.CSVDelimiter)
	}

	cfg.ParsedCSVDelimiter, _ = utf8.DecodeRuneInString(cfg.CSVDelimiter)

	if cfg.MatchMode != MatchModeStrict && cfg.MatchMode != MatchModeSubstring {
		return fmt.Errorf("%w: got %q", ErrUnknownMatchMode, cfg.MatchMode)
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	cfg.ParsedPollInterval, err = time.ParseDuration(cfg.PollInterval)
	if err != nil {
		return fmt.Errorf("failed to parse poll interval: %w", err)
	}

	if cfg.ParsedPollInterval <= 0 {
		return ErrInvalidPollInterval
	}

	cfg.ParsedConsentTimeout, err = time.ParseDuration(cfg.ConsentTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse consent timeout: %w", err)
	}

	if cfg.ParsedConsentTimeout <= 0 {
		return ErrInvalidConsentTimeout
	}

	cfg.ParsedTokenWaitTimeout, err = time.ParseDuration(cfg.TokenWaitTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse token wait timeout: %w", err)
	}

	if cfg.ParsedTokenWaitTimeout <= 0 {
		return ErrInvalidTokenWaitTimeout
	}

	cfg.ParsedNavigationTimeout, err = time.ParseDuration(cfg.NavigationTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse navigation timeout: %w", err)
	}

	if cfg.ParsedNavigationTimeout <= 0 {
		return ErrInvalidNavigationTimeout
	}

	if cfg.FingerprintMinWidth > cfg.FingerprintMaxWidth ||
		cfg.FingerprintMinHeight > cfg.FingerprintMaxHeight {
		return ErrInvalidFingerprintBounds
	}

	cfg.RedirectURI = fmt.Sprintf("http://%s:%d/callback", cfg.RedirectHost, cfg.ServerPort)

	return nil
}
