package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/pwalczak/mailbox-token-grabber/internal/config"
	"github.com/pwalczak/mailbox-token-grabber/internal/logger"
	"github.com/pwalczak/mailbox-token-grabber/internal/store"
	http_transport "github.com/pwalczak/mailbox-token-grabber/internal/transport/http"
)

const (
	// authRoute starts the authorization flow for manual/browser-driven entry.
	authRoute = "/auth"
	// callbackRoute receives the provider's redirect with the authorization code.
	callbackRoute = "/callback"

	// readHeaderTimeout bounds header parsing on incoming requests.
	readHeaderTimeout = 10 * time.Second

	// shutdownTimeout bounds graceful shutdown of in-flight requests.
	shutdownTimeout = 5 * time.Second

	// seenStatesCacheSize bounds the cache used to flag stale or duplicate
	// redirects. A batch run never has more distinct states than accounts.
	seenStatesCacheSize = 1024
)

// Server is the local HTTP listener handling the OAuth redirect round-trip.
type Server struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// tokenStore receives one record per successful code exchange.
	tokenStore store.Store
	// oauthConfig describes the provider endpoints and client credentials.
	oauthConfig *oauth2.Config
	// exchangeClient is the HTTP client used for the server-to-server code exchange.
	exchangeClient *http.Client
	// httpServer is the underlying HTTP server.
	httpServer *http.Server
	// seenStates tracks states already exchanged, to flag stale redirects in logs.
	seenStates *lru.Cache[string, time.Time]
}

// NewServer creates the callback server. It does not start listening.
func NewServer(cfg *config.Config, tokenStore store.Store) (*Server, error) {
	seenStates, err := lru.New[string, time.Time](seenStatesCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create state cache: %w", err)
	}

	s := &Server{
		cfg:            cfg,
		tokenStore:     tokenStore,
		oauthConfig:    newOAuthConfig(cfg),
		exchangeClient: http_transport.NewDefaultClient(),
		seenStates:     seenStates,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(authRoute, s.handleAuth)
	mux.HandleFunc(callbackRoute, s.handleCallback)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return s, nil
}

// newOAuthConfig builds the provider description from configuration.
func newOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       strings.Fields(cfg.OAuthScope),
		Endpoint:     microsoft.AzureADEndpoint(cfg.OAuthTenant),
	}
}

// AuthorizationURL returns the provider authorization URL for the given state.
// The session orchestrator navigates the browser here directly.
func (s *Server) AuthorizationURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.SetAuthURLParam("response_mode", "query"))
}

// Start binds the listener and serves in the background.
// A bind failure is returned synchronously so the caller can abort the run.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind callback server: %w", err)
	}

	logger.Infof(ctx, "Callback server listening on %s", s.cfg.RedirectURI)

	go func() {
		serveErr := s.httpServer.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Errorf(ctx, "Callback server stopped unexpectedly: %v", serveErr)
		}
	}()

	return nil
}

// Shutdown gracefully stops the listener, waiting for in-flight exchanges.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down callback server: %w", err)
	}

	return nil
}
