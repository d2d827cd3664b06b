package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/pwalczak/mailbox-token-grabber/internal/config"
	"github.com/pwalczak/mailbox-token-grabber/internal/constants"
	"github.com/pwalczak/mailbox-token-grabber/internal/store"
)

// testServerSetup bundles a callback server with its token store and a stubbed provider.
type testServerSetup struct {
	server     *Server
	tokenStore *store.FileStore
	storePath  string
}

// newTestServerSetup builds a callback server whose token endpoint points at
// the given stub. Pass an empty URL when no exchange is expected.
func newTestServerSetup(t *testing.T, tokenEndpointURL string) *testServerSetup {
	t.Helper()

	storePath := filepath.Join(t.TempDir(), "tokens.txt")
	tokenStore := store.NewFileStore(storePath, store.MatchModeStrict)

	cfg := &config.Config{
		ServerPort:        3000,
		OAuthClientID:     "client-id",
		OAuthClientSecret: "client-secret",
		OAuthScope:        "scope-a scope-b",
		OAuthTenant:       "common",
		RedirectURI:       "http://localhost:3000/callback",
	}

	s, err := NewServer(cfg, tokenStore)
	require.NoError(t, err)

	// Point the provider endpoints at the stub.
	s.oauthConfig.Endpoint = oauth2.Endpoint{
		AuthURL:  "https://provider.example.com/authorize",
		TokenURL: tokenEndpointURL,
	}

	return &testServerSetup{
		server:     s,
		tokenStore: tokenStore,
		storePath:  storePath,
	}
}

// newTokenEndpointStub returns a stub provider token endpoint.
func newTokenEndpointStub(t *testing.T, accessToken, refreshToken string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.NotEmpty(t, r.PostForm.Get("code"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":%q,"refresh_token":%q,"token_type":"Bearer","expires_in":3600}`,
			accessToken, refreshToken)
	}))
}

// TestHandleAuth_RedirectsToProvider tests the /auth route.
func TestHandleAuth_RedirectsToProvider(t *testing.T) {
	t.Parallel()

	setup := newTestServerSetup(t, "")

	req := httptest.NewRequest(http.MethodGet, "/auth?state=user1@example.com", nil)
	recorder := httptest.NewRecorder()

	setup.server.handleAuth(recorder, req)

	require.Equal(t, http.StatusFound, recorder.Code)

	location, err := url.Parse(recorder.Header().Get("Location"))
	require.NoError(t, err)

	assert.Equal(t, "provider.example.com", location.Host)

	query := location.Query()
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "query", query.Get("response_mode"))
	assert.Equal(t, "user1@example.com", query.Get("state"))
	assert.Equal(t, "http://localhost:3000/callback", query.Get("redirect_uri"))
	assert.Equal(t, "scope-a scope-b", query.Get("scope"))
}

// TestHandleAuth_DefaultState tests the /auth route without a state parameter.
func TestHandleAuth_DefaultState(t *testing.T) {
	t.Parallel()

	setup := newTestServerSetup(t, "")

	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	recorder := httptest.NewRecorder()

	setup.server.handleAuth(recorder, req)

	require.Equal(t, http.StatusFound, recorder.Code)

	location, err := url.Parse(recorder.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, defaultState, location.Query().Get("state"))
}

// TestHandleCallback_MissingCode tests that a callback without a code writes nothing.
func TestHandleCallback_MissingCode(t *testing.T) {
	t.Parallel()

	setup := newTestServerSetup(t, "")

	req := httptest.NewRequest(http.MethodGet, "/callback?state=user1@example.com", nil)
	recorder := httptest.NewRecorder()

	setup.server.handleCallback(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	_, err := os.Stat(setup.storePath)
	assert.True(t, os.IsNotExist(err), "no token store mutation expected")
}

// TestHandleCallback_MissingState tests that a callback without a state writes nothing.
func TestHandleCallback_MissingState(t *testing.T) {
	t.Parallel()

	setup := newTestServerSetup(t, "")

	req := httptest.NewRequest(http.MethodGet, "/callback?code=abc", nil)
	recorder := httptest.NewRecorder()

	setup.server.handleCallback(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

// TestHandleCallback_ProviderErrorParameter tests provider-reported authorization failures.
func TestHandleCallback_ProviderErrorParameter(t *testing.T) {
	t.Parallel()

	setup := newTestServerSetup(t, "")

	req := httptest.NewRequest(http.MethodGet,
		"/callback?error=access_denied&error_description=user+declined&state=user1@example.com", nil)
	recorder := httptest.NewRecorder()

	setup.server.handleCallback(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	_, err := os.Stat(setup.storePath)
	assert.True(t, os.IsNotExist(err), "no token store mutation expected")
}

// TestHandleCallback_SuccessfulExchange tests the full exchange and append path.
func TestHandleCallback_SuccessfulExchange(t *testing.T) {
	t.Parallel()

	provider := newTokenEndpointStub(t, "access-token-1", "refresh-token-1")
	defer provider.Close()

	setup := newTestServerSetup(t, provider.URL)

	// Prior content must be preserved and the new record appended after it.
	prior := "earlier@example.com\ta0\tr0\n"
	require.NoError(t, os.WriteFile(setup.storePath, []byte(prior), constants.DefaultFilePermissions))

	req := httptest.NewRequest(http.MethodGet, "/callback?code=auth-code&state=user1@example.com", nil)
	recorder := httptest.NewRecorder()

	setup.server.handleCallback(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Tokens saved for: user1@example.com", recorder.Body.String())

	content, err := os.ReadFile(setup.storePath)
	require.NoError(t, err)
	assert.Equal(t, prior+"user1@example.com\taccess-token-1\trefresh-token-1\n", string(content))
}

// TestHandleCallback_ExchangeFailure tests that a provider rejection writes nothing.
func TestHandleCallback_ExchangeFailure(t *testing.T) {
	t.Parallel()

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid_grant","error_description":"code expired"}`)
	}))
	defer provider.Close()

	setup := newTestServerSetup(t, provider.URL)

	req := httptest.NewRequest(http.MethodGet, "/callback?code=stale-code&state=user1@example.com", nil)
	recorder := httptest.NewRecorder()

	setup.server.handleCallback(recorder, req)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	_, err := os.Stat(setup.storePath)
	assert.True(t, os.IsNotExist(err), "no token store mutation expected")
}

// TestHandleCallback_DuplicateCallbacksAreIndependent tests that repeated callbacks each append.
func TestHandleCallback_DuplicateCallbacksAreIndependent(t *testing.T) {
	t.Parallel()

	provider := newTokenEndpointStub(t, "access-token", "refresh-token")
	defer provider.Close()

	setup := newTestServerSetup(t, provider.URL)

	for range 2 {
		req := httptest.NewRequest(http.MethodGet, "/callback?code=auth-code&state=user1@example.com", nil)
		recorder := httptest.NewRecorder()

		setup.server.handleCallback(recorder, req)
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	content, err := os.ReadFile(setup.storePath)
	require.NoError(t, err)

	expectedLine := "user1@example.com\taccess-token\trefresh-token\n"
	assert.Equal(t, expectedLine+expectedLine, string(content))
}

// TestAuthorizationURL tests the URL handed to automated browser sessions.
func TestAuthorizationURL(t *testing.T) {
	t.Parallel()

	setup := newTestServerSetup(t, "")

	authURL, err := url.Parse(setup.server.AuthorizationURL("user2@example.com"))
	require.NoError(t, err)

	query := authURL.Query()
	assert.Equal(t, "user2@example.com", query.Get("state"))
	assert.Equal(t, "query", query.Get("response_mode"))
	assert.Equal(t, "code", query.Get("response_type"))
}
