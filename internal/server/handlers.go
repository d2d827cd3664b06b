package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/pwalczak/mailbox-token-grabber/internal/logger"
	"github.com/pwalczak/mailbox-token-grabber/internal/store"
)

// defaultState is used on /auth when the caller supplies no state parameter.
const defaultState = "state"

// handleAuth redirects the caller into the provider's authorization endpoint,
// carrying the supplied state. Exists for manual entry; automated sessions
// navigate to the authorization URL directly.
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		state = defaultState
	}

	http.Redirect(w, r, s.AuthorizationURL(state), http.StatusFound)
}

// handleCallback exchanges the authorization code for a token pair and appends
// the record to the token store. Each request is handled independently; stale
// or duplicate redirects are logged but never rejected.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state := r.FormValue("state")
	code := r.FormValue("code")

	if errorParam := r.FormValue("error"); errorParam != "" {
		logger.Errorf(ctx, "Authorization failed for %q: %s - %s",
			state, errorParam, r.FormValue("error_description"))
		http.Error(w, "Authorization failed.", http.StatusBadRequest)

		return
	}

	if code == "" || state == "" {
		http.Error(w, "Missing authorization code or state.", http.StatusBadRequest)

		return
	}

	if previous, seen := s.seenStates.Get(state); seen {
		logger.Warnf(ctx, "Repeated callback for %q (first exchanged at %s), possibly a stale redirect",
			state, previous.Format(time.RFC3339))
	}

	token, err := s.exchangeCode(ctx, code)
	if err != nil {
		logger.Errorf(ctx, "Code exchange failed for %q: %s", state, describeExchangeError(err))
		http.Error(w, "Failed to obtain token.", http.StatusInternalServerError)

		return
	}

	record := store.TokenRecord{
		State:        state,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}

	if err = s.tokenStore.Append(ctx, record); err != nil {
		logger.Errorf(ctx, "Failed to persist token record for %q: %v", state, err)
		http.Error(w, "Failed to persist token.", http.StatusInternalServerError)

		return
	}

	s.seenStates.Add(state, time.Now())
	logger.Infof(ctx, "Tokens saved for: %s", state)

	fmt.Fprintf(w, "Tokens saved for: %s", state)
}

// exchangeCode performs the server-to-server code exchange through the
// transport chain configured on the server.
func (s *Server) exchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.exchangeClient)

	return s.oauthConfig.Exchange(ctx, code)
}

// describeExchangeError surfaces the provider's error payload when available.
func describeExchangeError(err error) string {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Sprintf("provider responded %s: %s", retrieveErr.Response.Status, retrieveErr.Body)
	}

	return err.Error()
}
