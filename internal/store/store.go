package store

//go:generate $MOCKGEN -source=store.go -destination=mocks/store_mock.go

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pwalczak/mailbox-token-grabber/internal/constants"
)

// TokenRecord is one acquired token pair, correlated with an account by State.
type TokenRecord struct {
	// State is the OAuth state parameter, equal to the account identifier.
	State string
	// AccessToken is the acquired access token.
	AccessToken string
	// RefreshToken is the acquired refresh token.
	RefreshToken string
}

// MatchMode selects how a stored record is correlated with an identifier.
type MatchMode uint8

const (
	// MatchModeStrict compares the identifier against the first tab-delimited
	// field of each line. This is the recommended behavior.
	MatchModeStrict MatchMode = iota
	// MatchModeSubstring checks whole-line containment of the identifier.
	// Kept for compatibility with the legacy behavior; imprecise when one
	// identifier is a substring of another or duplicates are processed.
	MatchModeSubstring
)

// String returns a human-readable representation of the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeStrict:
		return "strict"
	case MatchModeSubstring:
		return "substring"
	default:
		return "unknown"
	}
}

// ParseMatchMode converts a textual match mode into a MatchMode.
// The second return value reports whether the input was recognized.
func ParseMatchMode(s string) (MatchMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return MatchModeStrict, true
	case "substring":
		return MatchModeSubstring, true
	default:
		return MatchModeStrict, false
	}
}

// recordFieldSeparator separates fields within a stored line.
const recordFieldSeparator = "\t"

// Static error definitions for better error handling.
var (
	// ErrEmptyState indicates a record without a correlation key.
	ErrEmptyState = errors.New("token record state cannot be empty")
	// ErrInvalidState indicates a state containing field or line separators.
	ErrInvalidState = errors.New("token record state cannot contain tabs or newlines")
)

// Store persists token records and answers correlation queries.
type Store interface {
	// Append durably writes one record as a single line.
	Append(ctx context.Context, record TokenRecord) error
	// FindState reports whether a record matching the identifier exists.
	FindState(ctx context.Context, identifier string) (bool, error)
	// Path returns the location of the underlying file.
	Path() string
}

// FileStore is a Store backed by an append-only text file.
type FileStore struct {
	// path is the token store file location.
	path string
	// matchMode selects the correlation rule used by FindState.
	matchMode MatchMode
	// appendMutex serializes writers within this process. Atomicity against
	// readers comes from issuing each record as one O_APPEND write.
	appendMutex sync.Mutex
}

// NewFileStore creates a file-backed token store.
// The file is created lazily on first append.
func NewFileStore(path string, matchMode MatchMode) *FileStore {
	return &FileStore{
		path:      path,
		matchMode: matchMode,
	}
}

// Path returns the location of the underlying file.
func (s *FileStore) Path() string {
	return s.path
}

// Append durably writes one record as a single line.
// The record is either fully written or not written at all.
func (s *FileStore) Append(_ context.Context, record TokenRecord) error {
	state := strings.TrimSpace(record.State)
	if state == "" {
		return ErrEmptyState
	}

	if strings.ContainsAny(state, "\t\n\r") {
		return ErrInvalidState
	}

	line := state + recordFieldSeparator +
		record.AccessToken + recordFieldSeparator +
		record.RefreshToken + "\n"

	s.appendMutex.Lock()
	defer s.appendMutex.Unlock()

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}

	defer file.Close() //nolint:errcheck // Close error after a successful write is not actionable.

	if _, err = file.WriteString(line); err != nil {
		return fmt.Errorf("failed to append token record: %w", err)
	}

	return nil
}

// FindState reports whether a record matching the identifier exists.
// A missing store file means no record yet, not an error.
func (s *FileStore) FindState(_ context.Context, identifier string) (bool, error) {
	if identifier == "" {
		return false, nil
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("failed to read token store: %w", err)
	}

	for _, line := range strings.Split(string(content), "\n") {
		if line == "" {
			continue
		}

		if s.lineMatches(line, identifier) {
			return true, nil
		}
	}

	return false, nil
}

// lineMatches applies the configured correlation rule to one stored line.
func (s *FileStore) lineMatches(line, identifier string) bool {
	if s.matchMode == MatchModeSubstring {
		return strings.Contains(line, identifier)
	}

	state, _, _ := strings.Cut(line, recordFieldSeparator)

	return state == identifier
}
