package session

// State identifies the lifecycle phase of a single acquisition session.
type State uint8

const (
	// StateCreated is the initial phase before any browser exists.
	StateCreated State = iota
	// StateBrowserLaunched means the browser is up with a fresh profile.
	StateBrowserLaunched
	// StateNavigating means the authorization URL is being loaded.
	StateNavigating
	// StateAwaitingConsent means the interstitial consent control is awaited.
	StateAwaitingConsent
	// StateAwaitingToken means the session is waiting on the token store.
	StateAwaitingToken
	// StateCompleted means the token record was confirmed in the store.
	StateCompleted
	// StateFailed means the session ended with an error.
	StateFailed
	// StateClosed means the browser and profile directory are released.
	StateClosed
)

// String returns the phase name for logging.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateBrowserLaunched:
		return "browser launched"
	case StateNavigating:
		return "navigating"
	case StateAwaitingConsent:
		return "awaiting consent"
	case StateAwaitingToken:
		return "awaiting token"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
