package http

import "time"

const (
	// DefaultTimeout is the default timeout duration for HTTP requests.
	// The token endpoint normally answers within a few seconds; anything
	// beyond this is treated as a provider error.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is the default User-Agent string used for HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36" //nolint:lll

	// DefaultMaxLogLength is the maximum size (in bytes) of a single dumped
	// request or response in debug logs. Token responses carry long JWTs.
	DefaultMaxLogLength = 64 * 1024
)
