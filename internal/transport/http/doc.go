// Package http provides custom HTTP transport utilities for the token-exchange
// client, including request/response logging and User-Agent header injection.
package http
