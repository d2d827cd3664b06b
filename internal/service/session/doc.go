// Package session drives one browser session per account through the
// authorization-code flow: it launches a browser with a fresh profile,
// navigates to the provider authorization URL carrying the account identifier
// as state, activates the interstitial consent control when one appears, and
// then waits for the token record to land in the store. The browser is
// released on every exit path.
package session
