// Package server implements the local OAuth callback listener.
// It bridges the identity provider's redirect and the token store: /auth sends
// a browser into the provider's authorization endpoint, /callback exchanges
// the returned code for a token pair and appends the record to the store.
package server
