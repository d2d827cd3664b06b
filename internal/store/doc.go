// Package store implements the append-only token store shared between the
// callback server (single writer) and the session orchestrator (polling reader).
// Records are tab-separated lines of state, access token, and refresh token;
// each append is a single write so concurrent readers never observe a partial line.
package store
