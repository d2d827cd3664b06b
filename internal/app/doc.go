// Package app provides the main application logic for batch token acquisition.
// It wires the token store, synchronization waiter, callback server, session
// orchestrator, and batch driver, and orchestrates one run end to end.
package app
