// Package batch runs the acquisition loop over the account source: one
// browser session per account, processed sequentially, with per-account
// failure isolation and a printable summary of outcomes.
package batch
