// Package errs defines custom error types and utilities.
//
// HTTPError gives API clients a consistent JSON error shape for the
// system routes. SignupError is the outcome taxonomy of the subscribe
// pipeline: its Code is the only part that ever reaches the browser.
package errs
