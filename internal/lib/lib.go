// Package lib groups clients for the external services the signup flow
// talks to, plus small shared helpers.
//
//   - recaptcha: challenge-token verification
//   - mailgun: Mailgun REST API (messages, mailing lists)
//   - email: welcome-message rendering and delivery
//   - utils: URL helpers
package lib
