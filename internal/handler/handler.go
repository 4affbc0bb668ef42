// Package handler is the HTTP layer behind the router.
//
// Handlers decode the request, call the service layer and write the
// response through the shared pipeline in base.go.
package handler
