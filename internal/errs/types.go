package errs

import (
	"net/http"
)

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     StatusCode(http.StatusNotFound),
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewInternalServerError creates a 500 with the generic status text as its
// message, never the underlying error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     StatusCode(http.StatusInternalServerError),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}
