package errs

import (
	"net/http"
	"strings"
)

// FieldError is a single field-level problem, e.g.
//
//	{ "field": "site.url", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the JSON error body written by the global error handler.
//
// Override tells the handler the Message is safe to show as-is.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is any *HTTPError, regardless of its fields.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

// StatusCode returns the machine-readable code for an HTTP status.
func StatusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}
