package validation

import (
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// MaxFormBytes caps how much of a form body is read.
const MaxFormBytes = 64 << 10

// ErrFormTruncated reports a body longer than MaxFormBytes. The pairs before
// the cut are still returned; the last one may hold a partial value.
var ErrFormTruncated = errors.New("form body truncated")

// FormBindable is implemented by request payloads that populate themselves
// from decoded form values.
type FormBindable interface {
	BindForm(values url.Values)
}

// DecodeForm reads a URL-encoded request body.
//
// Decoding is lenient: a malformed body still yields every pair that could be
// decoded, alongside the error describing what could not. Callers that must
// always produce a response use the values and only log the error.
func DecodeForm(r *http.Request) (url.Values, error) {
	if r.Body == nil {
		return url.Values{}, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxFormBytes+1))
	if err != nil {
		return url.Values{}, errors.Wrap(err, "failed to read form body")
	}

	truncated := len(body) > MaxFormBytes
	if truncated {
		body = body[:MaxFormBytes]
	}

	// ParseQuery keeps going after a bad pair and returns the first error.
	values, err := url.ParseQuery(string(body))
	if values == nil {
		values = url.Values{}
	}
	if truncated {
		return values, errors.Wrapf(ErrFormTruncated, "limit is %d bytes", MaxFormBytes)
	}
	if err != nil {
		return values, errors.Wrap(err, "malformed form body")
	}

	return values, nil
}

// BindForm decodes r's body into payload. The returned error is informational;
// payload is always bound with whatever could be decoded.
func BindForm(r *http.Request, payload FormBindable) error {
	values, err := DecodeForm(r)
	payload.BindForm(values)
	return err
}
