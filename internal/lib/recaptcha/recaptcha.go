// Package recaptcha verifies anti-automation challenge tokens against a
// siteverify-compatible endpoint (reCAPTCHA, hCaptcha, Turnstile).
package recaptcha

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// DefaultVerifyURL is Google's reCAPTCHA verification endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// maxResponseBytes caps how much of the provider answer is read.
const maxResponseBytes = 64 << 10

// Result is the provider's answer to one verification.
type Result struct {
	Success    bool
	Hostname   string
	ErrorCodes []string
}

// Client posts tokens to the verification endpoint with a shared secret.
type Client struct {
	httpClient *http.Client
	secret     string
	verifyURL  string
}

// NewClient creates a verification client. An empty verifyURL uses
// DefaultVerifyURL; a nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, secret, verifyURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	return &Client{
		httpClient: httpClient,
		secret:     secret,
		verifyURL:  verifyURL,
	}
}

// Verify submits token and returns the provider's verdict.
//
// A non-2xx answer or a body without a boolean `success` field is an error.
// remoteIP is optional and forwarded when non-empty.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) (*Result, error) {
	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "error creating verification request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error calling verification provider")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "error reading verification response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("verification provider returned status %d", resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return nil, errors.New("verification provider returned invalid JSON")
	}

	success := gjson.GetBytes(body, "success")
	if success.Type != gjson.True && success.Type != gjson.False {
		return nil, errors.New("verification response has no success flag")
	}

	result := &Result{
		Success:  success.Bool(),
		Hostname: gjson.GetBytes(body, "hostname").String(),
	}
	for _, code := range gjson.GetBytes(body, "error-codes").Array() {
		result.ErrorCodes = append(result.ErrorCodes, code.String())
	}

	return result, nil
}
