// Package mailgun is a small client for the two Mailgun endpoints the
// signup flow needs: sending a message and upserting a mailing-list member.
package mailgun

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is Mailgun's US region API root.
const DefaultBaseURL = "https://api.mailgun.net/v3"

const maxResponseBytes = 64 << 10

// APIError is a non-2xx answer from Mailgun.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "mailgun: status " + http.StatusText(e.StatusCode)
	}
	return "mailgun: " + e.Message
}

// Client talks to the Mailgun REST API using basic auth ("api", key).
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a Mailgun client. An empty baseURL uses DefaultBaseURL;
// a nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, apiKey, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// SendMessage posts fields to /{domain}/messages and returns the queued
// message id.
func (c *Client) SendMessage(ctx context.Context, domain string, fields url.Values) (string, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(domain) + "/messages"

	body, err := c.postForm(ctx, endpoint, fields)
	if err != nil {
		return "", errors.Wrap(err, "error sending message")
	}

	return gjson.GetBytes(body, "id").String(), nil
}

// ListMember is a mailing-list member.
type ListMember struct {
	Address string

	// Vars is marshalled to JSON and stored with the member.
	Vars any

	// Upsert updates an existing member instead of failing.
	Upsert bool
}

// AddListMember posts member to /lists/{list}/members and returns the
// member address Mailgun confirmed.
func (c *Client) AddListMember(ctx context.Context, list string, member ListMember) (string, error) {
	endpoint := c.baseURL + "/lists/" + url.PathEscape(list) + "/members"

	fields := url.Values{}
	fields.Set("address", member.Address)
	if member.Upsert {
		fields.Set("upsert", "yes")
	}
	if member.Vars != nil {
		vars, err := json.Marshal(member.Vars)
		if err != nil {
			return "", errors.Wrap(err, "error encoding member vars")
		}
		fields.Set("vars", string(vars))
	}

	body, err := c.postForm(ctx, endpoint, fields)
	if err != nil {
		return "", errors.Wrapf(err, "error adding member to list %s", list)
	}

	return gjson.GetBytes(body, "member.address").String(), nil
}

func (c *Client) postForm(ctx context.Context, endpoint string, fields url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(fields.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "error creating request")
	}
	req.SetBasicAuth("api", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error calling Mailgun")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "error reading response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    gjson.GetBytes(body, "message").String(),
		}
	}

	return body, nil
}
