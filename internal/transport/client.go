// Package transport provides HTTP client plumbing shared by the upstream
// fetcher and the record-storage client.
package transport

import (
	"context"
	"io"
	"net/http"

	"github.com/webcreds/credsync/pkg/constants"
	"github.com/webcreds/credsync/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http *http.Client
	auth Authenticator
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator) *Client {
	return NewWithHTTPClient(auth, &http.Client{Timeout: DefaultHTTPTimeout})
}

// NewWithHTTPClient creates a transport client using the given http.Client.
func NewWithHTTPClient(auth Authenticator, httpClient *http.Client) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &Client{http: httpClient, auth: auth}
}

// Do performs an HTTP request with authentication and common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.auth.Apply(req)

	req.Header.Set("Accept", "application/json")
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapFetch(url, 0, err)
	}
	return c.Do(req)
}

// Send performs a request with the given method, URL, and JSON body.
func (c *Client) Send(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.WrapFetch(url, 0, err)
	}
	return c.Do(req)
}
