package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = 30 * time.Second

// RequestIDHeader carries a per-request id for tracing on the server side.
const RequestIDHeader = "X-Request-ID"

// Client provides JSON-over-HTTP functionality with authentication.
type Client struct {
	http    *http.Client
	auth    Authenticator
	apiKey  string
	baseURL string
	service string
}

// Option configures a Client.
type Option func(*Client)

// WithAuth sets the authenticator and the key it applies.
func WithAuth(auth Authenticator, apiKey string) Option {
	return func(c *Client) {
		c.auth = auth
		c.apiKey = apiKey
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// New creates a new transport client rooted at baseURL. service names the
// remote side in errors.
func New(service, baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		service: service,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Service returns the service name used in errors.
func (c *Client) Service() string {
	return c.service
}

// Do performs an HTTP request with authentication applied. body, if not nil,
// is encoded as JSON.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapParse("json", "request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, errors.WrapResource("create", "request", method+" "+endpoint, err)
	}

	if c.auth != nil && c.apiKey != "" {
		c.auth.Apply(req, c.apiKey)
	}

	// Set common headers
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	logging.FromContext(ctx).Trace().
		Str("method", method).
		Str("url", endpoint).
		Str("request_id", requestID).
		Msg("HTTP request")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &errors.APIError{
			Service:  c.service,
			Endpoint: method + " " + path,
			Message:  "request failed",
			Err:      err,
		}
	}
	return resp, nil
}

// JSON performs a request and decodes a successful JSON response into target.
// A nil target discards the body.
func (c *Client) JSON(ctx context.Context, method, path string, query url.Values, body, target any) error {
	resp, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if err := DecodeResponse(resp, c.service, target); err != nil {
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) && apiErr.Endpoint == "" {
			apiErr.Endpoint = method + " " + path
		}
		return err
	}
	return nil
}

// Get performs a GET request and decodes the response.
func (c *Client) Get(ctx context.Context, path string, query url.Values, target any) error {
	return c.JSON(ctx, http.MethodGet, path, query, nil, target)
}

// Post performs a POST request and decodes the response.
func (c *Client) Post(ctx context.Context, path string, body, target any) error {
	return c.JSON(ctx, http.MethodPost, path, nil, body, target)
}

// Put performs a PUT request and decodes the response.
func (c *Client) Put(ctx context.Context, path string, body, target any) error {
	return c.JSON(ctx, http.MethodPut, path, nil, body, target)
}

// Patch performs a PATCH request and decodes the response.
func (c *Client) Patch(ctx context.Context, path string, body, target any) error {
	return c.JSON(ctx, http.MethodPatch, path, nil, body, target)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.JSON(ctx, http.MethodDelete, path, nil, nil, nil)
}
