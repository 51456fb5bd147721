package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fintrack-dev/fintrack/internal/session"
)

// Client is the single outbound HTTP client for the backend REST API. Every
// call attaches the bearer token found in the request context, if any; calls
// without a token go out unauthenticated and the backend rejects them itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a new backend API client
func New(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &bearerTransport{base: http.DefaultTransport},
		},
		logger: log,
	}
}

// SetHTTPClient sets a custom HTTP client, preserving the bearer transport
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	if httpClient.Transport == nil {
		httpClient.Transport = http.DefaultTransport
	}
	if _, ok := httpClient.Transport.(*bearerTransport); !ok {
		httpClient.Transport = &bearerTransport{base: httpClient.Transport}
	}
	c.httpClient = httpClient
}

// bearerTransport injects the request-scoped credential into every outbound
// call, exactly as stored: forwarded headers keep their original scheme.
type bearerTransport struct {
	base http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if header := session.AuthorizationFromContext(req.Context()); header != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", header)
	}
	return t.base.RoundTrip(req)
}

// Do performs a single backend round trip. No retries: one call determines
// the outcome. On failure the returned error is always a *Error.
func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("Failed to read backend response")
		return nil, &Error{Status: 0}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.classifyStatusError(method, path, resp.StatusCode, data)
	}

	return json.RawMessage(data), nil
}

func (c *Client) classifyTransportError(method, path string, err error) *Error {
	var netErr net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())

	if timeout {
		c.logger.Error().Str("method", method).Str("path", path).Msg("Backend request timeout")
		return &Error{Status: 0, Timeout: true}
	}

	c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("Backend network error")
	return &Error{Status: 0}
}

func (c *Client) classifyStatusError(method, path string, status int, body []byte) *Error {
	message := extractMessage(body)
	event := c.logger.Warn().Str("method", method).Str("path", path).Int("status", status)

	switch status {
	case http.StatusUnauthorized:
		event.Msg("Backend rejected request: unauthorized")
	case http.StatusForbidden:
		event.Msg("Backend rejected request: forbidden")
	case http.StatusNotFound:
		event.Msg("Backend rejected request: not found")
	case http.StatusInternalServerError:
		event.Msg("Backend server error")
	default:
		event.Str("body", string(body)).Msg("Backend rejected request")
	}

	return &Error{Status: status, Message: message}
}

// Get performs a GET request against the backend
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request against the backend
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request against the backend
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Patch performs a PATCH request against the backend
func (c *Client) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPatch, path, body)
}

// Delete performs a DELETE request against the backend
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}
