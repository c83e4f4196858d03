// Package transport issues the single outbound POST of a dispatch.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hpn/qchat-relay/internal/adapter"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 60 * time.Second

// Response is a successful upstream reply.
type Response struct {
	StatusCode int
	Body       []byte
}

// Sender posts an outbound call. Non-2xx replies and network failures are
// both returned as *Error.
type Sender interface {
	Send(ctx context.Context, call adapter.OutboundCall) (*Response, error)
}

// Client is the HTTP implementation of Sender. It never retries.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption is a functional option for configuring Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout. Zero disables it.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Send performs one POST.
func (c *Client) Send(ctx context.Context, call adapter.OutboundCall) (*Response, error) {
	safeURL := RedactURL(call.URL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, call.URL, bytes.NewReader(call.Body))
	if err != nil {
		return nil, &Error{Method: http.MethodPost, URL: safeURL, Cause: fmt.Errorf("failed to create http request: %w", err)}
	}
	for k, vv := range call.Header {
		for _, v := range vv {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// *url.Error repeats the raw URL, which may carry a credential.
		return nil, &Error{Method: http.MethodPost, URL: safeURL, Cause: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Method:     http.MethodPost,
			URL:        safeURL,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("failed to read response body: %w", err),
		}
	}

	c.logger.Debug("upstream responded",
		slog.String("url", safeURL),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(respBody)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Method:     http.MethodPost,
			URL:        safeURL,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}
