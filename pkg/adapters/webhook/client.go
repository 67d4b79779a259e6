// Package webhook posts flow requests to the decision service over HTTP.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds a single round trip.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "formflow/1.0"
)

// Client implements ports.Webhook.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	userAgent  string
	logger     *slog.Logger
}

var _ ports.Webhook = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client. Its Timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL resolves relative webhook URLs such as "/hook" against base.
func WithBaseURL(base *url.URL) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger configures a logger for failed round trips.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a webhook client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  DefaultUserAgent,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the absolute URL a request to target is sent to.
func (c *Client) Resolve(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("%w: invalid webhook url %q: %v", domain.ErrRequestFailed, target, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	if c.baseURL == nil {
		return "", fmt.Errorf("%w: relative webhook url %q without a base url", domain.ErrRequestFailed, target)
	}
	return c.baseURL.ResolveReference(u).String(), nil
}

// Post sends req as JSON and returns the response body.
// An empty body is returned as {}.
func (c *Client) Post(ctx context.Context, target string, req domain.Request) ([]byte, error) {
	endpoint, err := c.Resolve(target)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRequestFailed, err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	dur := time.Since(start)
	if err != nil {
		c.logger.Warn("webhook request failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", dur),
			logging.Err(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("webhook returned error status",
			slog.String("request_id", requestID),
			slog.Int("status_code", resp.StatusCode),
			slog.Duration("duration", dur))
		return nil, fmt.Errorf("%w with status %d", domain.ErrRequestFailed, resp.StatusCode)
	}

	c.logger.Debug("webhook round trip",
		slog.String("request_id", requestID),
		slog.Int("status_code", resp.StatusCode),
		slog.Duration("duration", dur))

	trimmed := bytes.TrimSpace(respBody)
	if len(trimmed) == 0 {
		return []byte("{}"), nil
	}
	if !json.Valid(trimmed) {
		c.logger.Warn("webhook returned a non-JSON body",
			slog.String("request_id", requestID),
			slog.Int("body_bytes", len(respBody)))
		return nil, fmt.Errorf("%w: response is not valid JSON", domain.ErrRequestFailed)
	}
	return respBody, nil
}
