// Package client is the HTTP client for the upstream menu API. Every request
// runs under a per-attempt timeout and transient failures are retried with a
// linear backoff before surfacing a typed error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cardapio-service/internal/common/errors"
	"cardapio-service/internal/common/logger"
	"cardapio-service/internal/common/metrics"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetries    = 3
	defaultRetryDelay = 1 * time.Second
)

// Client wraps an HTTP client with retry semantics against the menu API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
	logger     logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetries overrides the maximum attempt count.
func WithRetries(retries int) Option {
	return func(c *Client) {
		if retries > 0 {
			c.retries = retries
		}
	}
}

// WithRetryDelay overrides the base delay between attempts. Attempt n waits
// n*delay before running, so the backoff grows linearly.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = delay
	}
}

// WithHTTPClient swaps the underlying transport, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a menu API client for the given base URL.
func New(baseURL string, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		retries:    defaultRetries,
		retryDelay: defaultRetryDelay,
		logger:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out interface{}) error {
	target := path
	if len(params) > 0 {
		target = path + "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, target, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// HealthCheck probes the upstream health endpoint. It never returns an
// error: callers use the boolean to decide between live and fallback menus.
func (c *Client) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Menu API health check failed", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// do runs the request with up to c.retries attempts. 4xx responses abort the
// loop immediately; 5xx and transport errors retry after attempt*retryDelay.
// The returned error always carries the last observed status and body.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	start := time.Now()

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		payload = encoded
	}

	var lastStatus int
	var lastBody interface{}
	var lastErr error

	for attempt := 1; attempt <= c.retries; attempt++ {
		status, respBody, err := c.attempt(ctx, method, path, payload, out)
		if err == nil && status >= 200 && status < 300 {
			metrics.MenuClientAttempts.WithLabelValues(method, "success").Inc()
			metrics.MenuClientDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
			return nil
		}

		lastStatus, lastBody, lastErr = status, respBody, err

		if status != 0 && !errors.IsRetryableStatus(status) {
			metrics.MenuClientAttempts.WithLabelValues(method, "client_error").Inc()
			c.logger.Warn("Menu API rejected request", map[string]interface{}{
				"method": method,
				"path":   path,
				"status": status,
			})
			return errors.NewClientRequestError(status, respBody)
		}

		metrics.MenuClientAttempts.WithLabelValues(method, "retry").Inc()
		c.logger.Warn("Menu API request failed, will retry", map[string]interface{}{
			"method":  method,
			"path":    path,
			"status":  status,
			"attempt": attempt,
			"retries": c.retries,
			"error":   errString(err),
		})

		if attempt < c.retries {
			select {
			case <-ctx.Done():
				return errors.NewMenuFetchTimeoutError(ctx.Err())
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
		}
	}

	metrics.MenuClientAttempts.WithLabelValues(method, "exhausted").Inc()
	c.logger.Error("Menu API request exhausted retries", map[string]interface{}{
		"method": method,
		"path":   path,
		"status": lastStatus,
	})
	return errors.NewMenuFetchFailedError(lastStatus, lastBody, lastErr)
}

// attempt performs a single HTTP round trip. A zero status means the request
// never produced a response.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, out interface{}) (int, interface{}, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil && len(raw) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				return resp.StatusCode, nil, fmt.Errorf("decoding response body: %w", err)
			}
		}
		return resp.StatusCode, nil, nil
	}

	return resp.StatusCode, decodeErrorBody(raw), nil
}

// decodeErrorBody keeps whatever structure the upstream returned, falling
// back to the raw text when it is not JSON.
func decodeErrorBody(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return string(raw)
	}
	return decoded
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
