// Package httpx is the shared HTTP plumbing for the upstream geocoding, map and routing
// services: request construction, status checking, retries and outcome metrics.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"geo-route-service/internal/platform/obs"
)

// StatusError is returned for any upstream response with a 4xx or 5xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

type Client struct {
	service     string
	session     *http.Client
	userAgent   string
	maxAttempts int
	backoff     time.Duration
}

type Option func(*Client)

// WithMaxAttempts bounds retries of transient failures. 1 disables retrying.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.backoff = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.session = hc
		}
	}
}

// New returns a client labelled service in metrics. Requests carry userAgent, which public
// OSM services require.
func New(service, userAgent string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		service:     service,
		session:     &http.Client{Timeout: timeout},
		userAgent:   userAgent,
		maxAttempts: 1,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Budget is the longest DoWithRetry can take: every attempt running to the per-request
// timeout plus the backoff sleeps between attempts.
func (c *Client) Budget() time.Duration {
	total := time.Duration(c.maxAttempts) * c.session.Timeout
	backoff := c.backoff
	for attempt := 1; attempt < c.maxAttempts; attempt++ {
		total += backoff
		backoff *= 2
	}
	return total
}

func (c *Client) NewRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	return req, nil
}

// Do sends req once. Responses with status >= 400 are drained, closed and returned as
// *StatusError.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		obs.ExternalRequests.WithLabelValues(c.service, "error").Inc()
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		obs.ExternalRequests.WithLabelValues(c.service, "error").Inc()
		return nil, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	obs.ExternalRequests.WithLabelValues(c.service, "ok").Inc()
	return resp, nil
}

// DoWithRetry retries transient failures (network errors, 429 and 5xx responses) with
// exponential backoff while respecting context cancellation. makeReq is called once per attempt
// so request bodies are fresh.
func (c *Client) DoWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	backoff := c.backoff

	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !Retryable(err) || attempt == c.maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

// Retryable reports whether err is worth another attempt.
func Retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
