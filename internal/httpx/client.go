// Package httpx provides a small HTTP client with per-call timeouts and
// exponential back-off retries on 5xx and network errors. A Client is safe
// for concurrent use; its fields are immutable after construction.
package httpx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the id shared by every attempt of one call.
const RequestIDHeader = "X-Request-Id"

// Client wraps net/http.Client with retry and timeout behaviour.
type Client struct {
	http       *http.Client
	maxRetries int
	baseDelay  time.Duration
}

// NewClient creates a Client with the given per-attempt timeout and retry
// count.
func NewClient(timeout time.Duration, maxRetries int) *Client {
	return &Client{
		http:       &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		baseDelay:  500 * time.Millisecond,
	}
}

// WithBaseDelay returns a copy of c whose first back-off is d.
func (c *Client) WithBaseDelay(d time.Duration) *Client {
	cp := *c
	cp.baseDelay = d
	return &cp
}

// Do executes req, retrying transient failures with exponential back-off.
// When every attempt fails with a 5xx, the last response is returned with a
// nil error so the caller can read its body.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; attempt < c.maxRetries+1; attempt++ {
		resp, err = c.http.Do(req.Clone(ctx))
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if attempt == c.maxRetries {
			break
		}

		// Drain body on retry to allow connection reuse.
		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		delay := c.baseDelay * (1 << uint(attempt))
		slog.Debug("retrying request",
			"url", req.URL.String(),
			"request_id", req.Header.Get(RequestIDHeader),
			"attempt", attempt+1,
			"delay_ms", delay.Milliseconds(),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("httpx: all %d attempts failed: %w", c.maxRetries+1, err)
	}
	return resp, nil
}

// Get is a convenience method for GET requests.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("httpx: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.Do(ctx, req)
}
