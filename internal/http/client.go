// Package http wraps the standard client with upstream-friendly throttling
// and retry behavior for the commerce platform's Admin API.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tuvalum/margin-service/internal/http/ratelimit"
)

// Client is an HTTP client with rate limiting and retry logic
type Client struct {
	httpClient  *http.Client
	rateLimiter *ratelimit.RateLimiter
	config      ratelimit.Config
	headers     map[string]string
}

// NewClient creates a new HTTP client with rate limiting. Headers given here
// are attached to every request (auth tokens, API version pins).
func NewClient(config ratelimit.Config, headers map[string]string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: ratelimit.NewRateLimiter(config),
		config:      config,
		headers:     headers,
	}
}

// NewClientDefault creates a new HTTP client with default rate limiting
func NewClientDefault() *Client {
	return NewClient(ratelimit.DefaultConfig(), nil)
}

// Get performs a GET request with rate limiting and retry logic
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return c.Do(ctx, "GET", url, nil)
}

// Do performs an HTTP request with rate limiting and retry logic. The body is
// taken as bytes so it can be replayed across retries.
func (c *Client) Do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var lastStatus int
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		c.rateLimiter.Throttle()

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		req.Header.Set("User-Agent", "Tuvalum-MarginService/1.0")
		req.Header.Set("Accept", "application/json")
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < c.config.MaxRetries {
				sleep(ctx, ratelimit.CalculateBackoff(attempt, c.config))
				continue
			}
			break
		}

		lastStatus = resp.StatusCode
		lastErr = nil

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		// Non-retryable client error, fail immediately.
		if !ratelimit.IsRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, &ratelimit.FetchRetryError{
				URL:        url,
				Attempts:   attempt + 1,
				LastStatus: resp.StatusCode,
			}
		}

		if attempt == c.config.MaxRetries {
			resp.Body.Close()
			break
		}

		var backoff time.Duration
		if resp.StatusCode == http.StatusTooManyRequests {
			backoff = ratelimit.CalculateRateLimitBackoff(attempt, c.config, resp.Header.Get("Retry-After"))
		} else {
			backoff = ratelimit.CalculateBackoff(attempt, c.config)
		}

		resp.Body.Close()
		if err := sleep(ctx, backoff); err != nil {
			return nil, err
		}
	}

	return nil, &ratelimit.FetchRetryError{
		URL:        url,
		Attempts:   c.config.MaxRetries + 1,
		LastStatus: lastStatus,
		LastError:  lastErr,
	}
}

// GetBytes performs a GET request and returns the response body as bytes
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// GetConfig returns the current rate limit config
func (c *Client) GetConfig() ratelimit.Config {
	return c.config
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
