// Package retryhttp performs HTTP requests with a shared rate limiter and
// bounded exponential-backoff retries. It retries network failures, 429 and
// 5xx responses; everything else is returned to the caller as-is.
package retryhttp

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client wraps an http.Client with a rate limiter shared across calls.
type Client struct {
	hc      *http.Client
	limiter *rate.Limiter
}

// Config tunes retry behavior.
type Config struct {
	MaxAttempts  int           // total attempts, including the first (min 1)
	InitialDelay time.Duration // delay before the second attempt
	MaxDelay     time.Duration // backoff cap
	Jitter       bool          // add 0-25% random jitter to each delay
}

// DefaultConfig returns the retry settings used when none are given.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Jitter:       true,
	}
}

// New returns a Client allowing rps requests per second. The per-request
// timeout is controlled by the request context, not the underlying client.
func New(rps float64) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		hc:      &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)+1),
	}
}

// Do executes the request produced by build, retrying per cfg. The build
// function is called once per attempt because request bodies are consumed.
// A response with a non-retryable status is returned without error; the
// caller decides whether the status is acceptable.
func (c *Client) Do(ctx context.Context, build func() (*http.Request, error), cfg Config) (*http.Response, error) {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := build()
		if err != nil {
			return nil, err
		}
		resp, err := c.hc.Do(req.WithContext(ctx))
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("http %d", resp.StatusCode)
			resp.Body.Close()
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		next := delay
		if cfg.Jitter && next > 0 {
			next += time.Duration(rand.Int63n(int64(next/4) + 1))
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(next):
		}
		delay *= 2
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return nil, fmt.Errorf("request failed after %d attempt(s): %w", cfg.MaxAttempts, lastErr)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
}
