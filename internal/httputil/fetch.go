// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil fetches description pages politely: identified
// User-Agent, exponential backoff on rate limiting and transient
// upstream failures.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay is the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var RetryBaseDelay = 5 * time.Second

const defaultMaxRetries = 4

// retryable reports whether a status code is worth another attempt.
// eFlora mirrors rate-limit with 429 and surface maintenance as 503.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// Fetch downloads url and returns the response body. Retryable statuses
// are retried with exponential backoff (base RetryBaseDelay, doubling per
// attempt, maxRetries attempts; 0 means the default 4). Non-2xx statuses
// after retries are an error. A cancelled context interrupts a backoff
// wait.
func Fetch(ctx context.Context, client *http.Client, url, userAgent string, maxRetries int) ([]byte, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", url, err)
		}

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				io.Copy(io.Discard, resp.Body)
				return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", url, err)
			}
			return body, nil
		}

		// Drain and close before backing off.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
