// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package imagefetch

import (
	"fmt"
	"time"
)

// Config controls image retrieval.
type Config struct {
	// Timeout bounds a single fetch attempt.
	// Default: 30s.
	Timeout time.Duration

	// Concurrency is the maximum number of fetches in flight.
	// Default: 4.
	Concurrency int

	// Retries is the number of extra attempts after a transient failure,
	// either 0 or 1. Client errors (4xx) are never retried.
	// Default: 1.
	Retries int

	// RetryDelay is the wait before the first retry; it doubles per attempt.
	// Default: 250ms.
	RetryDelay time.Duration

	// RequestsPerSecond limits outbound HTTP requests. Zero disables limiting.
	// Default: 10.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size.
	// Default: 5.
	Burst int

	// MaxBytes rejects images larger than this.
	// Default: 10 MiB.
	MaxBytes int64

	// UserAgent is sent with HTTP requests.
	UserAgent string

	// BaseDir resolves relative file paths. Empty means the working directory.
	BaseDir string

	// CacheTTL is how long fetched bytes stay in the store.
	// Default: 24h.
	CacheTTL time.Duration

	// BreakerName labels circuit breaker metrics.
	// Default: "image-fetch".
	BreakerName string
}

// DefaultConfig returns the default fetch configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:           30 * time.Second,
		Concurrency:       4,
		Retries:           1,
		RetryDelay:        250 * time.Millisecond,
		RequestsPerSecond: 10,
		Burst:             5,
		MaxBytes:          10 << 20,
		UserAgent:         "lookalike/1.0 (+https://github.com/tomtom215/lookalike)",
		CacheTTL:          24 * time.Hour,
		BreakerName:       "image-fetch",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.Retries < 0 || c.Retries > 1 {
		return fmt.Errorf("retries must be 0 or 1, got %d", c.Retries)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be non-negative, got %v", c.RequestsPerSecond)
	}
	if c.RequestsPerSecond > 0 && c.Burst < 1 {
		return fmt.Errorf("burst must be positive when rate limiting, got %d", c.Burst)
	}
	if c.MaxBytes < 1 {
		return fmt.Errorf("max_bytes must be positive, got %d", c.MaxBytes)
	}
	return nil
}
