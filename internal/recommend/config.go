// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package recommend

import (
	"fmt"
	"runtime"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the recommendation ranker.
type Config struct {
	// Weights are the combined-mode modality weights.
	// They need not sum to 1.0.
	Weights Weights `json:"weights"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Explain contains explanation parameters.
	Explain ExplainConfig `json:"explain"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the number of recommendations returned when none is requested.
	// Default: 5.
	DefaultK int `json:"default_k"`

	// MaxK is the maximum allowed K value.
	// Default: 100.
	MaxK int `json:"max_k"`

	// Workers bounds how many candidates are scored concurrently.
	// Default: GOMAXPROCS.
	Workers int `json:"workers"`
}

// ExplainConfig controls explanation generation.
type ExplainConfig struct {
	// Enabled attaches an explanation to every returned result.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TopTerms is the number of shared terms listed.
	// Default: 5.
	TopTerms int `json:"top_terms"`
}

// CacheConfig contains result caching parameters.
type CacheConfig struct {
	// Enabled controls whether ranked lists are cached.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached lists.
	// Default: 1024.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns the default ranker configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Text:  0.6,
			Image: 0.4,
		},
		Limits: LimitsConfig{
			DefaultK: 5,
			MaxK:     100,
			Workers:  runtime.GOMAXPROCS(0),
		},
		Explain: ExplainConfig{
			Enabled:  true,
			TopTerms: 5,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 1024,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.Workers < 1 {
		return fmt.Errorf("limits.workers must be positive, got %d", c.Limits.Workers)
	}

	if c.Explain.TopTerms < 0 {
		return fmt.Errorf("explain.top_terms must be non-negative, got %d", c.Explain.TopTerms)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types
	clone := *c
	return &clone
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		Cache struct {
			Enabled    bool   `json:"enabled"`
			TTL        string `json:"ttl"`
			MaxEntries int    `json:"max_entries"`
		} `json:"cache"`
	}{
		Alias: (*Alias)(c),
		Cache: struct {
			Enabled    bool   `json:"enabled"`
			TTL        string `json:"ttl"`
			MaxEntries int    `json:"max_entries"`
		}{
			Enabled:    c.Cache.Enabled,
			TTL:        c.Cache.TTL.String(),
			MaxEntries: c.Cache.MaxEntries,
		},
	})
}
