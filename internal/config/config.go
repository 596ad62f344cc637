// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/lookalike/internal/imagefetch"
	"github.com/tomtom215/lookalike/internal/logging"
	"github.com/tomtom215/lookalike/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Images    ImagesConfig    `koanf:"images"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// CatalogConfig lists where product records are read from.
type CatalogConfig struct {
	Paths       []string `koanf:"paths"`        // JSON catalog files
	SourcesFile string   `koanf:"sources_file"` // newline-separated list of JSON files
}

// RecommendConfig holds ranking settings.
type RecommendConfig struct {
	TextWeight      float64       `koanf:"text_weight"`
	ImageWeight     float64       `koanf:"image_weight"`
	DefaultK        int           `koanf:"default_k"`
	MaxK            int           `koanf:"max_k"`
	Workers         int           `koanf:"workers"`
	Explain         bool          `koanf:"explain"`
	TopTerms        int           `koanf:"top_terms"`
	ResultCacheTTL  time.Duration `koanf:"result_cache_ttl"`
	ResultCacheSize int           `koanf:"result_cache_size"` // 0 disables the result cache
}

// ImagesConfig holds image retrieval settings.
type ImagesConfig struct {
	Enabled           bool          `koanf:"enabled"`
	Timeout           time.Duration `koanf:"timeout"`
	Concurrency       int           `koanf:"concurrency"`
	Retries           int           `koanf:"retries"`
	RetryDelay        time.Duration `koanf:"retry_delay"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxBytes          int64         `koanf:"max_bytes"`
	UserAgent         string        `koanf:"user_agent"`
	BaseDir           string        `koanf:"base_dir"`  // resolves relative image paths
	CacheDir          string        `koanf:"cache_dir"` // badger directory; empty keeps bytes in memory
	CacheTTL          time.Duration `koanf:"cache_ttl"`
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RankerConfig converts the recommend section into a ranker configuration.
func (c *Config) RankerConfig() *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.Weights = recommend.Weights{Text: c.Recommend.TextWeight, Image: c.Recommend.ImageWeight}
	rc.Limits.DefaultK = c.Recommend.DefaultK
	rc.Limits.MaxK = c.Recommend.MaxK
	rc.Limits.Workers = c.Recommend.Workers
	rc.Explain.Enabled = c.Recommend.Explain
	rc.Explain.TopTerms = c.Recommend.TopTerms
	rc.Cache.Enabled = c.Recommend.ResultCacheSize > 0
	rc.Cache.TTL = c.Recommend.ResultCacheTTL
	rc.Cache.MaxEntries = c.Recommend.ResultCacheSize
	return rc
}

// FetchConfig converts the images section into a fetcher configuration.
func (c *Config) FetchConfig() imagefetch.Config {
	fc := imagefetch.DefaultConfig()
	fc.Timeout = c.Images.Timeout
	fc.Concurrency = c.Images.Concurrency
	fc.Retries = c.Images.Retries
	fc.RetryDelay = c.Images.RetryDelay
	fc.RequestsPerSecond = c.Images.RequestsPerSecond
	fc.Burst = c.Images.Burst
	fc.MaxBytes = c.Images.MaxBytes
	if c.Images.UserAgent != "" {
		fc.UserAgent = c.Images.UserAgent
	}
	fc.BaseDir = c.Images.BaseDir
	fc.CacheTTL = c.Images.CacheTTL
	return fc
}

// LogConfig converts the logging section for logging.Init.
func (c *Config) LogConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	return lc
}

// Addr returns the HTTP listen address.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
