// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "empty catalog path", modify: func(c *Config) { c.Catalog.Paths = []string{"a.json", " "} }, wantErr: "catalog.paths[1]"},
		{name: "negative weight", modify: func(c *Config) { c.Recommend.TextWeight = -1 }, wantErr: "recommend"},
		{name: "zero default k", modify: func(c *Config) { c.Recommend.DefaultK = 0 }, wantErr: "default_k"},
		{name: "negative cache size", modify: func(c *Config) { c.Recommend.ResultCacheSize = -1 }, wantErr: "result_cache_size"},
		{name: "cache disabled", modify: func(c *Config) { c.Recommend.ResultCacheSize = 0; c.Recommend.ResultCacheTTL = 0 }},
		{name: "zero image concurrency", modify: func(c *Config) { c.Images.Concurrency = 0 }, wantErr: "images"},
		{name: "image retries above one", modify: func(c *Config) { c.Images.Retries = 2 }, wantErr: "images: retries"},
		{name: "images disabled skips fetch checks", modify: func(c *Config) { c.Images.Enabled = false; c.Images.Concurrency = 0 }},
		{name: "zero image cache ttl", modify: func(c *Config) { c.Images.CacheTTL = 0 }, wantErr: "cache_ttl"},
		{name: "port zero", modify: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "zero timeout", modify: func(c *Config) { c.Server.Timeout = 0 }, wantErr: "server.timeout"},
		{name: "zero rate limit", modify: func(c *Config) { c.Server.RateLimitReqs = 0 }, wantErr: "rate_limit_requests"},
		{name: "rate limit disabled", modify: func(c *Config) { c.Server.RateLimitReqs = 0; c.Server.RateLimitDisabled = true }},
		{name: "bad log format", modify: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRankerConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Recommend.TextWeight = 0.3
	cfg.Recommend.ImageWeight = 0.7
	cfg.Recommend.TopTerms = 2
	cfg.Recommend.ResultCacheTTL = time.Minute
	cfg.Recommend.ResultCacheSize = 10

	rc := cfg.RankerConfig()
	if rc.Weights.Text != 0.3 || rc.Weights.Image != 0.7 {
		t.Errorf("Weights = %+v", rc.Weights)
	}
	if rc.Explain.TopTerms != 2 || !rc.Explain.Enabled {
		t.Errorf("Explain = %+v", rc.Explain)
	}
	if !rc.Cache.Enabled || rc.Cache.TTL != time.Minute || rc.Cache.MaxEntries != 10 {
		t.Errorf("Cache = %+v", rc.Cache)
	}

	cfg.Recommend.ResultCacheSize = 0
	if cfg.RankerConfig().Cache.Enabled {
		t.Error("Cache.Enabled = true with size 0, want false")
	}
}

func TestFetchConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Images.Timeout = 3 * time.Second
	cfg.Images.BaseDir = "/srv/images"

	fc := cfg.FetchConfig()
	if fc.Timeout != 3*time.Second || fc.Concurrency != 4 || fc.BaseDir != "/srv/images" {
		t.Errorf("FetchConfig() = %+v", fc)
	}
	if fc.UserAgent == "" {
		t.Error("UserAgent is empty, want default")
	}

	cfg.Images.UserAgent = "custom/2"
	if got := cfg.FetchConfig().UserAgent; got != "custom/2" {
		t.Errorf("UserAgent = %q, want custom/2", got)
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 8089}
	if got := s.Addr(); got != "127.0.0.1:8089" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8089", got)
	}
}
