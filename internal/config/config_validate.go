// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/lookalike/internal/logging"
)

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCatalog() error {
	for i, p := range c.Catalog.Paths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("catalog.paths[%d] is empty", i)
		}
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.ResultCacheSize < 0 {
		return fmt.Errorf("recommend.result_cache_size must be non-negative, got %d", c.Recommend.ResultCacheSize)
	}
	if err := c.RankerConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// validateImages skips fetch settings when image similarity is turned off.
func (c *Config) validateImages() error {
	if !c.Images.Enabled {
		return nil
	}
	fc := c.FetchConfig()
	if err := fc.Validate(); err != nil {
		return fmt.Errorf("images: %w", err)
	}
	if c.Images.CacheTTL <= 0 {
		return fmt.Errorf("images.cache_ttl must be positive, got %v", c.Images.CacheTTL)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs < 1 {
		return fmt.Errorf("server.rate_limit_requests must be positive, got %d (set rate_limit_disabled to turn limiting off)", c.Server.RateLimitReqs)
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive, got %v", c.Server.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if err := logging.ValidateLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if err := logging.ValidateFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("logging.format: %w", err)
	}
	return nil
}
