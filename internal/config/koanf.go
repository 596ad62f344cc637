// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when no path is given.
var DefaultConfigPaths = []string{
	"lookalike.yaml",
	"lookalike.yml",
	"config.yaml",
	"/etc/lookalike/config.yaml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "LOOKALIKE_CONFIG"

func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Paths: []string{},
		},
		Recommend: RecommendConfig{
			TextWeight:      0.6,
			ImageWeight:     0.4,
			DefaultK:        5,
			MaxK:            100,
			Workers:         runtime.NumCPU(),
			Explain:         true,
			TopTerms:        5,
			ResultCacheTTL:  5 * time.Minute,
			ResultCacheSize: 1024,
		},
		Images: ImagesConfig{
			Enabled:           true,
			Timeout:           30 * time.Second,
			Concurrency:       4,
			Retries:           1,
			RetryDelay:        250 * time.Millisecond,
			RequestsPerSecond: 10,
			Burst:             5,
			MaxBytes:          10 << 20,
			UserAgent:         "",
			BaseDir:           "",
			CacheDir:          "", // in-memory
			CacheTTL:          24 * time.Hour,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8089,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from three layers, later ones winning:
//  1. built-in defaults
//  2. a YAML file: path, else $LOOKALIKE_CONFIG, else the first of DefaultConfigPaths that exists
//  3. mapped environment variables
//
// An explicitly named file that does not exist is an error; a missing
// default file is not.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := resolveConfigFile(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration without reading a file or the environment.
func Default() *Config {
	return defaultConfig()
}

func resolveConfigFile(path string) (string, error) {
	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}
	for _, candidate := range DefaultConfigPaths {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// sliceConfigPaths are split on commas when they arrive as strings.
var sliceConfigPaths = []string{
	"catalog.paths",
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config keys.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Catalog
	"catalog_paths":        "catalog.paths",
	"catalog_sources_file": "catalog.sources_file",

	// Recommend
	"text_weight":          "recommend.text_weight",
	"image_weight":         "recommend.image_weight",
	"recommend_default_k":  "recommend.default_k",
	"recommend_max_k":      "recommend.max_k",
	"recommend_workers":    "recommend.workers",
	"recommend_explain":    "recommend.explain",
	"recommend_top_terms":  "recommend.top_terms",
	"recommend_cache_ttl":  "recommend.result_cache_ttl",
	"recommend_cache_size": "recommend.result_cache_size",

	// Images
	"images_enabled":          "images.enabled",
	"image_fetch_timeout":     "images.timeout",
	"image_fetch_concurrency": "images.concurrency",
	"image_fetch_retries":     "images.retries",
	"image_fetch_retry_delay": "images.retry_delay",
	"image_fetch_rps":         "images.requests_per_second",
	"image_fetch_burst":       "images.burst",
	"image_max_bytes":         "images.max_bytes",
	"image_user_agent":        "images.user_agent",
	"image_base_dir":          "images.base_dir",
	"image_cache_dir":         "images.cache_dir",
	"image_cache_ttl":         "images.cache_ttl",

	// Server
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc returns the config key for an environment variable, or ""
// to skip it.
//
//	HTTP_PORT       -> server.port
//	IMAGE_CACHE_DIR -> images.cache_dir
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
