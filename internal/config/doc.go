// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

/*
Package config loads Lookalike configuration with koanf.

Settings are layered: built-in defaults, then an optional YAML file, then
environment variables. The file is the one passed to Load (the CLI --config
flag), else $LOOKALIKE_CONFIG, else the first of DefaultConfigPaths found.

# File Format

	catalog:
	  paths: [products.json, more/products.json]
	  sources_file: sources.txt
	recommend:
	  text_weight: 0.6
	  image_weight: 0.4
	  default_k: 5
	  max_k: 100
	  result_cache_size: 1024   # 0 disables
	images:
	  enabled: true
	  timeout: 30s
	  concurrency: 4
	  cache_dir: /var/cache/lookalike   # empty keeps bytes in memory
	server:
	  port: 8089
	  cors_origins: ["*"]
	logging:
	  level: info
	  format: json

# Environment Variables

Only mapped variables are read; everything else in the environment is
ignored. Slice values are comma-separated.

	CATALOG_PATHS, CATALOG_SOURCES_FILE
	TEXT_WEIGHT, IMAGE_WEIGHT, RECOMMEND_DEFAULT_K, RECOMMEND_MAX_K,
	RECOMMEND_WORKERS, RECOMMEND_EXPLAIN, RECOMMEND_TOP_TERMS,
	RECOMMEND_CACHE_TTL, RECOMMEND_CACHE_SIZE
	IMAGES_ENABLED, IMAGE_FETCH_TIMEOUT, IMAGE_FETCH_CONCURRENCY,
	IMAGE_FETCH_RETRIES, IMAGE_FETCH_RETRY_DELAY, IMAGE_FETCH_RPS,
	IMAGE_FETCH_BURST, IMAGE_MAX_BYTES, IMAGE_USER_AGENT, IMAGE_BASE_DIR,
	IMAGE_CACHE_DIR, IMAGE_CACHE_TTL
	HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, CORS_ORIGINS,
	RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Conversion

RankerConfig, FetchConfig and LogConfig translate sections into the
configuration types of the recommend, imagefetch and logging packages.
*/
package config
