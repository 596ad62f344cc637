// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Overview

The package provides metrics for:
  - Recommendation latency, outcomes and candidate counts
  - Feature set computation and absent image features
  - Feature, result and image cache hit/miss rates
  - Remote image fetching and circuit breaker state transitions
  - Catalog loading and feature warm-up progress
  - HTTP request latency and throughput

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8089/metrics

# Usage

Metrics are registered with the default registry at package init through
promauto. Callers use the Record* helpers rather than touching collectors:

	start := time.Now()
	list, err := ranker.Recommend(ctx, id, nil, k, weights)
	metrics.RecordRecommendation("combined", "ok", len(candidates), time.Since(start))

# Thread Safety

All collectors are safe for concurrent use.
*/
package metrics
