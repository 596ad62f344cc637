// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

// Package middleware provides the HTTP middleware used by the API router.
//
//   - RequestID: X-Request-ID propagation into the logging context
//   - AccessLog: one zerolog entry per request
//   - PrometheusMetrics: request count, latency and in-flight gauge
//
// All middleware has the func(http.Handler) http.Handler shape expected by
// chi's Use. PrometheusMetrics and AccessLog read the matched route pattern,
// so they must be installed on a chi router.
package middleware
