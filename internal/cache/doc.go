// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

/*
Package cache provides the in-memory caches used by the recommendation core.

  - FeatureCache: session-scoped memoization of per-product feature sets with
    at-most-one concurrent computation per key (golang.org/x/sync/singleflight).
  - LRU: a generic TTL-bounded least recently used cache, used for ranked
    result lists in long-running server mode.

Neither cache is global state. Each is created and owned by the ranker that
uses it, so several catalogs can coexist in one process without cross-talk.
*/
package cache
