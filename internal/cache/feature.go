// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// FeatureCache memoizes per-product values (feature sets) for one session.
//
// Concurrency policy: at most one computation runs per key. A second caller
// asking for a key that is being computed waits for the first computation and
// receives its result, unless that computation was cut short by the first
// caller's cancellation. Failed computations are not stored, so a later call
// retries.
//
// Entries never expire; Clear ends the session. A FeatureCache is owned by the
// component that creates it, so separate catalogs never share entries.
type FeatureCache[V any] struct {
	mu    sync.RWMutex
	items map[string]V
	group singleflight.Group

	hits     atomic.Int64
	misses   atomic.Int64
	computes atomic.Int64

	onLookup func(hit bool)
}

// FeatureCacheOption configures a FeatureCache.
type FeatureCacheOption func(*featureCacheOptions)

type featureCacheOptions struct {
	onLookup func(hit bool)
}

// WithLookupHook registers fn to be called on every lookup with whether it hit.
func WithLookupHook(fn func(hit bool)) FeatureCacheOption {
	return func(o *featureCacheOptions) {
		o.onLookup = fn
	}
}

// NewFeatureCache creates an empty cache.
func NewFeatureCache[V any](opts ...FeatureCacheOption) *FeatureCache[V] {
	var o featureCacheOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &FeatureCache[V]{
		items:    make(map[string]V),
		onLookup: o.onLookup,
	}
}

// Get returns the stored value for key without computing it.
func (c *FeatureCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	v, ok := c.items[key]
	c.mu.RUnlock()
	return v, ok
}

// GetOrCompute returns the value stored for key, calling compute on the first
// request. Concurrent first requests for the same key share one compute call,
// which runs with the context of the caller that started it.
//
// Each caller waits only as long as its own ctx allows. When a shared compute
// fails because the starting caller's context ended, waiters whose contexts
// are still live start a new computation instead of inheriting that error.
func (c *FeatureCache[V]) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (V, error)) (V, error) {
	var zero V
	if v, ok := c.Get(key); ok {
		c.hits.Add(1)
		c.observe(true)
		return v, nil
	}
	c.misses.Add(1)
	c.observe(false)

	for {
		ch := c.group.DoChan(key, func() (interface{}, error) {
			// Another flight may have stored the value between Get and DoChan.
			if v, ok := c.Get(key); ok {
				return v, nil
			}

			c.computes.Add(1)
			v, err := compute(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil, &abandonedError{err: err}
				}
				return nil, err
			}

			c.mu.Lock()
			c.items[key] = v
			c.mu.Unlock()
			return v, nil
		})

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("compute %q: %w", key, ctx.Err())
		case res := <-ch:
			if res.Err != nil {
				var abandoned *abandonedError
				if errors.As(res.Err, &abandoned) {
					if ctx.Err() == nil {
						continue
					}
					return zero, fmt.Errorf("compute %q: %w", key, abandoned.err)
				}
				return zero, fmt.Errorf("compute %q: %w", key, res.Err)
			}
			v, ok := res.Val.(V)
			if !ok {
				return zero, fmt.Errorf("compute %q: unexpected result type %T", key, res.Val)
			}
			return v, nil
		}
	}
}

// abandonedError marks a compute that failed after the context it ran with
// ended.
type abandonedError struct {
	err error
}

func (e *abandonedError) Error() string { return e.err.Error() }

func (e *abandonedError) Unwrap() error { return e.err }

// Len returns the number of stored entries.
func (c *FeatureCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear drops every entry, ending the session.
func (c *FeatureCache[V]) Clear() {
	c.mu.Lock()
	c.items = make(map[string]V)
	c.mu.Unlock()
}

// FeatureCacheStats is a snapshot of cache counters.
type FeatureCacheStats struct {
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Computes int64 `json:"computes"`
	Entries  int   `json:"entries"`
}

// Stats returns hit, miss and compute counts.
func (c *FeatureCache[V]) Stats() FeatureCacheStats {
	return FeatureCacheStats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Computes: c.computes.Load(),
		Entries:  c.Len(),
	}
}

func (c *FeatureCache[V]) observe(hit bool) {
	if c.onLookup != nil {
		c.onLookup(hit)
	}
}
