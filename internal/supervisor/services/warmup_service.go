// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/lookalike/internal/metrics"
)

// FeatureWarmer precomputes product features. *recommend.Ranker implements it.
type FeatureWarmer interface {
	Warm(ctx context.Context, ids []string, progress func(done, total int)) error
}

// WarmupService computes feature sets for the catalog once at startup so
// that the first recommendation requests do not pay for extraction and image
// fetching. It reports readiness for the HTTP readiness probe.
//
// A failed warm-up is returned to the supervisor and retried; already cached
// features are not recomputed on the retry.
type WarmupService struct {
	warmer FeatureWarmer
	ids    []string
	logger zerolog.Logger

	ready atomic.Bool
	done  atomic.Int64
	total atomic.Int64
}

// NewWarmupService warms ids, or the whole catalog when ids is nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewWarmupService(warmer FeatureWarmer, ids []string, logger zerolog.Logger) *WarmupService {
	return &WarmupService{
		warmer: warmer,
		ids:    ids,
		logger: logger.With().Str("service", "warmup").Logger(),
	}
}

// Serve implements suture.Service.
func (s *WarmupService) Serve(ctx context.Context) error {
	if s.ready.Load() {
		return suture.ErrDoNotRestart
	}

	start := time.Now()
	s.logger.Info().Msg("feature warm-up starting")

	err := s.warmer.Warm(ctx, s.ids, s.progress)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn().Err(err).Int64("done", s.done.Load()).Msg("feature warm-up failed")
		return err
	}

	s.ready.Store(true)
	s.logger.Info().
		Int64("products", s.total.Load()).
		Dur("duration", time.Since(start)).
		Msg("feature warm-up finished")
	return suture.ErrDoNotRestart
}

// progress may be called concurrently, and counts can arrive out of order.
func (s *WarmupService) progress(done, total int) {
	s.total.Store(int64(total))
	for {
		cur := s.done.Load()
		if int64(done) <= cur || s.done.CompareAndSwap(cur, int64(done)) {
			break
		}
	}
	d := int(s.done.Load())
	metrics.UpdateWarmupProgress(d, total)
	if d == total || d%500 == 0 {
		s.logger.Debug().Int("done", d).Int("total", total).Msg("feature warm-up progress")
	}
}

// Ready reports whether warm-up has completed.
func (s *WarmupService) Ready() bool {
	return s.ready.Load()
}

// Progress returns the number of products warmed so far and the total.
func (s *WarmupService) Progress() (done, total int) {
	return int(s.done.Load()), int(s.total.Load())
}

func (s *WarmupService) String() string {
	return "feature-warmup"
}
