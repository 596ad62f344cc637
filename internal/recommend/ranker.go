// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/lookalike/internal/cache"
	"github.com/tomtom215/lookalike/internal/features"
	"github.com/tomtom215/lookalike/internal/metrics"
	"github.com/tomtom215/lookalike/internal/models"
)

// Catalog is the read-only product lookup the ranker scores against.
// *catalog.Index satisfies it.
type Catalog interface {
	Get(id string) (models.Product, bool)
	IDs() []string
}

// ImageSource retrieves the raw bytes behind a product's image reference.
type ImageSource interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Ranker scores candidates against a target product and returns the top k.
// It is safe for concurrent use.
type Ranker struct {
	config *Config
	logger zerolog.Logger

	catalog Catalog
	images  ImageSource

	text  *features.TextExtractor
	image *features.ImageExtractor

	features *cache.FeatureCache[features.Set]
	results  *cache.LRU[*RecommendationList]

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithImageSource enables image features. Without it every product's image
// features are absent.
func WithImageSource(src ImageSource) Option {
	return func(r *Ranker) {
		r.images = src
	}
}

// WithTextExtractor replaces the default text extractor.
func WithTextExtractor(x *features.TextExtractor) Option {
	return func(r *Ranker) {
		r.text = x
	}
}

// WithImageExtractor replaces the default image extractor.
func WithImageExtractor(x *features.ImageExtractor) Option {
	return func(r *Ranker) {
		r.image = x
	}
}

// NewRanker creates a ranker over the given catalog.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRanker(cfg *Config, catalog Catalog, logger zerolog.Logger, opts ...Option) (*Ranker, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}

	r := &Ranker{
		config:  cfg.Clone(),
		logger:  logger.With().Str("component", "recommend").Logger(),
		catalog: catalog,
		text:    features.NewTextExtractor(),
		image:   features.NewImageExtractor(features.DefaultImageConfig()),
		features: cache.NewFeatureCache[features.Set](cache.WithLookupHook(func(hit bool) {
			metrics.RecordCacheLookup("features", hit)
		})),
	}
	if cfg.Cache.Enabled {
		r.results = cache.NewLRU[*RecommendationList](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Config returns a copy of the ranker configuration.
func (r *Ranker) Config() *Config {
	return r.config.Clone()
}

// Features returns the feature set for a product, computing it at most once.
// Concurrent first requests for the same id wait for a single computation.
func (r *Ranker) Features(ctx context.Context, id string) (features.Set, error) {
	p, ok := r.catalog.Get(id)
	if !ok {
		return features.Set{}, &UnknownProductError{ID: id}
	}
	return r.features.GetOrCompute(ctx, id, func(ctx context.Context) (features.Set, error) {
		return r.extract(ctx, &p)
	})
}

func (r *Ranker) extract(ctx context.Context, p *models.Product) (features.Set, error) {
	start := time.Now()

	img, err := r.imageFeatures(ctx, p)
	metrics.RecordFeatureExtraction(time.Since(start), err)
	if err != nil {
		return features.Set{}, err
	}
	return features.Set{
		Text:  r.text.Extract(p.Text()),
		Image: img,
	}, nil
}

// imageFeatures degrades every retrieval or decode failure to an absent
// image. Only cancellation of the caller's context is returned, so that an
// abandoned request does not leave a permanently absent entry in the cache.
func (r *Ranker) imageFeatures(ctx context.Context, p *models.Product) (features.Image, error) {
	if r.images == nil {
		metrics.RecordImageAbsent("disabled")
		return features.AbsentImage(), nil
	}
	if !p.HasImage() {
		metrics.RecordImageAbsent("no_source")
		return features.AbsentImage(), nil
	}

	data, err := r.images.Fetch(ctx, p.ImageSource)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return features.Image{}, ctxErr
		}
		r.logger.Debug().Err(err).Str("product_id", p.ID).Str("source", p.ImageSource).Msg("image unavailable")
		metrics.RecordImageAbsent("fetch_failed")
		return features.AbsentImage(), nil
	}

	img := r.image.Extract(data)
	if !img.Present {
		r.logger.Debug().Str("product_id", p.ID).Int("bytes", len(data)).Msg("image could not be decoded")
		metrics.RecordImageAbsent("decode_failed")
	}
	return img, nil
}

// Recommend ranks candidateIDs by similarity to targetID and returns at most
// k results. A nil candidateIDs ranks against the whole catalog. The target
// is never returned and duplicate candidates are scored once.
//
// Results are ordered by combined score descending, then by id ascending.
func (r *Ranker) Recommend(ctx context.Context, targetID string, candidateIDs []string, k int, w Weights) (*RecommendationList, error) {
	start := time.Now()
	r.requestCount.Add(1)
	mode := ModeOf(w)

	list, err := r.recommend(ctx, targetID, candidateIDs, k, w, start)
	if err != nil {
		r.errorCount.Add(1)
		metrics.RecordRecommendation(string(mode), outcome(err), 0, time.Since(start))
		return nil, err
	}

	result := "ok"
	if list.Metadata.CacheHit {
		result = "cached"
	}
	metrics.RecordRecommendation(string(mode), result, list.Metadata.Candidates, time.Since(start))
	return list, nil
}

func (r *Ranker) recommend(ctx context.Context, targetID string, candidateIDs []string, k int, w Weights, start time.Time) (*RecommendationList, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", ErrContractViolation, k)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	target, ok := r.catalog.Get(targetID)
	if !ok {
		return nil, &UnknownProductError{ID: targetID}
	}
	candidates, err := r.resolveCandidates(targetID, candidateIDs)
	if err != nil {
		return nil, err
	}

	logger := r.logger.With().
		Str("target_id", targetID).
		Str("mode", string(ModeOf(w))).
		Int("k", k).
		Logger()

	cacheKey := r.cacheKey(targetID, candidateIDs, k, w)
	if list := r.cached(cacheKey, start); list != nil {
		logger.Debug().Msg("cache hit")
		return list, nil
	}

	tf, err := r.Features(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("target features: %w", err)
	}

	results, sets, err := r.scoreCandidates(ctx, tf, candidates, w)
	if err != nil {
		return nil, err
	}

	list := &RecommendationList{
		TargetID: targetID,
		Mode:     ModeOf(w),
		Weights:  w,
		K:        k,
		Metadata: ListMetadata{
			Candidates:     len(candidates),
			TargetHasImage: tf.Image.Present,
			Timestamp:      time.Now(),
		},
	}
	for i := range results {
		if !results[i].TextSimilarity.Present {
			list.Metadata.TextAbsent++
		}
		if !results[i].ImageSimilarity.Present {
			list.Metadata.ImageAbsent++
		}
	}

	order := rank(results)
	if len(order) > k {
		order = order[:k]
	}
	list.Results = make([]SimilarityResult, 0, len(order))
	for _, idx := range order {
		res := results[idx]
		if cand, ok := r.catalog.Get(res.CandidateID); ok {
			res.Name = cand.Name
			res.Category = cand.Category
			if r.config.Explain.Enabled {
				res.Explanation = explain(target, cand, tf, sets[idx], &res, r.config.Explain.TopTerms)
			}
		}
		list.Results = append(list.Results, res)
	}
	list.Metadata.LatencyMS = time.Since(start).Milliseconds()

	if r.results != nil {
		r.results.Add(cacheKey, list.clone())
		metrics.UpdateCacheSize("results", r.results.Len())
	}

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(list.Results)).
		Int("image_absent", list.Metadata.ImageAbsent).
		Int64("latency_ms", list.Metadata.LatencyMS).
		Msg("recommendation complete")

	return list, nil
}

// Similar ranks the whole catalog for targetID using the mode's weights.
// A k of 0 selects the configured default and k is capped at the configured
// maximum.
func (r *Ranker) Similar(ctx context.Context, targetID string, k int, mode Mode) (*RecommendationList, error) {
	if k == 0 {
		k = r.config.Limits.DefaultK
	}
	if k > r.config.Limits.MaxK {
		k = r.config.Limits.MaxK
	}
	return r.Recommend(ctx, targetID, nil, k, mode.Weights(r.config.Weights))
}

// resolveCandidates drops the target and duplicates and checks every id exists.
func (r *Ranker) resolveCandidates(targetID string, candidateIDs []string) ([]string, error) {
	if candidateIDs == nil {
		candidateIDs = r.catalog.IDs()
	}

	seen := make(map[string]struct{}, len(candidateIDs))
	out := make([]string, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		if id == targetID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		if _, ok := r.catalog.Get(id); !ok {
			return nil, &UnknownProductError{ID: id}
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// scoreCandidates computes every candidate's similarity in parallel. Results
// are written by index so the output order does not depend on scheduling.
func (r *Ranker) scoreCandidates(ctx context.Context, tf features.Set, candidates []string, w Weights) ([]SimilarityResult, []features.Set, error) {
	results := make([]SimilarityResult, len(candidates))
	sets := make([]features.Set, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Limits.Workers)

	for i, id := range candidates {
		g.Go(func() error {
			cf, err := r.Features(gctx, id)
			if err != nil {
				return fmt.Errorf("candidate %q features: %w", id, err)
			}
			res, err := score(tf, cf, w)
			if err != nil {
				return fmt.Errorf("candidate %q: %w", id, err)
			}
			res.CandidateID = id
			results[i] = res
			sets[i] = cf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, sets, nil
}

func score(a, b features.Set, w Weights) (SimilarityResult, error) {
	text := TextSimilarity(a.Text, b.Text)
	image, err := ImageSimilarity(a.Image, b.Image)
	if err != nil {
		return SimilarityResult{}, err
	}
	return SimilarityResult{
		TextSimilarity:  text,
		ImageSimilarity: image,
		CombinedScore:   Combine(text, image, w),
	}, nil
}

// rank returns result indexes ordered by score descending, then id ascending.
func rank(results []SimilarityResult) []int {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := &results[order[i]], &results[order[j]]
		if a.CombinedScore != b.CombinedScore {
			return a.CombinedScore > b.CombinedScore
		}
		return a.CandidateID < b.CandidateID
	})
	return order
}

func (r *Ranker) cacheKey(targetID string, candidateIDs []string, k int, w Weights) string {
	return cache.Key("recommend", struct {
		Target     string   `json:"t"`
		Candidates []string `json:"c"`
		K          int      `json:"k"`
		Weights    Weights  `json:"w"`
	}{targetID, candidateIDs, k, w})
}

func (r *Ranker) cached(key string, start time.Time) *RecommendationList {
	if r.results == nil {
		return nil
	}
	list, ok := r.results.Get(key)
	metrics.RecordCacheLookup("results", ok)
	if !ok {
		return nil
	}
	c := list.clone()
	c.Metadata.CacheHit = true
	c.Metadata.LatencyMS = time.Since(start).Milliseconds()
	return c
}

// Warm computes feature sets for ids, or the whole catalog when ids is nil.
// progress, if set, is called after each product with the running count and
// may be called from several goroutines at once.
func (r *Ranker) Warm(ctx context.Context, ids []string, progress func(done, total int)) error {
	if ids == nil {
		ids = r.catalog.IDs()
	}
	total := len(ids)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Limits.Workers)
	for _, id := range ids {
		g.Go(func() error {
			if _, err := r.Features(gctx, id); err != nil {
				return err
			}
			n := done.Add(1)
			if progress != nil {
				progress(int(n), total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("warm features: %w", err)
	}

	r.logger.Info().Int("products", total).Int("cached", r.features.Len()).Msg("feature warm-up complete")
	return nil
}

// TopPairs returns the n most similar unordered pairs among ids, or among the
// whole catalog when ids is nil. Within a pair A sorts before B.
func (r *Ranker) TopPairs(ctx context.Context, ids []string, n int, w Weights) ([]Pair, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n must be at least 1, got %d", ErrContractViolation, n)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = r.catalog.IDs()
	}
	ids = dedupe(ids)
	sort.Strings(ids)

	if err := r.Warm(ctx, ids, nil); err != nil {
		return nil, err
	}
	sets := make([]features.Set, len(ids))
	for i, id := range ids {
		set, err := r.Features(ctx, id)
		if err != nil {
			return nil, err
		}
		sets[i] = set
	}

	var pairs []Pair
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			res, err := score(sets[i], sets[j], w)
			if err != nil {
				return nil, fmt.Errorf("pair %q/%q: %w", ids[i], ids[j], err)
			}
			pairs = append(pairs, Pair{
				A:               ids[i],
				B:               ids[j],
				TextSimilarity:  res.TextSimilarity,
				ImageSimilarity: res.ImageSimilarity,
				CombinedScore:   res.CombinedScore,
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].CombinedScore != pairs[j].CombinedScore {
			return pairs[i].CombinedScore > pairs[j].CombinedScore
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs, nil
}

// Stats is a snapshot of ranker activity.
type Stats struct {
	Requests      int64                   `json:"requests"`
	Errors        int64                   `json:"errors"`
	Features      cache.FeatureCacheStats `json:"features"`
	CachedResults int                     `json:"cached_results"`
}

// Stats returns current ranker counters.
func (r *Ranker) Stats() Stats {
	s := Stats{
		Requests: r.requestCount.Load(),
		Errors:   r.errorCount.Load(),
		Features: r.features.Stats(),
	}
	if r.results != nil {
		s.CachedResults = r.results.Len()
	}
	return s
}

// ClearCaches drops every cached feature set and ranked list.
func (r *Ranker) ClearCaches() {
	r.features.Clear()
	if r.results != nil {
		r.results.Clear()
	}
	r.logger.Info().Msg("caches cleared")
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrUnknownProduct):
		return "unknown_product"
	case errors.Is(err, ErrContractViolation):
		return "invalid"
	default:
		return "error"
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
