// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/lookalike/internal/logging"
	"github.com/tomtom215/lookalike/internal/recommend"
	"github.com/tomtom215/lookalike/internal/validation"
)

// SimilarProducts handles GET /api/v1/products/{productID}/similar.
//
// Query parameters:
//   - k: number of results; 0 or absent uses the configured default, larger
//     values are capped at the configured maximum
//   - mode: text, image or combined (default)
//   - text_weight, image_weight: override the configured combined weights
//
// The mode takes precedence over explicit weights: mode=text always scores
// with text weight 1 and image weight 0.
func (h *Handler) SimilarProducts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q, verr := validation.ParseSimilarQuery(chi.URLParam(r, "productID"), r.URL.Query())
	if verr != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), verr.Details())
		return
	}

	k, weights, err := h.resolve(q)
	if err != nil {
		writeError(rw, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	list, err := h.recommender.Recommend(ctx, q.ProductID, nil, k, weights)
	if err != nil {
		writeError(rw, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("product_id", q.ProductID).
		Str("mode", string(list.Mode)).
		Int("returned", len(list.Results)).
		Bool("cache_hit", list.Metadata.CacheHit).
		Msg("similar products served")
	rw.Success(list)
}

// resolve applies configured defaults to a validated query.
func (h *Handler) resolve(q validation.SimilarQuery) (int, recommend.Weights, error) {
	cfg := h.recommender.Config()

	mode, err := recommend.ParseMode(q.Mode)
	if err != nil {
		return 0, recommend.Weights{}, err
	}
	base := cfg.Weights
	if q.TextWeight != nil {
		base.Text = *q.TextWeight
	}
	if q.ImageWeight != nil {
		base.Image = *q.ImageWeight
	}

	k := q.K
	if k == 0 {
		k = cfg.Limits.DefaultK
	}
	if k > cfg.Limits.MaxK {
		k = cfg.Limits.MaxK
	}
	return k, mode.Weights(base), nil
}

// GetProduct handles GET /api/v1/products/{productID}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "productID")

	p, ok := h.products.Get(id)
	if !ok {
		rw.NotFound("product not found", map[string]any{"product_id": id})
		return
	}
	rw.Success(p)
}

// CatalogStats handles GET /api/v1/catalog/stats.
func (h *Handler) CatalogStats(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.stats)
}
