// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lookalike/internal/catalog"
	"github.com/tomtom215/lookalike/internal/models"
	"github.com/tomtom215/lookalike/internal/recommend"
)

// Recommender ranks products. *recommend.Ranker implements it.
type Recommender interface {
	Recommend(ctx context.Context, targetID string, candidateIDs []string, k int, w recommend.Weights) (*recommend.RecommendationList, error)
	Config() *recommend.Config
}

// ProductLookup finds products by id. *catalog.Index implements it.
type ProductLookup interface {
	Get(id string) (models.Product, bool)
}

// Readiness reports feature warm-up state.
type Readiness interface {
	Ready() bool
	Progress() (done, total int)
}

// Handler serves the product similarity API.
type Handler struct {
	recommender Recommender
	products    ProductLookup
	stats       catalog.Stats
	readiness   Readiness
	timeout     time.Duration
	version     string
	startTime   time.Time
	logger      zerolog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithReadiness gates /health/ready on r. Without it the service is ready
// as soon as it starts.
func WithReadiness(r Readiness) HandlerOption {
	return func(h *Handler) { h.readiness = r }
}

// WithRequestTimeout bounds each recommendation. Default: 30s.
func WithRequestTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) { h.timeout = d }
}

// WithVersion sets the version reported by the liveness probe.
func WithVersion(v string) HandlerOption {
	return func(h *Handler) { h.version = v }
}

// WithLogger sets the handler logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(l zerolog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = l }
}

// NewHandler creates a Handler. stats is computed once by the caller since
// the catalog does not change while serving.
func NewHandler(rec Recommender, products ProductLookup, stats catalog.Stats, opts ...HandlerOption) *Handler {
	h := &Handler{
		recommender: rec,
		products:    products,
		stats:       stats,
		timeout:     30 * time.Second,
		version:     "dev",
		startTime:   time.Now(),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
