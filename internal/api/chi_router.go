// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/lookalike/internal/middleware"
)

// NewRouter builds the HTTP routes:
//
//	GET /api/v1/products/{productID}/similar
//	GET /api/v1/products/{productID}
//	GET /api/v1/catalog/stats
//	GET /api/v1/health/live
//	GET /api/v1/health/ready
//	GET /metrics
//
// Health probes are not rate limited.
func NewRouter(h *Handler, mw *ChiMiddleware) http.Handler {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("no such endpoint", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit("api"))
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Get("/catalog/stats", h.CatalogStats)
		r.Route("/products/{productID}", func(r chi.Router) {
			r.Get("/", h.GetProduct)
			r.Get("/similar", h.SimilarProducts)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
