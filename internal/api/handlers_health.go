// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package api

import (
	"net/http"
	"time"
)

// WarmupStatus reports feature precomputation progress.
type WarmupStatus struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// HealthLive handles GET /api/v1/health/live. It answers 200 whenever the
// process can serve HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]any{
		"alive":          true,
		"version":        h.version,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /api/v1/health/ready. It answers 503 until
// feature warm-up has finished.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.readiness == nil {
		rw.Success(map[string]any{"ready": true})
		return
	}

	done, total := h.readiness.Progress()
	status := WarmupStatus{Done: done, Total: total}
	if !h.readiness.Ready() {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "feature warm-up in progress", status)
		return
	}
	rw.Success(map[string]any{"ready": true, "warmup": status})
}
