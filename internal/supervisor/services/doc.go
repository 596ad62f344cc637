// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

// Package services adapts Lookalike components to suture.Service.
//
//   - HTTPServerService: runs the API server with graceful shutdown
//   - WarmupService: precomputes catalog features once and reports readiness
package services
