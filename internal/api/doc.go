// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

// Package api exposes product similarity over HTTP using chi.
//
// Every JSON response uses the same envelope:
//
//	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}}
//	{"success": false, "error": {"code": "NOT_FOUND", "message": "...", "details": {...}}, "meta": {...}}
//
// Ranking errors map to status codes: unknown products are 404, invalid
// weights or parameters are 400 (VALIDATION_ERROR for malformed query
// values) and unexpected failures are 500.
//
// A request for similar products never fails because of image problems;
// candidates without image features are ranked on text alone and counted in
// the response metadata.
package api
