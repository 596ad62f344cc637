// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

// Package validation checks HTTP request parameters with go-playground/validator.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use. Error field names come from the
// query (or json) struct tag so messages match what the client sent:
//
//	q, verr := validation.ParseSimilarQuery(chi.URLParam(r, "productID"), r.URL.Query())
//	if verr != nil {
//		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error(), verr.Details())
//		return
//	}
//
// The productid rule rejects identifiers with surrounding whitespace, path
// separators or control characters.
package validation
