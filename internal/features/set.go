// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package features

// Set holds the features of one product. Once computed for a product id
// within a session it is treated as immutable.
type Set struct {
	// Text is the term-frequency vector (may be empty)
	Text TextVector

	// Image is the optional image vector
	Image Image
}
