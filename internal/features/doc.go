// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

/*
Package features turns products into comparable feature vectors.

Two modalities are supported:

  - Text: a sparse term-frequency vector built from the product name and
    description (HTML stripped, lowercased, stopwords and one-character
    tokens removed). An empty vector means "no text signal".
  - Image: a fixed-length vector made of per-channel color histograms
    normalized by pixel count, followed by width, height and aspect-ratio
    descriptors clipped to [0,1]. Missing or undecodable images produce an
    absent Image rather than a zero vector.

Extractors are pure and deterministic. They never return errors across the
package boundary: failures degrade to an empty text vector or an absent image.

Usage:

	text := features.NewTextExtractor()
	img := features.NewImageExtractor(features.DefaultImageConfig())

	set := features.Set{
	    Text:  text.Extract(product.Text()),
	    Image: img.Extract(imageBytes),
	}
*/
package features
