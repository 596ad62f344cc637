// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/lookalike/internal/features"
)

// TextSimilarity is the cosine similarity of two term-weight vectors.
// It is Absent when either vector is empty.
//
// Terms are summed in sorted order so the result does not depend on map
// iteration or argument order.
func TextSimilarity(a, b features.TextVector) Score {
	if a.Empty() || b.Empty() {
		return Absent()
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := make([]string, 0, len(small))
	for term := range small {
		if _, ok := large[term]; ok {
			shared = append(shared, term)
		}
	}
	sort.Strings(shared)

	var dot float64
	for _, term := range shared {
		dot += a[term] * b[term]
	}
	return cosine(dot, sumSquares(a), sumSquares(b))
}

// ImageSimilarity is the cosine similarity of two image feature vectors.
// It is Absent when either side is absent and reports ErrContractViolation
// when the vectors have different dimensionality.
func ImageSimilarity(a, b features.Image) (Score, error) {
	if !a.Present || !b.Present {
		return Absent(), nil
	}
	if len(a.Vector) != len(b.Vector) {
		return Absent(), fmt.Errorf("%w: image vectors have %d and %d dimensions",
			ErrContractViolation, len(a.Vector), len(b.Vector))
	}

	var dot, na2, nb2 float64
	for i := range a.Vector {
		dot += a.Vector[i] * b.Vector[i]
		na2 += a.Vector[i] * a.Vector[i]
		nb2 += b.Vector[i] * b.Vector[i]
	}
	return cosine(dot, na2, nb2), nil
}

// Combine merges per-modality scores into one value in [0, 1].
//
// With both present it is the weighted average. With one present it is that
// score when its weight is positive and 0 otherwise. With neither it is 0.
// Weights are assumed to have passed Weights.Validate.
func Combine(text, image Score, w Weights) float64 {
	switch {
	case text.Present && image.Present:
		return clip01((w.Text*text.Value + w.Image*image.Value) / (w.Text + w.Image))
	case text.Present:
		if w.Text > 0 {
			return text.Value
		}
		return 0
	case image.Present:
		if w.Image > 0 {
			return image.Value
		}
		return 0
	default:
		return 0
	}
}

// cosine divides by sqrt(na2*nb2) rather than sqrt(na2)*sqrt(nb2) so that a
// vector compared with itself yields exactly 1.
func cosine(dot, na2, nb2 float64) Score {
	if na2 == 0 || nb2 == 0 {
		return Present(0)
	}
	return Present(dot / math.Sqrt(na2*nb2))
}

func sumSquares(v features.TextVector) float64 {
	terms := make([]string, 0, len(v))
	for term := range v {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	var sum float64
	for _, term := range terms {
		sum += v[term] * v[term]
	}
	return sum
}
