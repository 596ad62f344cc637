// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/lookalike/internal/features"
	"github.com/tomtom215/lookalike/internal/models"
)

// Color similarity bands, checked top down.
var colorBands = []struct {
	min   float64
	label string
}{
	{0.9, "very similar colors"},
	{0.7, "similar colors"},
	{0.4, "somewhat similar colors"},
	{0, "different colors"},
}

// ColorBand labels an image similarity score. Absent scores get no label.
func ColorBand(s Score) string {
	if !s.Present {
		return ""
	}
	for _, b := range colorBands {
		if s.Value >= b.min {
			return b.label
		}
	}
	return colorBands[len(colorBands)-1].label
}

// SharedTerms returns up to n terms present in both vectors, strongest first.
// A term's strength is the smaller of its two weights; ties break by term.
func SharedTerms(a, b features.TextVector, n int) []string {
	if n <= 0 || a.Empty() || b.Empty() {
		return nil
	}

	type shared struct {
		term   string
		weight float64
	}
	var terms []shared
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			terms = append(terms, shared{term: term, weight: math.Min(wa, wb)})
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].weight != terms[j].weight {
			return terms[i].weight > terms[j].weight
		}
		return terms[i].term < terms[j].term
	})

	if len(terms) > n {
		terms = terms[:n]
	}
	out := make([]string, len(terms))
	for i := range terms {
		out[i] = terms[i].term
	}
	return out
}

// explain builds the explanation for a scored candidate.
//
//nolint:gocritic // hugeParam: products passed by value, they are read-only here
func explain(target, candidate models.Product, tf, cf features.Set, res *SimilarityResult, topTerms int) *Explanation {
	e := &Explanation{
		SharedTerms:     SharedTerms(tf.Text, cf.Text, topTerms),
		ColorSimilarity: ColorBand(res.ImageSimilarity),
		SameCategory:    sameCategory(target.Category, candidate.Category),
	}
	if attrs := features.SharedAttributes(tf.Text, cf.Text); len(attrs) > 0 {
		e.SharedAttributes = attrs
	}
	return e
}

func sameCategory(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
