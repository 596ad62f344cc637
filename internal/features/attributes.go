// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package features

import "sort"

// AttributeGroups are fixed keyword families used to annotate recommendations.
// They do not influence scores.
var AttributeGroups = map[string][]string{
	"luxury":   {"luxury", "premium", "designer", "couture", "exclusive"},
	"material": {"leather", "silk", "crystal", "gold", "silver", "brass"},
	"style":    {"elegant", "sophisticated", "classic", "modern", "vintage"},
	"occasion": {"evening", "formal", "casual", "party", "wedding"},
	"size":     {"mini", "small", "medium", "large", "oversized"},
}

// Attributes returns, per group, the group keywords present in v.
// Groups with no match are omitted. Keywords are sorted.
func Attributes(v TextVector) map[string][]string {
	out := make(map[string][]string)
	for group, words := range AttributeGroups {
		for _, w := range words {
			if v[w] > 0 {
				out[group] = append(out[group], w)
			}
		}
		sort.Strings(out[group])
	}
	return out
}

// SharedAttributes returns the keywords both vectors carry, grouped as in Attributes.
func SharedAttributes(a, b TextVector) map[string][]string {
	shared := make(map[string][]string)
	for group, words := range Attributes(a) {
		for _, w := range words {
			if b[w] > 0 {
				shared[group] = append(shared[group], w)
			}
		}
	}
	return shared
}
