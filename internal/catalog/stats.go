// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package catalog

import "sort"

// CategoryCount is the number of products in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats summarizes a catalog.
type Stats struct {
	// Products is the total product count
	Products int `json:"products"`

	// Categories lists category sizes, largest first (ties by name)
	Categories []CategoryCount `json:"categories"`

	// WithImage counts products that have an image source
	WithImage int `json:"with_image"`

	// ImageCoverage is WithImage / Products (0 for an empty catalog)
	ImageCoverage float64 `json:"image_coverage"`

	// AvgDescriptionLength is the mean description length in characters
	AvgDescriptionLength float64 `json:"avg_description_length"`
}

// ComputeStats summarizes the products in idx.
func ComputeStats(idx *Index) Stats {
	products := idx.Products()
	s := Stats{Products: len(products)}
	if len(products) == 0 {
		s.Categories = []CategoryCount{}
		return s
	}

	counts := make(map[string]int)
	totalDesc := 0
	for i := range products {
		p := &products[i]
		counts[p.Category]++
		if p.HasImage() {
			s.WithImage++
		}
		totalDesc += len([]rune(p.Description))
	}

	s.Categories = make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		s.Categories = append(s.Categories, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		if s.Categories[i].Count != s.Categories[j].Count {
			return s.Categories[i].Count > s.Categories[j].Count
		}
		return s.Categories[i].Category < s.Categories[j].Category
	})

	s.ImageCoverage = float64(s.WithImage) / float64(len(products))
	s.AvgDescriptionLength = float64(totalDesc) / float64(len(products))
	return s
}
