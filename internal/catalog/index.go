// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package catalog

import (
	"sort"
	"sync"

	"github.com/tomtom215/lookalike/internal/models"
)

// Index is a read-mostly id → product map that preserves insertion order.
type Index struct {
	mu       sync.RWMutex
	products map[string]models.Product
	order    []string
}

// NewIndex builds an index from products. Duplicate ids keep the first record;
// the duplicates are returned so the caller can report them.
func NewIndex(products []models.Product) (*Index, []string) {
	idx := &Index{products: make(map[string]models.Product, len(products))}
	dups := idx.Add(products...)
	return idx, dups
}

// Add inserts products, skipping ids already present. It returns the skipped ids.
func (i *Index) Add(products ...models.Product) []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.products == nil {
		i.products = make(map[string]models.Product, len(products))
	}

	var dups []string
	for _, p := range products {
		if _, exists := i.products[p.ID]; exists {
			dups = append(dups, p.ID)
			continue
		}
		i.products[p.ID] = p
		i.order = append(i.order, p.ID)
	}
	return dups
}

// Get returns the product with id.
func (i *Index) Get(id string) (models.Product, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	p, ok := i.products[id]
	return p, ok
}

// Contains reports whether id is indexed.
func (i *Index) Contains(id string) bool {
	_, ok := i.Get(id)
	return ok
}

// IDs returns product ids in insertion order.
func (i *Index) IDs() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]string, len(i.order))
	copy(out, i.order)
	return out
}

// Products returns all products in insertion order.
func (i *Index) Products() []models.Product {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]models.Product, 0, len(i.order))
	for _, id := range i.order {
		out = append(out, i.products[id])
	}
	return out
}

// Len returns the number of products.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.order)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
