// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package catalog

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lookalike/internal/models"
)

// ErrUnsupportedShape is returned for JSON documents that are neither an
// array nor an object.
var ErrUnsupportedShape = errors.New("unsupported catalog JSON structure")

// listKeys name the wrapper arrays recognized in object documents, in priority order.
var listKeys = []string{"products", "styles", "items"}

// Result is the outcome of decoding one catalog document.
type Result struct {
	// Products are the normalized records in document order
	Products []models.Product

	// Skipped counts records dropped for lacking an id or a name
	Skipped int
}

// Parse decodes a catalog document and returns its normalized products.
func Parse(data []byte) ([]models.Product, error) {
	res, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return res.Products, nil
}

// Decode decodes a catalog document, reporting skipped records.
func Decode(data []byte) (*Result, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	items, err := itemsOf(doc)
	if err != nil {
		return nil, err
	}

	res := &Result{Products: make([]models.Product, 0, len(items))}
	for _, raw := range items {
		item, ok := asObject(raw)
		if !ok {
			res.Skipped++
			continue
		}
		p, ok := normalize(item)
		if !ok {
			res.Skipped++
			continue
		}
		res.Products = append(res.Products, p)
	}
	return res, nil
}

// itemsOf locates the product records inside a document.
func itemsOf(doc interface{}) ([]interface{}, error) {
	switch v := doc.(type) {
	case []interface{}:
		return v, nil
	case map[string]interface{}:
		for _, key := range listKeys {
			if list, ok := asArray(v[key]); ok {
				return list, nil
			}
		}
		// single product document, including the nested "pal" format
		return []interface{}{v}, nil
	default:
		return nil, ErrUnsupportedShape
	}
}

// normalize maps one record to a Product. It reports false when the record
// has no id or no name.
func normalize(item map[string]interface{}) (models.Product, bool) {
	if pal, ok := asObject(item["pal"]); ok {
		if style, ok := asObject(pal["style"]); ok {
			return normalizePAL(item, pal, style)
		}
	}

	p := models.Product{
		ID:          firstString(item, idKeys),
		Name:        firstString(item, nameKeys),
		Description: firstString(item, descriptionKeys),
		Category:    firstString(item, categoryKeys),
		ImageSource: imageURL(item),
	}
	return finish(p)
}

// normalizePAL reads the nested retailer format where product data lives
// under pal.style, pal.sku and pal.variation.
func normalizePAL(item, pal, style map[string]interface{}) (models.Product, bool) {
	p := models.Product{
		ID:          palProductID(pal),
		Name:        asString(style["name"]),
		Description: asString(style["shortDescription"]),
		ImageSource: imageURL(item),
	}

	if cls, ok := asObject(style["classification"]); ok {
		p.Category = asString(cls["name"])
	}
	if p.Category == "" {
		p.Category = deepestTaxonomy(item["taxonomies"])
	}
	return finish(p)
}

// palProductID prefers the first storefront web product id over the sku id.
// Storefront maps are unordered, so the lexically smallest storefront key wins.
func palProductID(pal map[string]interface{}) string {
	if variation, ok := asObject(pal["variation"]); ok {
		if fronts, ok := asObject(variation["storeFronts"]); ok {
			for _, key := range sortedKeys(fronts) {
				store, ok := asObject(fronts[key])
				if !ok {
					continue
				}
				products, ok := asArray(store["webProduct"])
				if !ok || len(products) == 0 {
					continue
				}
				if first, ok := asObject(products[0]); ok {
					if id := asString(first["webProductID"]); id != "" {
						return id
					}
				}
			}
		}
	}
	if sku, ok := asObject(pal["sku"]); ok {
		return asString(sku["id"])
	}
	return ""
}

// deepestTaxonomy returns the name of the taxonomy entry with the highest levelNumber.
func deepestTaxonomy(v interface{}) string {
	list, ok := asArray(v)
	if !ok {
		return ""
	}
	best, bestLevel := "", -1.0
	for _, raw := range list {
		tax, ok := asObject(raw)
		if !ok {
			continue
		}
		level := 0.0
		if n, ok := tax["levelNumber"].(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				level = f
			}
		}
		if level > bestLevel {
			best, bestLevel = asString(tax["name"]), level
		}
	}
	return best
}

func finish(p models.Product) (models.Product, bool) {
	if p.ID == "" || p.Name == "" {
		return models.Product{}, false
	}
	if p.Category == "" {
		p.Category = InferCategory(p.Name)
	}
	return p, true
}
