// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package catalog

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Fallback keys, tried in order.
var (
	idKeys          = []string{"id", "productId", "styleId", "sku"}
	nameKeys        = []string{"name", "productName", "styleName", "title"}
	descriptionKeys = []string{"description", "shortDescription", "longDescription"}
	categoryKeys    = []string{"category", "categoryId", "department", "classification"}
	assetURLKeys    = []string{"url", "imageUrl", "src", "href"}
	imageKeys       = []string{"image", "imageUrl", "thumbnail", "photo", "picture", "img"}
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".tiff"}

var imageHostHints = []string{"image", "photo", "img", "media", "cdn"}

// categoryRule maps name keywords to an inferred category.
type categoryRule struct {
	category string
	keywords []string
}

// categoryRules are checked in order; the first keyword hit wins.
var categoryRules = []categoryRule{
	{"dress", []string{"dress", "gown", "frock"}},
	{"shirt", []string{"shirt", "blouse", "top", "tee"}},
	{"pants", []string{"pants", "trousers", "jeans", "leggings"}},
	{"shoes", []string{"shoe", "boot", "sandal", "sneaker"}},
	{"bag", []string{"bag", "purse", "handbag", "tote"}},
	{"jacket", []string{"jacket", "blazer", "coat", "outerwear"}},
	{"accessories", []string{"belt", "scarf", "hat", "jewelry", "watch"}},
	{"skirt", []string{"skirt", "mini", "midi", "maxi"}},
}

// firstValue returns the first present key's value.
func firstValue(obj map[string]interface{}, keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// firstString resolves keys to a trimmed string. Numbers are formatted without
// exponent; objects yield their "name" field.
func firstString(obj map[string]interface{}, keys []string) string {
	v, ok := firstValue(obj, keys)
	if !ok {
		return ""
	}
	return asString(v)
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return numberString(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]interface{}:
		if name, ok := t["name"]; ok {
			return asString(name)
		}
		return ""
	default:
		return ""
	}
}

// numberString writes numeric ids the way they would be typed as strings:
// integer literals verbatim, anything with a fraction or exponent in plain
// decimal form.
func numberString(n json.Number) string {
	lit := n.String()
	if !strings.ContainsAny(lit, ".eE") {
		return lit
	}
	f, err := n.Float64()
	if err != nil {
		return lit
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func asObject(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

func asArray(v interface{}) ([]interface{}, bool) {
	a, ok := v.([]interface{})
	return a, ok
}

// IsImageURL reports whether s looks like an image location: a known image
// extension anywhere in it, or a common image-hosting word.
func IsImageURL(s string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	for _, hint := range imageHostHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// InferCategory derives a category from product name keywords.
func InferCategory(name string) string {
	if strings.TrimSpace(name) == "" {
		return "unknown"
	}
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return "other"
}

// assetImage searches a digital asset list for the first usable image URL.
func assetImage(v interface{}, withGenericKeys bool) string {
	assets, ok := asArray(v)
	if !ok {
		return ""
	}
	for _, a := range assets {
		asset, ok := asObject(a)
		if !ok {
			continue
		}
		if name, ok := asObject(asset["assetName"]); ok {
			if u := asString(name["linkURL"]); IsImageURL(u) {
				return u
			}
		}
		if u := asString(asset["linkURL"]); IsImageURL(u) {
			return u
		}
		if withGenericKeys {
			if u := firstString(asset, assetURLKeys); IsImageURL(u) {
				return u
			}
		}
	}
	return ""
}

// imageURL finds the product image: nested pal assets, then top-level digital
// assets, then common image fields.
func imageURL(item map[string]interface{}) string {
	if pal, ok := asObject(item["pal"]); ok {
		if u := assetImage(pal["digitalAssets"], false); u != "" {
			return u
		}
	}
	if u := assetImage(item["digitalAssets"], true); u != "" {
		return u
	}
	if u := firstString(item, imageKeys); IsImageURL(u) {
		return u
	}
	return ""
}
