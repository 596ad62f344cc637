// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package models

// Product is a normalized catalog record. Products are immutable once they
// have been handed to the recommendation core.
type Product struct {
	// ID uniquely identifies the product within a catalog
	ID string `json:"id"`

	// Name is the display name (may be "unknown" when the source had none)
	Name string `json:"name"`

	// Description is free text and may be empty
	Description string `json:"description,omitempty"`

	// Category is the source category or one inferred from the name
	Category string `json:"category"`

	// ImageSource is an http(s) URL, file:// URL, or local path; empty when absent
	ImageSource string `json:"image_source,omitempty"`
}

// HasImage reports whether the product carries an image source.
func (p *Product) HasImage() bool {
	return p.ImageSource != ""
}

// Text returns the text used for feature extraction: name followed by description.
func (p *Product) Text() string {
	switch {
	case p.Description == "":
		return p.Name
	case p.Name == "":
		return p.Description
	default:
		return p.Name + " " + p.Description
	}
}
