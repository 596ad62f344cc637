// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

/*
Package models defines the normalized product record shared by every
Lookalike package.

Product values are produced by the catalog loader from heterogeneous JSON
shapes and are read-only from then on: feature extraction, ranking and the
HTTP API only ever copy them.

JSON Serialization:

	{
	  "id": "SKU-1042",
	  "name": "Red Cotton Dress",
	  "description": "Midi dress in washed cotton",
	  "category": "dress",
	  "image_source": "https://cdn.example.com/sku-1042.jpg"
	}

Empty description and image_source are omitted.
*/
package models
