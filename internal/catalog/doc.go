// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

/*
Package catalog loads product catalogs from heterogeneous JSON documents and
maintains the read-only id → product index consumed by the recommender.

Supported document shapes:

  - a JSON array of product objects
  - an object holding a "products", "styles" or "items" array
  - a single product object, including the nested retailer "pal" format

Field names vary between feeds, so each product field is resolved through a
list of fallback keys (for example id, productId, styleId, sku). Image URLs are
searched in digital asset lists before top-level image fields and are accepted
only when they look like image locations.

Multiple files can be merged into one Index, either passed directly or listed
in a source file (one path per line, "#" comments allowed).
*/
package catalog
