// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

// Package imagefetch retrieves product images from http(s) URLs and local
// files for feature extraction.
//
// Failures are returned to the caller, which treats them as absent image
// features; nothing here ever fails a recommendation. Fetched bytes are
// validated with image.DecodeConfig and cached in a Store keyed by
// "img:" plus the MD5 of the reference. BadgerStore persists the cache across
// runs; MemoryStore serves tests and cache-less deployments.
package imagefetch
