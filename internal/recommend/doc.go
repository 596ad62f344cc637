// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

// Package recommend ranks catalog products by multimodal similarity to a
// target product.
//
// # Scoring
//
// Each product is reduced to a feature set: a term-frequency vector of its
// name and description, and an optional image vector (color histograms plus
// shape descriptors). Candidates are compared with the target by cosine
// similarity per modality:
//
//   - Text similarity is absent when either product has no usable terms.
//   - Image similarity is absent when either product has no image features.
//
// The combined score is the weighted average of the present modalities. When
// only one modality is present its score is used alone if its weight is
// positive, and 0 otherwise. Candidates are never dropped for missing data.
//
// # Ordering
//
// Results are sorted by combined score descending with ties broken by product
// id ascending, then truncated to k. The target is never part of its own
// results. Scoring runs on a bounded worker pool and results are collected
// by index before sorting, so output does not depend on scheduling.
//
// # Usage
//
//	idx, err := catalog.LoadFiles(paths, logger)
//	ranker, err := recommend.NewRanker(recommend.DefaultConfig(), idx, logger,
//	    recommend.WithImageSource(fetcher))
//
//	list, err := ranker.Recommend(ctx, "P1", nil, 5, recommend.Weights{Text: 0.6, Image: 0.4})
//
// # Thread Safety
//
// A Ranker is safe for concurrent use. Feature sets are computed at most once
// per product; concurrent first requests wait for the same computation.
package recommend
