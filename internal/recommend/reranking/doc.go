// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

// Package reranking implements the selection stage of the recommendation
// pipeline: the step between a scored candidate list and the final top-K.
//
// # Overview
//
//	Strategy -> SortByScore -> Selector -> Rerankers -> truncate(k)
//
// Each request kind gets at most one selector. Rerankers apply to every
// scored request after the selector.
//
// # Available Selectors and Rerankers
//
// ComplementaryQuota:
//   - Takes up to a quota of outfit-completing items
//   - Fills the rest from general items, then re-sorts by score
//   - Used for personalized (quota 3) and similar-item (quota 2) lists
//
// CategoryDiversity:
//   - Cold-start selector, at most N items per article type
//   - Backfills when categories run out, then shuffles
//   - Order is intentionally non-deterministic unless the random source is seeded
//
// MMR (Maximal Marginal Relevance):
//   - Penalizes items whose attributes overlap already selected items
//   - Lambda 1.0 disables it
//
// # MMR Similarity
//
// Items are compared by Jaccard similarity of their attribute values:
//
//	sim(a, b) = |attrs(a) ∩ attrs(b)| / |attrs(a) ∪ attrs(b)|
//
// where attrs(x) is the set of "attribute=value" pairs over gender, master
// category, subcategory, article type, colour, season and usage.
//
// MMR Complexity:
//   - Time: O(k * n^2) where k = output size, n = input size
//   - Space: O(n^2) for similarity matrix
//
// # Thread Safety
//
// All selectors are safe for concurrent use. CategoryDiversity shares a
// mutex-guarded random source.
package reranking
