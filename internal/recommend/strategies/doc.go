// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

// Package strategies implements the scoring strategies used by the
// recommendation service.
//
// Each strategy implements recommend.ScoringStrategy and is registered with
// the service for one request kind:
//
//   - VectorSimilarity: cosine against the preference vector with outfit boosts
//   - RuleBased: additive attribute weights against the profile's top values
//   - QuizKeyword: keyword and palette matching against quiz answers
//   - ItemSimilarity: item-to-item attribute and vector similarity
//
// # Thread Safety
//
// Strategies hold only configuration and a shared random source, so they are
// safe for concurrent use.
package strategies
