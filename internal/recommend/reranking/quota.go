// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package reranking

import (
	"context"

	"github.com/tomtom215/stylematch/internal/recommend"
)

// ComplementaryQuota caps how many outfit-completing items a list carries.
//
// Candidates are split into complementary and general items, each kept in
// score order. Up to quota complementary items are taken, the rest of the
// slots are filled from the general items, and the combined list is sorted
// by score again. Complementary items therefore carry no positional
// guarantee.
type ComplementaryQuota struct {
	quota int
}

// NewComplementaryQuota creates a quota selector. A negative quota is
// treated as zero.
func NewComplementaryQuota(quota int) *ComplementaryQuota {
	if quota < 0 {
		quota = 0
	}
	return &ComplementaryQuota{quota: quota}
}

// Name returns the selector identifier.
func (q *ComplementaryQuota) Name() string {
	return "complementary_quota"
}

// Rerank applies the quota. items must already be sorted by score.
func (q *ComplementaryQuota) Rerank(_ context.Context, items []recommend.ScoredCandidate, k int) []recommend.ScoredCandidate {
	if len(items) == 0 || k <= 0 {
		return nil
	}

	complementary := make([]recommend.ScoredCandidate, 0, q.quota)
	general := make([]recommend.ScoredCandidate, 0, len(items))
	for i := range items {
		if items[i].IsComplementary {
			if len(complementary) < q.quota {
				complementary = append(complementary, items[i])
			}
			continue
		}
		general = append(general, items[i])
	}

	if len(complementary) > k {
		complementary = complementary[:k]
	}
	remaining := k - len(complementary)
	if len(general) > remaining {
		general = general[:remaining]
	}

	out := make([]recommend.ScoredCandidate, 0, len(complementary)+len(general))
	out = append(out, complementary...)
	out = append(out, general...)
	recommend.SortByScore(out)
	return out
}

var _ recommend.Reranker = (*ComplementaryQuota)(nil)
