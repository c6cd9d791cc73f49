// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package reranking

import (
	"context"
	"strings"

	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/recommend"
)

// maxRerankSize limits slice allocations; k is also bounded by len(items).
const maxRerankSize = 10000

// MMR implements Maximal Marginal Relevance reranking.
// It balances relevance and diversity by iteratively selecting items
// that are both relevant and dissimilar to already selected items.
//
// The MMR formula is:
//
//	MMR = argmax[lambda * rel(i) - (1-lambda) * max(sim(i, s)) for s in selected]
//
// Where:
//   - lambda: balance parameter (1.0 = pure relevance, 0.0 = pure diversity)
//   - rel(i): score of item i divided by the highest score in the list
//   - sim(i, s): Jaccard similarity of the two items' attribute values
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct {
	// Lambda balances relevance vs. diversity (0.0 to 1.0)
	lambda float64
}

// NewMMR creates a new MMR reranker.
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank applies MMR reranking to diversify the recommendation list.
//
//nolint:gocritic // rangeValCopy: ScoredCandidate passed by value in range, acceptable for clarity
func (m *MMR) Rerank(ctx context.Context, items []recommend.ScoredCandidate, k int) []recommend.ScoredCandidate {
	if len(items) == 0 || k <= 0 {
		return items
	}

	if k > maxRerankSize {
		k = maxRerankSize
	}
	if k > len(items) {
		k = len(items)
	}

	// Pure relevance keeps the incoming order.
	if m.lambda >= 1.0 {
		if len(items) > k {
			return items[:k]
		}
		return items
	}

	maxScore := 0.0
	for _, item := range items {
		if item.Score > maxScore {
			maxScore = item.Score
		}
	}

	similarities := m.buildSimilarityMatrix(items)

	selected := make([]recommend.ScoredCandidate, 0, k)
	selectedIndices := make(map[int]struct{})

	for len(selected) < k {
		if ctx.Err() != nil {
			break
		}

		bestIdx := -1
		bestMMR := 0.0

		for i, item := range items {
			if _, ok := selectedIndices[i]; ok {
				continue
			}

			relevance := item.Score
			if maxScore > 0 {
				relevance /= maxScore
			}
			maxSim := 0.0
			for j := range selectedIndices {
				if sim := similarities[i][j]; sim > maxSim {
					maxSim = sim
				}
			}

			mmrScore := m.lambda*relevance - (1-m.lambda)*maxSim
			if bestIdx < 0 || mmrScore > bestMMR {
				bestMMR = mmrScore
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			break
		}

		selected = append(selected, items[bestIdx])
		selectedIndices[bestIdx] = struct{}{}
	}

	return selected
}

// buildSimilarityMatrix computes pairwise attribute similarity.
func (m *MMR) buildSimilarityMatrix(items []recommend.ScoredCandidate) [][]float64 {
	n := len(items)
	tokens := make([]map[string]struct{}, n)
	for i := range items {
		tokens[i] = attributeTokens(&items[i].Item)
	}

	similarities := make([][]float64, n)
	for i := range similarities {
		similarities[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := jaccard(tokens[i], tokens[j])
			similarities[i][j] = sim
			similarities[j][i] = sim
		}
	}

	return similarities
}

// attributeTokens returns the item's non-empty attribute values as
// "attribute=value" tokens, lower-cased.
func attributeTokens(item *catalog.Item) map[string]struct{} {
	set := make(map[string]struct{}, len(catalog.Attributes))
	for _, a := range catalog.Attributes {
		v := strings.TrimSpace(item.Value(a))
		if v == "" {
			continue
		}
		set[a.String()+"="+strings.ToLower(v)] = struct{}{}
	}
	return set
}

// jaccard computes |a ∩ b| / |a ∪ b|, 0 when both are empty.
func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Ensure MMR implements the interface.
var _ recommend.Reranker = (*MMR)(nil)
