// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package strategies

import (
	"context"

	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/recommend"
)

// StrategyItem is the name reported by ItemSimilarity.
const StrategyItem = "item"

// itemWeights are the points an attribute shared with the anchor contributes.
var itemWeights = map[catalog.Attribute]float64{
	catalog.AttrGender:         10,
	catalog.AttrMasterCategory: 20,
	catalog.AttrSubCategory:    15,
	catalog.AttrArticleType:    25,
	catalog.AttrBaseColour:     10,
	catalog.AttrSeason:         5,
	catalog.AttrUsage:          15,
}

// sharedWordPoints is awarded per display-name word shared with the anchor.
const sharedWordPoints = 5.0

// ItemSimilarity scores candidates against an anchor item for the "more
// like this" and "complete the look" listings.
type ItemSimilarity struct {
	useVectors bool
}

// NewItemSimilarity creates an item-to-item strategy. When useVectors is set,
// the cosine of the feature vectors is added to the attribute score.
func NewItemSimilarity(useVectors bool) *ItemSimilarity {
	return &ItemSimilarity{useVectors: useVectors}
}

// Name returns the strategy identifier.
func (s *ItemSimilarity) Name() string {
	return StrategyItem
}

// Score rates every candidate against q.Anchor. The anchor itself is skipped.
func (s *ItemSimilarity) Score(ctx context.Context, q *recommend.ScoringQuery, candidates []catalog.Item) ([]recommend.ScoredCandidate, error) {
	if q == nil || q.Anchor == nil {
		return nil, nil
	}
	anchor := q.Anchor

	anchorWords := toSet(anchor.Words())
	var anchorVec []float64
	if s.useVectors {
		anchorVec, _ = q.Features.Vector(anchor.ID)
	}

	scored := make([]recommend.ScoredCandidate, 0, len(candidates))
	for i := range candidates {
		if err := checkCancelled(ctx, i); err != nil {
			return nil, err
		}

		cand := &candidates[i]
		if cand.ID == anchor.ID {
			continue
		}

		var score float64
		for _, a := range catalog.Attributes {
			v := cand.Value(a)
			if v != "" && v == anchor.Value(a) {
				score += itemWeights[a]
			}
		}

		seen := make(map[string]struct{})
		for _, w := range cand.Words() {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			if _, ok := anchorWords[w]; ok {
				score += sharedWordPoints
			}
		}

		if anchorVec != nil {
			if vec, ok := q.Features.Vector(cand.ID); ok {
				score += recommend.Cosine(anchorVec, vec)
			}
		}

		sc := recommend.ScoredCandidate{
			Item:   *cand,
			Score:  score,
			Reason: "Similar style",
		}
		if recommend.IsComplementary(anchor.ArticleType, cand.ArticleType) {
			sc.IsComplementary = true
			sc.Reason = "Completes your look"
		}
		scored = append(scored, sc)
	}

	return scored, nil
}

var _ recommend.ScoringStrategy = (*ItemSimilarity)(nil)
