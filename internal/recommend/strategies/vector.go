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

// VectorSimilarity scores candidates by cosine similarity to the profile
// vector, then applies outfit and preference boosts:
//
//	score = cosine(profile, item) * complementary * category * colour
//
// The complementary factor applies when the candidate completes an outfit
// with a liked item and the colours are compatible. The combined multiplier
// is clamped to BoostCap when one is set.
type VectorSimilarity struct {
	cfg recommend.ScoringConfig
}

// NewVectorSimilarity creates a vector strategy.
//
//nolint:gocritic // hugeParam: config copied once at construction
func NewVectorSimilarity(cfg recommend.ScoringConfig) *VectorSimilarity {
	return &VectorSimilarity{cfg: cfg}
}

// Name returns the strategy identifier.
func (v *VectorSimilarity) Name() string {
	return recommend.StrategyVector
}

// Score rates every candidate that has a feature vector.
func (v *VectorSimilarity) Score(ctx context.Context, q *recommend.ScoringQuery, candidates []catalog.Item) ([]recommend.ScoredCandidate, error) {
	if q == nil || q.Profile == nil || q.Profile.Vector == nil {
		return nil, nil
	}

	topCategories := toSet(q.Profile.TopCategories)
	topColours := toSet(q.Profile.TopColours)

	scored := make([]recommend.ScoredCandidate, 0, len(candidates))
	for i := range candidates {
		if err := checkCancelled(ctx, i); err != nil {
			return nil, err
		}

		cand := &candidates[i]
		vec, ok := q.Features.Vector(cand.ID)
		if !ok {
			continue
		}

		sc := recommend.ScoredCandidate{Item: *cand}
		multiplier := 1.0

		if liked, ok := firstComplement(q.Liked, cand, recommend.IsComplementary); ok {
			sc.IsComplementary = true
			sc.Reason = "Pairs well with your " + liked.ArticleType
			if recommend.ColoursCompatible(liked.BaseColour, cand.BaseColour) {
				multiplier *= v.cfg.ComplementaryBoost
			}
		}

		_, inCategory := topCategories[cand.ArticleType]
		_, inColour := topColours[cand.BaseColour]
		if inCategory {
			multiplier *= v.cfg.CategoryBoost
		}
		if inColour {
			multiplier *= v.cfg.ColourBoost
		}
		if v.cfg.BoostCap > 0 && multiplier > v.cfg.BoostCap {
			multiplier = v.cfg.BoostCap
		}

		if sc.Reason == "" {
			switch {
			case inCategory:
				sc.Reason = "Matches your preferred " + cand.ArticleType + " style"
			case inColour:
				sc.Reason = "In your preferred " + cand.BaseColour + " color"
			default:
				sc.Reason = "Matches your style"
			}
		}

		sc.Score = recommend.Cosine(q.Profile.Vector, vec) * multiplier
		scored = append(scored, sc)
	}

	return scored, nil
}

var _ recommend.ScoringStrategy = (*VectorSimilarity)(nil)
