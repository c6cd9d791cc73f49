// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package strategies

import (
	"context"
	"strings"

	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/recommend"
)

// maxRuleReasons is how many matched attributes are named in a reason.
const maxRuleReasons = 3

// RuleWeights are the points an attribute match contributes.
type RuleWeights map[catalog.Attribute]float64

// DefaultRuleWeights returns the production attribute weights.
func DefaultRuleWeights() RuleWeights {
	return RuleWeights{
		catalog.AttrMasterCategory: 20,
		catalog.AttrSubCategory:    15,
		catalog.AttrArticleType:    25,
		catalog.AttrBaseColour:     10,
		catalog.AttrGender:         30,
		catalog.AttrUsage:          15,
		catalog.AttrSeason:         5,
	}
}

// ruleOrder is the order matched attributes appear in a reason.
var ruleOrder = []struct {
	attr  catalog.Attribute
	label string
}{
	{catalog.AttrMasterCategory, "Same category"},
	{catalog.AttrSubCategory, "Same subcategory"},
	{catalog.AttrArticleType, "Same type"},
	{catalog.AttrBaseColour, "Preferred color"},
	{catalog.AttrGender, "Same gender"},
	{catalog.AttrUsage, "Same usage"},
	{catalog.AttrSeason, "Same season"},
}

// RuleBased scores candidates by summing attribute weights for every
// attribute whose value is among the profile's top values, plus a small
// uniform jitter so equal scores do not always rank the same way.
type RuleBased struct {
	weights        RuleWeights
	jitterFraction float64
	rng            *recommend.Rand
}

// NewRuleBased creates a rule strategy. A nil weights map uses the defaults.
func NewRuleBased(weights RuleWeights, jitterFraction float64, rng *recommend.Rand) *RuleBased {
	if weights == nil {
		weights = DefaultRuleWeights()
	}
	if rng == nil {
		rng = recommend.NewRand(0)
	}
	return &RuleBased{
		weights:        weights,
		jitterFraction: jitterFraction,
		rng:            rng,
	}
}

// Name returns the strategy identifier.
func (r *RuleBased) Name() string {
	return recommend.StrategyRule
}

// Score rates every candidate against the profile's top attribute values.
func (r *RuleBased) Score(ctx context.Context, q *recommend.ScoringQuery, candidates []catalog.Item) ([]recommend.ScoredCandidate, error) {
	if q == nil || q.Profile == nil {
		return nil, nil
	}

	tops := make(map[catalog.Attribute]map[string]struct{}, len(catalog.Attributes))
	for _, a := range catalog.Attributes {
		tops[a] = toSet(q.Profile.TopValues(a))
	}

	scored := make([]recommend.ScoredCandidate, 0, len(candidates))
	for i := range candidates {
		if err := checkCancelled(ctx, i); err != nil {
			return nil, err
		}

		cand := &candidates[i]
		var score float64
		reasons := make([]string, 0, maxRuleReasons)
		for _, rule := range ruleOrder {
			value := cand.Value(rule.attr)
			if _, ok := tops[rule.attr][value]; !ok || value == "" {
				continue
			}
			score += r.weights[rule.attr]
			if len(reasons) < maxRuleReasons {
				reasons = append(reasons, rule.label+": "+value)
			}
		}
		score += r.rng.Uniform(r.jitterFraction * score)

		sc := recommend.ScoredCandidate{
			Item:   *cand,
			Score:  score,
			Reason: strings.Join(reasons, ", "),
		}
		if liked, ok := firstComplement(q.Liked, cand, recommend.IsComplementary); ok {
			sc.IsComplementary = true
			if sc.Reason == "" {
				sc.Reason = "Pairs well with your " + liked.ArticleType
			}
		}
		if sc.Reason == "" {
			sc.Reason = "Matches your style"
		}
		scored = append(scored, sc)
	}

	return scored, nil
}

var _ recommend.ScoringStrategy = (*RuleBased)(nil)
