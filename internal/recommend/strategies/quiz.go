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

// Quiz match points.
const (
	quizStylePoints    = 3.0
	quizPalettePoints  = 2.0
	quizOccasionPoints = 2.0
)

// StrategyQuiz is the name reported by QuizKeyword.
const StrategyQuiz = "quiz"

// QuizKeyword scores candidates against onboarding quiz answers. Items that
// do not clear the configured floor are dropped.
type QuizKeyword struct {
	floor          float64
	jitterFraction float64
	rng            *recommend.Rand
}

// NewQuizKeyword creates a quiz strategy.
//
//nolint:gocritic // hugeParam: config copied once at construction
func NewQuizKeyword(cfg recommend.ScoringConfig, rng *recommend.Rand) *QuizKeyword {
	if rng == nil {
		rng = recommend.NewRand(0)
	}
	return &QuizKeyword{
		floor:          cfg.QuizFloor,
		jitterFraction: cfg.JitterFraction,
		rng:            rng,
	}
}

// Name returns the strategy identifier.
func (s *QuizKeyword) Name() string {
	return StrategyQuiz
}

// quizSelection holds the keyword lists for the first recognised option of
// each scored question.
type quizSelection struct {
	style, palette, occasion             []string
	styleName, paletteName, occasionName string
}

func selectQuiz(answers recommend.QuizAnswers) quizSelection {
	var sel quizSelection
	for _, opt := range answers[recommend.QuestionStyle] {
		if kw := recommend.StyleKeywords(opt); len(kw) > 0 {
			sel.style, sel.styleName = kw, opt
			break
		}
	}
	for _, opt := range answers[recommend.QuestionColour] {
		if c := recommend.PaletteColours(opt); len(c) > 0 {
			sel.palette, sel.paletteName = c, opt
			break
		}
	}
	for _, opt := range answers[recommend.QuestionOccasion] {
		if kw := recommend.OccasionKeywords(opt); len(kw) > 0 {
			sel.occasion, sel.occasionName = kw, opt
			break
		}
	}
	return sel
}

// Score rates candidates by style keywords, palette colours and occasion
// usages. Unknown questions and options are ignored.
func (s *QuizKeyword) Score(ctx context.Context, q *recommend.ScoringQuery, candidates []catalog.Item) ([]recommend.ScoredCandidate, error) {
	if q == nil || len(q.Quiz) == 0 {
		return nil, nil
	}
	sel := selectQuiz(q.Quiz)

	scored := make([]recommend.ScoredCandidate, 0)
	for i := range candidates {
		if err := checkCancelled(ctx, i); err != nil {
			return nil, err
		}

		cand := &candidates[i]
		var score float64
		var reason string

		if anyKeyword(sel.style, cand.Usage, cand.DisplayName) {
			score += quizStylePoints
			reason = "Matches " + sel.styleName + " style"
		}
		if containsExact(sel.palette, cand.BaseColour) {
			score += quizPalettePoints
			if reason == "" {
				reason = "In your preferred " + sel.paletteName + " palette"
			}
		}
		if anyKeyword(sel.occasion, cand.Usage) {
			score += quizOccasionPoints
			if reason == "" {
				reason = "Perfect for " + sel.occasionName + " occasions"
			}
		}

		score += s.rng.Uniform(s.jitterFraction * score)
		if score <= s.floor {
			continue
		}
		if reason == "" {
			reason = "Matches your preferences"
		}

		scored = append(scored, recommend.ScoredCandidate{
			Item:   *cand,
			Score:  score,
			Reason: reason,
		})
	}

	return scored, nil
}

// anyKeyword reports whether any keyword occurs in any of the fields.
func anyKeyword(keywords []string, fields ...string) bool {
	for _, kw := range keywords {
		for _, f := range fields {
			if f != "" && containsFold(f, kw) {
				return true
			}
		}
	}
	return false
}

func containsExact(values []string, v string) bool {
	if v == "" {
		return false
	}
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

var _ recommend.ScoringStrategy = (*QuizKeyword)(nil)
