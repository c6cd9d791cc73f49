// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package recommend

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/stylematch/internal/catalog"
)

// InteractionType classifies an explicit or implicit user signal.
type InteractionType string

const (
	// InteractionView records that the user looked at an item.
	InteractionView InteractionType = "view"
	// InteractionLike records explicit positive feedback.
	InteractionLike InteractionType = "like"
	// InteractionDislike records explicit negative feedback.
	InteractionDislike InteractionType = "dislike"
)

// ParseInteractionType converts a string into an InteractionType.
func ParseInteractionType(s string) (InteractionType, bool) {
	switch InteractionType(strings.ToLower(strings.TrimSpace(s))) {
	case InteractionView:
		return InteractionView, true
	case InteractionLike:
		return InteractionLike, true
	case InteractionDislike:
		return InteractionDislike, true
	default:
		return "", false
	}
}

// String returns the wire name of the interaction.
func (t InteractionType) String() string {
	return string(t)
}

// Interaction is a single recorded user signal.
type Interaction struct {
	UserID    string          `json:"user_id"`
	ItemID    string          `json:"item_id"`
	Type      InteractionType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
}

// UserSignals is the per-user input to personalization.
// Liked and Disliked are sets; Viewed may contain repeats.
type UserSignals struct {
	Liked    []string `json:"liked"`
	Disliked []string `json:"disliked"`
	Viewed   []string `json:"viewed,omitempty"`
}

// HasInteractions reports whether any signal is present.
func (s UserSignals) HasInteractions() bool {
	return len(s.Liked) > 0 || len(s.Disliked) > 0 || len(s.Viewed) > 0
}

// ExclusionSet returns every item id the user has already interacted with.
func (s UserSignals) ExclusionSet() map[string]struct{} {
	exclude := make(map[string]struct{}, len(s.Liked)+len(s.Disliked)+len(s.Viewed))
	for _, group := range [][]string{s.Liked, s.Disliked, s.Viewed} {
		for _, id := range group {
			exclude[id] = struct{}{}
		}
	}
	return exclude
}

// QuizAnswers maps a question id to the selected option ids.
type QuizAnswers map[string][]string

// Quiz question identifiers.
const (
	QuestionStyle    = "style_preference"
	QuestionColour   = "color_preference"
	QuestionOccasion = "occasion"
	QuestionFit      = "fit_preference"
)

// Profile is the derived preference state for a user.
type Profile struct {
	// Vector is the unit-length preference vector. It is nil when the
	// user has no positive signal.
	Vector []float64 `json:"-"`

	// Counts holds the signed attribute counters keyed by attribute.
	Counts map[catalog.Attribute]map[string]float64 `json:"-"`

	// Top holds the ranked attribute values with a positive count.
	Top map[catalog.Attribute][]string `json:"-"`

	TopCategories   []string `json:"top_categories"`
	TopColours      []string `json:"top_colours"`
	PreferredGender string   `json:"preferred_gender"`

	// HasSignal is false for cold-start users and degenerate profiles.
	HasSignal bool `json:"has_signal"`

	LikedCount    int `json:"liked_count"`
	DislikedCount int `json:"disliked_count"`
	ViewedCount   int `json:"viewed_count"`
}

// TopValues returns the ranked values for an attribute.
func (p *Profile) TopValues(a catalog.Attribute) []string {
	if p == nil || p.Top == nil {
		return nil
	}
	return p.Top[a]
}

// ScoredCandidate is a catalog item with its score and explanation.
type ScoredCandidate struct {
	Item            catalog.Item `json:"item"`
	Score           float64      `json:"score"`
	Reason          string       `json:"reason"`
	IsComplementary bool         `json:"is_complementary"`
}

// Status describes how a result was produced.
type Status string

const (
	// StatusOK indicates a personalized or query-driven result.
	StatusOK Status = "ok"
	// StatusNotReady indicates the catalog and features are not loaded yet.
	StatusNotReady Status = "not_ready"
	// StatusNoSignal indicates a cold-start result served from defaults.
	StatusNoSignal Status = "no_signal"
	// StatusNothingMatched indicates that no candidate qualified.
	StatusNothingMatched Status = "nothing_matched"
)

// Kind selects the request family a strategy or selector serves.
type Kind string

const (
	// KindPersonal serves profile-driven recommendations.
	KindPersonal Kind = "personal"
	// KindQuiz serves quiz-driven recommendations.
	KindQuiz Kind = "quiz"
	// KindSimilar serves item-to-item recommendations.
	KindSimilar Kind = "similar"
	// KindDefaults serves cold-start recommendations.
	KindDefaults Kind = "defaults"
)

// Request is a personalized recommendation request.
type Request struct {
	UserID  string      `json:"user_id"`
	Signals UserSignals `json:"signals"`

	// TopK defaults to Config.Limits.DefaultK when zero.
	TopK int `json:"top_k,omitempty"`

	RequestID string `json:"request_id,omitempty"`
}

// QuizRequest is a quiz-driven recommendation request.
type QuizRequest struct {
	Answers QuizAnswers `json:"answers"`
	TopK    int         `json:"top_k,omitempty"`

	// Exclude lists item ids that must not be returned.
	Exclude []string `json:"exclude,omitempty"`

	RequestID string `json:"request_id,omitempty"`
}

// Result is the outcome of any recommendation operation.
type Result struct {
	Status   Status            `json:"status"`
	Items    []ScoredCandidate `json:"items"`
	Metadata ResultMetadata    `json:"metadata"`
}

// ResultMetadata contains timing and diagnostic information.
type ResultMetadata struct {
	RequestID       string    `json:"request_id"`
	Kind            Kind      `json:"kind"`
	Strategy        string    `json:"strategy,omitempty"`
	TotalCandidates int       `json:"total_candidates"`
	CacheHit        bool      `json:"cache_hit"`
	LatencyMS       int64     `json:"latency_ms"`
	CatalogVersion  int       `json:"catalog_version"`
	Timestamp       time.Time `json:"timestamp"`
}

// ScoringQuery carries everything a strategy may consult.
type ScoringQuery struct {
	Profile *Profile

	// Liked holds the resolved liked items in signal order.
	Liked []catalog.Item

	Quiz QuizAnswers

	// Anchor is the query item for item-to-item requests.
	Anchor *catalog.Item

	Features *FeatureIndex
}

// ScoringStrategy produces scored candidates for a query.
type ScoringStrategy interface {
	// Name returns the strategy identifier (e.g., "vector", "rule").
	Name() string

	// Score rates the candidates. Candidates that do not qualify may be
	// omitted. The returned order is not significant.
	Score(ctx context.Context, q *ScoringQuery, candidates []catalog.Item) ([]ScoredCandidate, error)
}

// Reranker selects and orders the final list from scored candidates.
type Reranker interface {
	// Name returns the reranker identifier (e.g., "quota", "diversity").
	Name() string

	// Rerank returns up to k items from the scored candidates.
	Rerank(ctx context.Context, items []ScoredCandidate, k int) []ScoredCandidate
}

// ServiceStatus reports load state for health endpoints.
type ServiceStatus struct {
	Ready              bool      `json:"ready"`
	Loading            bool      `json:"loading"`
	CatalogSize        int       `json:"catalog_size"`
	CatalogSource      string    `json:"catalog_source,omitempty"`
	FeatureDimension   int       `json:"feature_dimension"`
	MissingVisuals     int       `json:"missing_visuals"`
	CatalogVersion     int       `json:"catalog_version"`
	LastLoadedAt       time.Time `json:"last_loaded_at,omitempty"`
	LastLoadDurationMS int64     `json:"last_load_duration_ms"`
	LastError          string    `json:"last_error,omitempty"`
	Strategies         []string  `json:"strategies"`
}
