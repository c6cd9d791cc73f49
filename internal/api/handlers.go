// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/recommend"
	"github.com/tomtom215/stylematch/internal/recommend/storage"
	"github.com/tomtom215/stylematch/internal/supervisor/services"
)

// Recommender is the recommendation service as seen by the handlers.
// Satisfied by *recommend.Service.
type Recommender interface {
	Ready() bool
	Status() recommend.ServiceStatus
	Catalog() *catalog.Catalog
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
	RecommendFromQuiz(ctx context.Context, req recommend.QuizRequest) (*recommend.Result, error)
	Similar(ctx context.Context, itemID string, topK int) (*recommend.Result, error)
	Defaults(ctx context.Context, topK int, exclude []string) (*recommend.Result, error)
	Profile(ctx context.Context, userID string, signals recommend.UserSignals) (*recommend.Profile, error)
}

// CatalogReloader triggers an immediate catalog reload.
// Satisfied by *services.CatalogService.
type CatalogReloader interface {
	Reload(ctx context.Context) (services.ReloadResult, error)
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_health.go: liveness and readiness probes
//   - handlers_products.go: catalog browse, featured and item-to-item recommendations
//   - handlers_users.go: interactions, likes and quiz answers
//   - handlers_quiz.go: quiz questionnaire
//   - handlers_recommend.go: personalized and quiz recommendations, profile
//   - handlers_admin.go: catalog reload
type Handler struct {
	recommender Recommender
	store       storage.SignalStore
	reloader    CatalogReloader // nil disables the reload endpoint
	logger      zerolog.Logger

	// scoringTimeout bounds one recommendation call; 0 disables.
	scoringTimeout time.Duration
	startTime      time.Time
}

// HandlerConfig holds the handler dependencies.
type HandlerConfig struct {
	Recommender    Recommender
	Store          storage.SignalStore
	Reloader       CatalogReloader
	ScoringTimeout time.Duration
	Logger         zerolog.Logger
}

// NewHandler creates the API handler.
//
//nolint:gocritic // config passed by value is read once
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		recommender:    cfg.Recommender,
		store:          cfg.Store,
		reloader:       cfg.Reloader,
		logger:         cfg.Logger.With().Str("component", "api").Logger(),
		scoringTimeout: cfg.ScoringTimeout,
		startTime:      time.Now(),
	}
}

// scoringContext applies the scoring timeout to a request context.
func (h *Handler) scoringContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.scoringTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.scoringTimeout)
}
