// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stylematch/internal/middleware"
	"github.com/tomtom215/stylematch/internal/models"
)

// slowRequestThreshold marks requests logged at warn level.
const slowRequestThreshold = 500 * time.Millisecond

// Router wires the handler into a chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	logger        zerolog.Logger
}

// NewRouter creates a router. A nil chiMiddleware uses the defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(handler *Handler, chiMiddleware *ChiMiddleware, logger zerolog.Logger) *Router {
	if chiMiddleware == nil {
		chiMiddleware = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMiddleware,
		logger:        logger,
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(router.chiMiddleware.RealIP())
	r.Use(middleware.AccessLog(router.logger, slowRequestThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	// ========================
	// Health and Metrics
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Catalog Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", router.handler.ListProducts)
			r.Get("/featured", router.handler.FeaturedProducts)
			r.Get("/{id}", router.handler.GetProduct)
			r.Get("/{id}/similar", router.handler.SimilarProducts)
		})

		r.Get("/quiz/questions", router.handler.QuizQuestions)

		// ========================
		// Shopper Endpoints
		// ========================
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Post("/interactions", router.handler.RecordInteraction)
			r.Delete("/interactions/{type}/{itemID}", router.handler.RemoveInteraction)
			r.Get("/likes", router.handler.Likes)

			r.Put("/quiz", router.handler.PutQuiz)
			r.Get("/quiz", router.handler.GetQuiz)
			r.Get("/quiz/status", router.handler.QuizStatus)

			r.Get("/recommendations", router.handler.Recommendations)
			r.Get("/recommendations/quiz", router.handler.QuizRecommendations)
			r.Get("/profile", router.handler.Profile)
		})

		// ========================
		// Admin Endpoints
		// ========================
		r.Route("/admin", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitAdmin())
			r.Post("/catalog/reload", router.handler.ReloadCatalog)
		})
	})

	return r
}
