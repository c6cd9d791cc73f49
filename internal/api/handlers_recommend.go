// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/stylematch/internal/logging"
	"github.com/tomtom215/stylematch/internal/models"
	"github.com/tomtom215/stylematch/internal/recommend"
)

// Recommendations handles GET /api/v1/users/{userID}/recommendations?k=
//
// Shoppers without a usable signal receive the cold-start list with
// status "no_signal". Items the shopper already interacted with are never
// returned.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, verr := userIDParam(r)
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}
	k, ok := parseTopK(w, r)
	if !ok {
		return
	}

	signals, err := h.store.Signals(r.Context(), userID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	ctx, cancel := h.scoringContext(logging.ContextWithUserID(r.Context(), userID))
	defer cancel()

	res, err := h.recommender.Recommend(ctx, recommend.Request{
		UserID:    userID,
		Signals:   signals,
		TopK:      k,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "failed to generate recommendations", err)
		return
	}

	logging.Ctx(ctx).Debug().
		Str("status", string(res.Status)).
		Int("returned", len(res.Items)).
		Msg("recommendations served")

	h.respondResult(w, r, res, start)
}

// QuizRecommendations handles GET /api/v1/users/{userID}/recommendations/quiz?k=
//
// Scores the catalog against the saved quiz answers only. Disliked items
// are excluded. A quiz that matches nothing yields an empty list with
// status "nothing_matched".
func (h *Handler) QuizRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, verr := userIDParam(r)
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}
	k, ok := parseTopK(w, r)
	if !ok {
		return
	}

	answers, err := h.store.Quiz(r.Context(), userID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	signals, err := h.store.Signals(r.Context(), userID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	ctx, cancel := h.scoringContext(logging.ContextWithUserID(r.Context(), userID))
	defer cancel()

	res, err := h.recommender.RecommendFromQuiz(ctx, recommend.QuizRequest{
		Answers:   answers,
		TopK:      k,
		Exclude:   signals.Disliked,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "failed to generate quiz recommendations", err)
		return
	}

	h.respondResult(w, r, res, start)
}

// Profile handles GET /api/v1/users/{userID}/profile
// Returns the preference summary built from the shopper's interactions.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, verr := userIDParam(r)
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}

	signals, err := h.store.Signals(r.Context(), userID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	profile, err := h.recommender.Profile(r.Context(), userID, signals)
	if err != nil {
		if errors.Is(err, recommend.ErrNotReady) {
			respondNotReady(w, r)
			return
		}
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "failed to build profile", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, profile, start)
}
