// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package api

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/logging"
	"github.com/tomtom215/stylematch/internal/metrics"
	"github.com/tomtom215/stylematch/internal/models"
	"github.com/tomtom215/stylematch/internal/recommend"
	"github.com/tomtom215/stylematch/internal/recommend/storage"
	"github.com/tomtom215/stylematch/internal/validation"
)

// RecordInteraction handles POST /api/v1/users/{userID}/interactions
//
// Recording a like retracts an earlier dislike of the same item and vice
// versa. The item must exist in the active catalog.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, verr := userIDParam(r)
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}

	var req models.InteractionRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	cat := h.recommender.Catalog()
	if cat == nil {
		respondNotReady(w, r)
		return
	}
	if !cat.Contains(req.ItemID) {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "product not found", nil)
		return
	}

	kind, _ := recommend.ParseInteractionType(req.Type)
	in := recommend.Interaction{
		UserID:    userID,
		ItemID:    req.ItemID,
		Type:      kind,
		Timestamp: time.Now().UTC(),
	}
	if err := h.store.RecordInteraction(r.Context(), in); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	metrics.Interactions.WithLabelValues(kind.String()).Inc()

	ctx := logging.ContextWithUserID(r.Context(), userID)
	logging.Ctx(ctx).Debug().
		Str("item_id", in.ItemID).
		Str("type", kind.String()).
		Msg("interaction recorded")

	respondSuccess(w, r, http.StatusCreated, models.InteractionResponse{
		UserID:    in.UserID,
		ItemID:    in.ItemID,
		Type:      kind.String(),
		Timestamp: in.Timestamp,
	}, start)
}

// RemoveInteraction handles DELETE /api/v1/users/{userID}/interactions/{type}/{itemID}
//
// Removing a view removes every recorded view of the item. Removing an
// absent interaction succeeds.
func (h *Handler) RemoveInteraction(w http.ResponseWriter, r *http.Request) {
	userID, verr := userIDParam(r)
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}
	itemID, verr := itemIDParam(r, "itemID")
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}

	var req models.InteractionRequest
	req.ItemID = itemID
	req.Type = chi.URLParam(r, "type")
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidation(w, r, verr)
		return
	}
	kind, _ := recommend.ParseInteractionType(req.Type)

	if err := h.store.RemoveInteraction(r.Context(), userID, itemID, kind); err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Likes handles GET /api/v1/users/{userID}/likes
// Liked ids no longer in the catalog are omitted.
func (h *Handler) Likes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, verr := userIDParam(r)
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}

	cat := h.recommender.Catalog()
	if cat == nil {
		respondNotReady(w, r)
		return
	}

	ids, err := h.store.LikedItems(r.Context(), userID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	items := make([]catalog.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := cat.Get(id); ok {
			items = append(items, item)
		}
	}

	respondSuccess(w, r, http.StatusOK, models.LikesResponse{
		UserID: userID,
		Items:  items,
		Count:  len(items),
	}, start)
}

// PutQuiz handles PUT /api/v1/users/{userID}/quiz
//
// The submitted answers replace any saved answers entirely. Unknown
// questions and options are dropped and reported back as ignored; a
// submission with no recognised answer is rejected.
func (h *Handler) PutQuiz(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, verr := userIDParam(r)
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}

	var req models.QuizRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	answers, ignored := knownQuizAnswers(req.Answers)
	if len(answers) == 0 {
		resp := models.NewError(models.ErrCodeValidation, "no recognised quiz answers",
			map[string]interface{}{"ignored": ignored}, logging.RequestIDFromContext(r.Context()))
		respondJSON(w, http.StatusBadRequest, &resp)
		return
	}
	if len(ignored) > 0 {
		logging.Ctx(logging.ContextWithUserID(r.Context(), userID)).Debug().
			Strs("ignored", ignored).
			Msg("dropped unknown quiz answers")
	}

	if err := h.store.SaveQuiz(r.Context(), userID, answers); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	metrics.QuizSubmissions.Inc()

	respondSuccess(w, r, http.StatusOK, models.QuizResponse{UserID: userID, Answers: answers, Ignored: ignored}, start)
}

// QuizStatus handles GET /api/v1/users/{userID}/quiz/status
func (h *Handler) QuizStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, verr := userIDParam(r)
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}

	answers, err := h.store.Quiz(r.Context(), userID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.respondStoreError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, models.QuizStatusResponse{
		UserID:    userID,
		Completed: len(answers) > 0,
		Answered:  len(answers),
	}, start)
}

// knownQuizAnswers keeps the options the questionnaire defines. Dropped
// pairs are returned sorted as "question=option".
func knownQuizAnswers(submitted map[string][]string) (recommend.QuizAnswers, []string) {
	answers := make(recommend.QuizAnswers, len(submitted))
	var ignored []string
	for question, options := range submitted {
		for _, option := range options {
			if !recommend.ValidQuizAnswer(question, option) {
				ignored = append(ignored, question+"="+option)
				continue
			}
			answers[question] = append(answers[question], option)
		}
	}
	sort.Strings(ignored)
	return answers, ignored
}

// GetQuiz handles GET /api/v1/users/{userID}/quiz
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, verr := userIDParam(r)
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}

	answers, err := h.store.Quiz(r.Context(), userID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, models.QuizResponse{UserID: userID, Answers: answers}, start)
}

// respondStoreError maps signal store errors to HTTP responses.
func (h *Handler) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "no saved quiz answers", nil)
	case errors.Is(err, storage.ErrInvalidKey), errors.Is(err, storage.ErrUnknownInteraction):
		respondBadRequest(w, r, err.Error())
	default:
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeStore, "signal store failure", err)
	}
}
