// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/stylematch/internal/models"
	"github.com/tomtom215/stylematch/internal/recommend"
)

// QuizQuestions handles GET /api/v1/quiz/questions
func (h *Handler) QuizQuestions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	questions := recommend.QuizQuestions()
	respondSuccess(w, r, http.StatusOK, models.QuizQuestionsResponse{
		Questions: questions,
		Count:     len(questions),
	}, start)
}
