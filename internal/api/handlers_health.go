// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/stylematch/internal/logging"
	"github.com/tomtom215/stylematch/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of catalog state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Ready:     h.recommender.Ready(),
		Timestamp: time.Now().UTC(),
	}, time.Now())
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK once a catalog is loaded and 503 with Retry-After before.
// The body carries the service load status in both cases.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := h.recommender.Status()
	resp := models.HealthResponse{
		Status:    "ready",
		Ready:     status.Ready,
		Service:   &status,
		Timestamp: time.Now().UTC(),
	}

	if !status.Ready {
		resp.Status = "not_ready"
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		envelope := models.NewSuccess(resp, logging.RequestIDFromContext(r.Context()))
		respondJSON(w, http.StatusServiceUnavailable, &envelope)
		return
	}

	respondSuccess(w, r, http.StatusOK, resp, time.Now())
}
