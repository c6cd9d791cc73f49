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

// ReloadCatalog handles POST /api/v1/admin/catalog/reload
//
// Re-reads the catalog source and rebuilds features synchronously. The
// previous catalog keeps serving until the new one is ready, and stays
// active if the reload fails.
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.reloader == nil {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "catalog reload is not enabled", nil)
		return
	}

	result, err := h.reloader.Reload(r.Context())
	if err != nil {
		if errors.Is(err, recommend.ErrLoadInProgress) {
			respondError(w, r, http.StatusConflict, models.ErrCodeConflict, "a catalog load is already in progress", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "catalog reload failed", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("loaded", result.Stats.Loaded).
		Int("skipped", result.Stats.Skipped).
		Msg("catalog reloaded via admin API")

	respondSuccess(w, r, http.StatusOK, models.ReloadResponse{
		Loaded:         result.Stats.Loaded,
		Skipped:        result.Stats.Skipped,
		CatalogVersion: h.recommender.Status().CatalogVersion,
		DurationMS:     result.Duration.Milliseconds(),
	}, start)
}
