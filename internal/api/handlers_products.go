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

// ListProducts handles GET /api/v1/products
//
// Query parameters: gender, category, colour, usage (comma-separated lists),
// q (search), sort (newest|name), page, limit.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	cat := h.recommender.Catalog()
	if cat == nil {
		respondNotReady(w, r)
		return
	}

	query, ok := parseProductsQuery(w, r)
	if !ok {
		return
	}

	respondSuccess(w, r, http.StatusOK, cat.Filter(query), start)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, verr := itemIDParam(r, "id")
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}

	cat := h.recommender.Catalog()
	if cat == nil {
		respondNotReady(w, r)
		return
	}

	item, found := cat.Get(id)
	if !found {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "product not found", nil)
		return
	}

	respondSuccess(w, r, http.StatusOK, item, start)
}

// SimilarProducts handles GET /api/v1/products/{id}/similar?k=
// Returns items that resemble or complete the given product.
func (h *Handler) SimilarProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, verr := itemIDParam(r, "id")
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}
	k, ok := parseTopK(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.scoringContext(r.Context())
	defer cancel()

	res, err := h.recommender.Similar(ctx, id, k)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidReference) {
			respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "product not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "failed to compute similar products", err)
		return
	}

	h.respondResult(w, r, res, start)
}

// FeaturedProducts handles GET /api/v1/products/featured?k=
// It serves the cold-start diversity list.
func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	k, ok := parseTopK(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.scoringContext(r.Context())
	defer cancel()

	res, err := h.recommender.Defaults(ctx, k, nil)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "failed to select featured products", err)
		return
	}

	h.respondResult(w, r, res, start)
}

// respondResult maps a recommendation result to the HTTP response:
// not_ready becomes a retryable 503, every other status is a 200.
func (h *Handler) respondResult(w http.ResponseWriter, r *http.Request, res *recommend.Result, start time.Time) {
	if res.Status == recommend.StatusNotReady {
		respondNotReady(w, r)
		return
	}

	resp := models.NewSuccess(res, logging.RequestIDFromContext(r.Context()))
	resp.Metadata.QueryTimeMS = time.Since(start).Milliseconds()
	resp.Metadata.Cached = res.Metadata.CacheHit
	respondJSON(w, http.StatusOK, &resp)
}
