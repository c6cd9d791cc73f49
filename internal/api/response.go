// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"

	"github.com/tomtom215/stylematch/internal/logging"
	"github.com/tomtom215/stylematch/internal/models"
	"github.com/tomtom215/stylematch/internal/validation"
)

// retryAfterSeconds is sent with 503 responses while the catalog loads.
const retryAfterSeconds = 5

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a weak ETag from the encoded body.
func generateETag(data []byte) string {
	return `W/"` + strconv.FormatUint(xxhash.Sum64(data), 16) + `"`
}

// respondSuccess wraps data in the success envelope. start is the handler
// start time used for query_time_ms.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}, start time.Time) {
	resp := models.NewSuccess(data, logging.RequestIDFromContext(r.Context()))
	resp.Metadata.QueryTimeMS = time.Since(start).Milliseconds()
	respondJSON(w, status, &resp)
}

// respondError sends an error response. A non-nil err is logged, never
// returned to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", code).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}
	resp := models.NewError(code, message, nil, logging.RequestIDFromContext(r.Context()))
	respondJSON(w, status, &resp)
}

// respondValidation sends a 400 with the validation details.
func respondValidation(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	resp := models.NewError(apiErr.Code, apiErr.Message, apiErr.Details, logging.RequestIDFromContext(r.Context()))
	respondJSON(w, http.StatusBadRequest, &resp)
}

// respondBadRequest sends a 400 VALIDATION_ERROR with a plain message.
func respondBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, message, nil)
}

// respondNotReady sends a retryable 503 while the catalog is loading.
func respondNotReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeNotReady,
		"catalog is still loading, retry shortly", nil)
}
