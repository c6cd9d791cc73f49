// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/models"
	"github.com/tomtom215/stylematch/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// Paging defaults for product listing.
const (
	defaultPage  = 1
	defaultLimit = 12
)

type userPath struct {
	UserID string `json:"user_id" validate:"required,identifier"`
}

type itemPath struct {
	ItemID string `json:"item_id" validate:"required,identifier"`
}

// userIDParam returns the validated {userID} path parameter.
func userIDParam(r *http.Request) (string, *validation.RequestValidationError) {
	p := userPath{UserID: chi.URLParam(r, "userID")}
	if verr := validation.ValidateStruct(&p); verr != nil {
		return "", verr
	}
	return p.UserID, nil
}

// itemIDParam returns the validated item id path parameter named key.
func itemIDParam(r *http.Request, key string) (string, *validation.RequestValidationError) {
	p := itemPath{ItemID: chi.URLParam(r, key)}
	if verr := validation.ValidateStruct(&p); verr != nil {
		return "", verr
	}
	return p.ItemID, nil
}

// decodeJSONBody decodes a size-limited JSON body into dst, rejecting
// unknown fields and trailing data.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxBodyBytes)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return errors.New("request body is not valid JSON")
		}
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// intParam parses an integer query parameter, returning def when absent.
func intParam(r *http.Request, key string, def int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

// parseCommaSeparated parses a comma-separated string into a slice
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parseTopK reads and validates the "k" parameter; 0 means the service default.
func parseTopK(w http.ResponseWriter, r *http.Request) (int, bool) {
	k, err := intParam(r, "k", 0)
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return 0, false
	}
	q := models.TopKQuery{K: k}
	if verr := validation.ValidateStruct(&q); verr != nil {
		respondValidation(w, r, verr)
		return 0, false
	}
	return q.K, true
}

// parseProductsQuery reads and validates the browse filters.
func parseProductsQuery(w http.ResponseWriter, r *http.Request) (catalog.Query, bool) {
	page, err := intParam(r, "page", defaultPage)
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return catalog.Query{}, false
	}
	limit, err := intParam(r, "limit", defaultLimit)
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return catalog.Query{}, false
	}

	values := r.URL.Query()
	pq := models.ProductsQuery{
		Gender:   values.Get("gender"),
		Category: values.Get("category"),
		Colour:   values.Get("colour"),
		Usage:    values.Get("usage"),
		Search:   values.Get("q"),
		Sort:     values.Get("sort"),
		Page:     page,
		Limit:    limit,
	}
	if verr := validation.ValidateStruct(&pq); verr != nil {
		respondValidation(w, r, verr)
		return catalog.Query{}, false
	}

	return catalog.Query{
		Genders:    parseCommaSeparated(pq.Gender),
		Categories: parseCommaSeparated(pq.Category),
		Colours:    parseCommaSeparated(pq.Colour),
		Usages:     parseCommaSeparated(pq.Usage),
		Search:     pq.Search,
		Sort:       pq.Sort,
		Page:       pq.Page,
		Limit:      pq.Limit,
	}, true
}
