// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared; it caches struct
// metadata, so request types should be validated through ValidateStruct
// rather than constructing new validators per request.
//
// Field names in messages use the json tag, then the query tag, so errors
// read the way clients send the data:
//
//	type interactionRequest struct {
//	    ItemID string `json:"item_id" validate:"required,identifier"`
//	    Type   string `json:"type" validate:"required,oneof=like dislike view"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Custom Validators
//
//   - identifier: item and user ids, 1-128 characters of [A-Za-z0-9._:-]
//   - csvlist: comma-separated filter lists without empty entries
//
// # Error Format
//
// ToAPIError produces a VALIDATION_ERROR with the field, tag and value for a
// single failure, or a "fields" list when several fields fail.
package validation
