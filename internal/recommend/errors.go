// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package recommend

import "errors"

var (
	// ErrMissingData is returned when a catalog item lacks a required
	// attribute or image data.
	ErrMissingData = errors.New("missing item data")

	// ErrInvalidReference is returned when a request names an item id
	// that is not in the catalog.
	ErrInvalidReference = errors.New("unknown item reference")

	// ErrDegenerateProfile is reported when a profile vector has zero norm.
	ErrDegenerateProfile = errors.New("degenerate preference profile")

	// ErrComputeUnavailable is returned when an external compute resource
	// cannot be reached.
	ErrComputeUnavailable = errors.New("compute resource unavailable")

	// ErrNotReady is returned by operations that require a loaded catalog.
	ErrNotReady = errors.New("catalog not loaded")

	// ErrLoadInProgress is returned when a load is already running.
	ErrLoadInProgress = errors.New("catalog load already in progress")
)
