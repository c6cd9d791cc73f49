// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: request tracking via X-Request-ID, stored in the logging context
  - AccessLog: request-scoped zerolog logger plus one log line per request
  - PrometheusMetrics: request count, duration and in-flight gauge labelled
    by chi route pattern

All middleware has the func(http.Handler) http.Handler shape used by chi.

Middleware Stack:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger, 500*time.Millisecond))
	r.Use(middleware.PrometheusMetrics)

RequestID must run first so the access log and handlers see the ID.
*/
package middleware
