// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

/*
Package api provides the HTTP API for Stylematch using the Chi router.

# Endpoints

Health and metrics:
  - GET /health/live: liveness probe, always 200
  - GET /health/ready: 200 once a catalog is loaded, 503 with Retry-After before
  - GET /metrics: Prometheus exposition

Catalog:
  - GET /api/v1/products: browse with gender, category, colour, usage, q, sort, page, limit
  - GET /api/v1/products/featured?k=: cold-start diversity list
  - GET /api/v1/products/{id}
  - GET /api/v1/products/{id}/similar?k=

Shoppers:
  - POST /api/v1/users/{userID}/interactions: {"item_id", "type"}
  - DELETE /api/v1/users/{userID}/interactions/{type}/{itemID}
  - GET /api/v1/users/{userID}/likes
  - GET /api/v1/quiz/questions
  - PUT and GET /api/v1/users/{userID}/quiz: unknown answers are dropped
  - GET /api/v1/users/{userID}/quiz/status
  - GET /api/v1/users/{userID}/recommendations?k=
  - GET /api/v1/users/{userID}/recommendations/quiz?k=
  - GET /api/v1/users/{userID}/profile

Admin:
  - POST /api/v1/admin/catalog/reload

# Response Format

Every JSON response uses the models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "request_id": "..."}}

Recommendation results carry their own status ("ok", "no_signal",
"nothing_matched") inside data. A "not_ready" result is returned as a 503
SERVICE_NOT_READY error with a Retry-After header so clients can retry.

# Middleware

Global: request ID, real IP, access log, panic recovery, CORS and
Prometheus metrics. API routes add per-IP rate limiting (go-chi/httprate),
security headers and gzip compression.
*/
package api
