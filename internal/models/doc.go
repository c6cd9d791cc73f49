// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

/*
Package models defines the HTTP boundary types for Stylematch.

Domain types live with their packages (catalog.Item, recommend.Result,
recommend.Profile); this package holds only what the API adds around them:

  - APIResponse, Metadata, APIError: the response envelope every endpoint uses
  - InteractionRequest, QuizRequest: request bodies with validate tags
  - ProductsQuery, TopKQuery: query-string parameters with validate tags
  - LikesResponse, QuizResponse, HealthResponse, ReloadResponse: response payloads

Request types are validated with the validation package, whose custom
"identifier" and "csvlist" tags they use.
*/
package models
