// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package models

import (
	"time"

	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/recommend"
)

// InteractionRequest records a like, dislike or view.
//
//	POST /api/v1/users/{userID}/interactions
//	{"item_id": "15970", "type": "like"}
type InteractionRequest struct {
	ItemID string `json:"item_id" validate:"required,identifier"`
	Type   string `json:"type" validate:"required,oneof=like dislike view"`
}

// InteractionResponse echoes a stored interaction.
type InteractionResponse struct {
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// QuizRequest replaces a shopper's saved quiz answers.
//
//	PUT /api/v1/users/{userID}/quiz
//	{"answers": {"style_preference": ["casual"], "color_preference": ["neutral"]}}
type QuizRequest struct {
	Answers map[string][]string `json:"answers" validate:"required,min=1,dive,keys,required,endkeys,min=1,dive,required,max=64"`
}

// QuizResponse returns saved quiz answers. Ignored lists submitted
// "question=option" pairs that are not part of the questionnaire.
type QuizResponse struct {
	UserID  string                `json:"user_id"`
	Answers recommend.QuizAnswers `json:"answers"`
	Ignored []string              `json:"ignored,omitempty"`
}

// QuizStatusResponse reports whether a shopper has saved quiz answers.
type QuizStatusResponse struct {
	UserID    string `json:"user_id"`
	Completed bool   `json:"completed"`
	Answered  int    `json:"answered"`
}

// QuizQuestionsResponse lists the questionnaire.
type QuizQuestionsResponse struct {
	Questions []recommend.QuizQuestion `json:"questions"`
	Count     int                      `json:"count"`
}

// LikesResponse lists the products a shopper liked.
type LikesResponse struct {
	UserID string         `json:"user_id"`
	Items  []catalog.Item `json:"items"`
	Count  int            `json:"count"`
}

// ProductsQuery holds the browse filters parsed from the query string.
// List parameters are comma separated.
type ProductsQuery struct {
	Gender   string `query:"gender" validate:"omitempty,csvlist,max=256"`
	Category string `query:"category" validate:"omitempty,csvlist,max=512"`
	Colour   string `query:"colour" validate:"omitempty,csvlist,max=256"`
	Usage    string `query:"usage" validate:"omitempty,csvlist,max=256"`
	Search   string `query:"q" validate:"max=200"`
	Sort     string `query:"sort" validate:"omitempty,oneof=newest name"`
	Page     int    `query:"page" validate:"min=1,max=100000"`
	Limit    int    `query:"limit" validate:"min=1,max=100"`
}

// TopKQuery holds the "k" parameter of recommendation endpoints; 0 means
// the service default.
type TopKQuery struct {
	K int `query:"k" validate:"min=0,max=1000"`
}

// HealthResponse reports liveness or readiness.
type HealthResponse struct {
	Status    string                   `json:"status"`
	Ready     bool                     `json:"ready"`
	Service   *recommend.ServiceStatus `json:"service,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

// ReloadResponse reports a catalog reload.
type ReloadResponse struct {
	Loaded         int   `json:"loaded"`
	Skipped        int   `json:"skipped"`
	CatalogVersion int   `json:"catalog_version"`
	DurationMS     int64 `json:"duration_ms"`
}
