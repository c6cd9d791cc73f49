// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stylematch/internal/recommend"
)

var (
	// ErrNotFound is returned when a user has no stored record of the
	// requested kind.
	ErrNotFound = errors.New("not found")

	// ErrInvalidKey is returned for empty ids or ids containing the key
	// separator.
	ErrInvalidKey = errors.New("invalid user or item id")

	// ErrUnknownInteraction is returned for an interaction type outside
	// view, like and dislike.
	ErrUnknownInteraction = errors.New("unknown interaction type")
)

// SignalStore persists user interactions and quiz answers.
//
// Like and dislike are mutually exclusive per (user, item): recording one
// removes the other. Views are append-only; Signals reports the distinct
// viewed ids in order of first view.
type SignalStore interface {
	// RecordInteraction stores one interaction.
	RecordInteraction(ctx context.Context, in recommend.Interaction) error

	// RemoveInteraction deletes a like or dislike, or every view of an item.
	// Removing an absent interaction is not an error.
	RemoveInteraction(ctx context.Context, userID, itemID string, t recommend.InteractionType) error

	// Signals returns the user's liked, disliked and viewed item ids.
	// An unknown user has empty signals.
	Signals(ctx context.Context, userID string) (recommend.UserSignals, error)

	// LikedItems returns the ids the user currently likes.
	LikedItems(ctx context.Context, userID string) ([]string, error)

	// SaveQuiz replaces the user's quiz answers.
	SaveQuiz(ctx context.Context, userID string, answers recommend.QuizAnswers) error

	// Quiz returns the user's quiz answers or ErrNotFound.
	Quiz(ctx context.Context, userID string) (recommend.QuizAnswers, error)

	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Config selects and configures a SignalStore backend.
type Config struct {
	// Backend is "memory" (default) or "badger".
	Backend string

	// Path is the badger data directory. Ignored for memory.
	Path string

	// InMemory runs badger without touching disk.
	InMemory bool
}

// Open creates the configured SignalStore.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(cfg Config, logger zerolog.Logger) (SignalStore, error) {
	logger = logger.With().Str("component", "signal_store").Logger()

	switch cfg.Backend {
	case "", BackendMemory:
		logger.Info().Str("backend", BackendMemory).Msg("signal store opened")
		return NewMemoryStore(), nil
	case BackendBadger:
		opts := badger.DefaultOptions(cfg.Path)
		if cfg.InMemory {
			opts = badger.DefaultOptions("").WithInMemory(true)
		}
		opts.Logger = nil

		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open badger signal store: %w", err)
		}
		logger.Info().
			Str("backend", BackendBadger).
			Str("path", cfg.Path).
			Bool("in_memory", cfg.InMemory).
			Msg("signal store opened")
		return NewBadgerStore(db), nil
	default:
		return nil, fmt.Errorf("unknown signal store backend %q", cfg.Backend)
	}
}

func validateKey(ids ...string) error {
	for _, id := range ids {
		if id == "" || strings.Contains(id, "/") {
			return fmt.Errorf("%w: %q", ErrInvalidKey, id)
		}
	}
	return nil
}

func validateType(t recommend.InteractionType) error {
	if _, ok := recommend.ParseInteractionType(string(t)); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInteraction, t)
	}
	return nil
}

// opposite returns the explicit signal that excludes t.
func opposite(t recommend.InteractionType) recommend.InteractionType {
	if t == recommend.InteractionLike {
		return recommend.InteractionDislike
	}
	return recommend.InteractionLike
}

func copyAnswers(in recommend.QuizAnswers) recommend.QuizAnswers {
	out := make(recommend.QuizAnswers, len(in))
	for q, opts := range in {
		out[q] = append([]string(nil), opts...)
	}
	return out
}
