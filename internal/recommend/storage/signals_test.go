// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylematch/internal/recommend"
)

// storeFactories builds each backend under test.
func storeFactories() map[string]func(t *testing.T) SignalStore {
	return map[string]func(t *testing.T) SignalStore{
		"memory": func(t *testing.T) SignalStore {
			t.Helper()
			return NewMemoryStore()
		},
		"badger": func(t *testing.T) SignalStore {
			t.Helper()
			s, err := Open(Config{Backend: BackendBadger, InMemory: true}, zerolog.Nop())
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func record(t *testing.T, s SignalStore, user, item string, typ recommend.InteractionType, ts time.Time) {
	t.Helper()
	err := s.RecordInteraction(context.Background(), recommend.Interaction{
		UserID: user, ItemID: item, Type: typ, Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("RecordInteraction(%s, %s, %s) error = %v", user, item, typ, err)
	}
}

func TestSignalStore_LikeDislikeExclusive(t *testing.T) {
	t.Parallel()

	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := factory(t)
			ctx := context.Background()
			now := time.Now()

			record(t, s, "u1", "10", recommend.InteractionLike, now)
			record(t, s, "u1", "10", recommend.InteractionLike, now.Add(time.Second))
			record(t, s, "u1", "20", recommend.InteractionLike, now)
			record(t, s, "u1", "20", recommend.InteractionDislike, now.Add(time.Second))

			sig, err := s.Signals(ctx, "u1")
			if err != nil {
				t.Fatalf("Signals() error = %v", err)
			}
			if !reflect.DeepEqual(sig.Liked, []string{"10"}) {
				t.Errorf("Liked = %v, want [10]", sig.Liked)
			}
			if !reflect.DeepEqual(sig.Disliked, []string{"20"}) {
				t.Errorf("Disliked = %v, want [20]", sig.Disliked)
			}

			liked, err := s.LikedItems(ctx, "u1")
			if err != nil {
				t.Fatalf("LikedItems() error = %v", err)
			}
			if !reflect.DeepEqual(liked, []string{"10"}) {
				t.Errorf("LikedItems() = %v, want [10]", liked)
			}
		})
	}
}

func TestSignalStore_ViewsDistinctInOrder(t *testing.T) {
	t.Parallel()

	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := factory(t)
			base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

			record(t, s, "u1", "30", recommend.InteractionView, base)
			record(t, s, "u1", "10", recommend.InteractionView, base.Add(time.Minute))
			record(t, s, "u1", "30", recommend.InteractionView, base.Add(2*time.Minute))
			record(t, s, "u2", "99", recommend.InteractionView, base)

			sig, err := s.Signals(context.Background(), "u1")
			if err != nil {
				t.Fatalf("Signals() error = %v", err)
			}
			if !reflect.DeepEqual(sig.Viewed, []string{"30", "10"}) {
				t.Errorf("Viewed = %v, want [30 10]", sig.Viewed)
			}
		})
	}
}

func TestSignalStore_RemoveInteraction(t *testing.T) {
	t.Parallel()

	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := factory(t)
			ctx := context.Background()
			now := time.Now()

			record(t, s, "u1", "10", recommend.InteractionLike, now)
			record(t, s, "u1", "20", recommend.InteractionView, now)
			record(t, s, "u1", "20", recommend.InteractionView, now.Add(time.Second))
			record(t, s, "u1", "30", recommend.InteractionView, now.Add(2*time.Second))

			if err := s.RemoveInteraction(ctx, "u1", "10", recommend.InteractionLike); err != nil {
				t.Fatalf("RemoveInteraction(like) error = %v", err)
			}
			if err := s.RemoveInteraction(ctx, "u1", "20", recommend.InteractionView); err != nil {
				t.Fatalf("RemoveInteraction(view) error = %v", err)
			}
			if err := s.RemoveInteraction(ctx, "nobody", "1", recommend.InteractionDislike); err != nil {
				t.Errorf("removing an absent interaction should succeed, got %v", err)
			}

			sig, err := s.Signals(ctx, "u1")
			if err != nil {
				t.Fatalf("Signals() error = %v", err)
			}
			if len(sig.Liked) != 0 {
				t.Errorf("Liked = %v, want empty", sig.Liked)
			}
			if !reflect.DeepEqual(sig.Viewed, []string{"30"}) {
				t.Errorf("Viewed = %v, want [30]", sig.Viewed)
			}
		})
	}
}

func TestSignalStore_Quiz(t *testing.T) {
	t.Parallel()

	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := factory(t)
			ctx := context.Background()

			if _, err := s.Quiz(ctx, "u1"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Quiz() before save error = %v, want ErrNotFound", err)
			}

			first := recommend.QuizAnswers{
				recommend.QuestionStyle:  {"casual"},
				recommend.QuestionColour: {"neutral"},
			}
			if err := s.SaveQuiz(ctx, "u1", first); err != nil {
				t.Fatalf("SaveQuiz() error = %v", err)
			}

			second := recommend.QuizAnswers{recommend.QuestionOccasion: {"work"}}
			if err := s.SaveQuiz(ctx, "u1", second); err != nil {
				t.Fatalf("SaveQuiz() error = %v", err)
			}

			got, err := s.Quiz(ctx, "u1")
			if err != nil {
				t.Fatalf("Quiz() error = %v", err)
			}
			if !reflect.DeepEqual(got, second) {
				t.Errorf("Quiz() = %v, want full replacement %v", got, second)
			}
		})
	}
}

func TestSignalStore_Validation(t *testing.T) {
	t.Parallel()

	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := factory(t)
			ctx := context.Background()

			tests := []struct {
				name string
				in   recommend.Interaction
				want error
			}{
				{"empty user", recommend.Interaction{ItemID: "1", Type: recommend.InteractionLike}, ErrInvalidKey},
				{"slash in item", recommend.Interaction{UserID: "u", ItemID: "a/b", Type: recommend.InteractionLike}, ErrInvalidKey},
				{"unknown type", recommend.Interaction{UserID: "u", ItemID: "1", Type: "purchase"}, ErrUnknownInteraction},
			}
			for _, tt := range tests {
				if err := s.RecordInteraction(ctx, tt.in); !errors.Is(err, tt.want) {
					t.Errorf("%s: error = %v, want %v", tt.name, err, tt.want)
				}
			}

			sig, err := s.Signals(ctx, "unknown-user")
			if err != nil {
				t.Fatalf("Signals() error = %v", err)
			}
			if sig.HasInteractions() {
				t.Errorf("unknown user has signals %+v", sig)
			}
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	t.Parallel()

	if _, err := Open(Config{Backend: "sqlite"}, zerolog.Nop()); err == nil {
		t.Error("Open() with unknown backend should fail")
	}
	s, err := Open(Config{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() default error = %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("default backend = %T, want *MemoryStore", s)
	}
}
