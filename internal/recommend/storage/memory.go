// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/stylematch/internal/recommend"
)

// MemoryStore is a SignalStore held in process memory. Data is lost on
// restart.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*userRecord
}

type userRecord struct {
	liked    map[string]time.Time
	disliked map[string]time.Time
	views    []recommend.Interaction
	quiz     recommend.QuizAnswers
}

func newUserRecord() *userRecord {
	return &userRecord{
		liked:    make(map[string]time.Time),
		disliked: make(map[string]time.Time),
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*userRecord)}
}

func (m *MemoryStore) user(id string) *userRecord {
	u, ok := m.users[id]
	if !ok {
		u = newUserRecord()
		m.users[id] = u
	}
	return u
}

// RecordInteraction stores one interaction.
func (m *MemoryStore) RecordInteraction(_ context.Context, in recommend.Interaction) error {
	if err := validateKey(in.UserID, in.ItemID); err != nil {
		return err
	}
	if err := validateType(in.Type); err != nil {
		return err
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.user(in.UserID)
	switch in.Type {
	case recommend.InteractionLike:
		delete(u.disliked, in.ItemID)
		if _, ok := u.liked[in.ItemID]; !ok {
			u.liked[in.ItemID] = in.Timestamp
		}
	case recommend.InteractionDislike:
		delete(u.liked, in.ItemID)
		if _, ok := u.disliked[in.ItemID]; !ok {
			u.disliked[in.ItemID] = in.Timestamp
		}
	case recommend.InteractionView:
		u.views = append(u.views, in)
	}
	return nil
}

// RemoveInteraction deletes an interaction.
func (m *MemoryStore) RemoveInteraction(_ context.Context, userID, itemID string, t recommend.InteractionType) error {
	if err := validateKey(userID, itemID); err != nil {
		return err
	}
	if err := validateType(t); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return nil
	}
	switch t {
	case recommend.InteractionLike:
		delete(u.liked, itemID)
	case recommend.InteractionDislike:
		delete(u.disliked, itemID)
	case recommend.InteractionView:
		kept := u.views[:0]
		for _, v := range u.views {
			if v.ItemID != itemID {
				kept = append(kept, v)
			}
		}
		u.views = kept
	}
	return nil
}

// Signals returns the user's signal sets.
func (m *MemoryStore) Signals(_ context.Context, userID string) (recommend.UserSignals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var s recommend.UserSignals
	u, ok := m.users[userID]
	if !ok {
		return s, nil
	}

	s.Liked = sortedKeys(u.liked)
	s.Disliked = sortedKeys(u.disliked)
	seen := make(map[string]struct{}, len(u.views))
	for _, v := range u.views {
		if _, dup := seen[v.ItemID]; dup {
			continue
		}
		seen[v.ItemID] = struct{}{}
		s.Viewed = append(s.Viewed, v.ItemID)
	}
	return s, nil
}

// LikedItems returns the ids the user likes.
func (m *MemoryStore) LikedItems(_ context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	return sortedKeys(u.liked), nil
}

// SaveQuiz replaces the user's quiz answers.
func (m *MemoryStore) SaveQuiz(_ context.Context, userID string, answers recommend.QuizAnswers) error {
	if err := validateKey(userID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(userID).quiz = copyAnswers(answers)
	return nil
}

// Quiz returns the user's quiz answers.
func (m *MemoryStore) Quiz(_ context.Context, userID string) (recommend.QuizAnswers, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok || u.quiz == nil {
		return nil, ErrNotFound
	}
	return copyAnswers(u.quiz), nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

func sortedKeys(set map[string]time.Time) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ SignalStore = (*MemoryStore)(nil)
