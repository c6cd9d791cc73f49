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
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/stylematch/internal/recommend"
)

// Key prefixes for BadgerDB storage.
//
//	sig/<user>/<like|dislike>/<item>  -> Interaction
//	view/<user>/<unix-nanos>/<item>   -> Interaction
//	quiz/<user>                       -> QuizAnswers
const (
	signalKeyPrefix = "sig/"
	viewKeyPrefix   = "view/"
	quizKeyPrefix   = "quiz/"
)

// BadgerStore is a SignalStore backed by BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore wraps an open database. The store owns db and closes it
// on Close.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func signalKey(userID string, t recommend.InteractionType, itemID string) []byte {
	return []byte(signalKeyPrefix + userID + "/" + string(t) + "/" + itemID)
}

func signalPrefix(userID string, t recommend.InteractionType) []byte {
	return []byte(signalKeyPrefix + userID + "/" + string(t) + "/")
}

func viewKey(userID string, ts time.Time, itemID string) []byte {
	return []byte(fmt.Sprintf("%s%s/%020d/%s", viewKeyPrefix, userID, ts.UnixNano(), itemID))
}

func viewPrefix(userID string) []byte {
	return []byte(viewKeyPrefix + userID + "/")
}

func quizKey(userID string) []byte {
	return []byte(quizKeyPrefix + userID)
}

// RecordInteraction stores one interaction.
func (s *BadgerStore) RecordInteraction(_ context.Context, in recommend.Interaction) error {
	if err := validateKey(in.UserID, in.ItemID); err != nil {
		return err
	}
	if err := validateType(in.Type); err != nil {
		return err
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}

	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if in.Type == recommend.InteractionView {
			if err := txn.Set(viewKey(in.UserID, in.Timestamp, in.ItemID), data); err != nil {
				return fmt.Errorf("set view: %w", err)
			}
			return nil
		}

		if err := txn.Delete(signalKey(in.UserID, opposite(in.Type), in.ItemID)); err != nil {
			return fmt.Errorf("delete opposite signal: %w", err)
		}

		key := signalKey(in.UserID, in.Type, in.ItemID)
		if _, err := txn.Get(key); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get signal: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set signal: %w", err)
		}
		return nil
	})
}

// RemoveInteraction deletes an interaction.
func (s *BadgerStore) RemoveInteraction(_ context.Context, userID, itemID string, t recommend.InteractionType) error {
	if err := validateKey(userID, itemID); err != nil {
		return err
	}
	if err := validateType(t); err != nil {
		return err
	}

	if t != recommend.InteractionView {
		return s.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(signalKey(userID, t, itemID))
		})
	}

	var keys [][]byte
	suffix := "/" + itemID
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := viewPrefix(userID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if strings.HasSuffix(string(it.Item().Key()), suffix) {
				keys = append(keys, it.Item().KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan views: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return fmt.Errorf("delete view: %w", err)
			}
		}
		return nil
	})
}

// Signals returns the user's signal sets.
func (s *BadgerStore) Signals(_ context.Context, userID string) (recommend.UserSignals, error) {
	var sig recommend.UserSignals

	err := s.db.View(func(txn *badger.Txn) error {
		sig.Liked = scanItemIDs(txn, signalPrefix(userID, recommend.InteractionLike))
		sig.Disliked = scanItemIDs(txn, signalPrefix(userID, recommend.InteractionDislike))

		seen := make(map[string]struct{})
		for _, id := range scanItemIDs(txn, viewPrefix(userID)) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			sig.Viewed = append(sig.Viewed, id)
		}
		return nil
	})
	if err != nil {
		return recommend.UserSignals{}, fmt.Errorf("read signals: %w", err)
	}
	return sig, nil
}

// LikedItems returns the ids the user likes.
func (s *BadgerStore) LikedItems(_ context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		ids = scanItemIDs(txn, signalPrefix(userID, recommend.InteractionLike))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read likes: %w", err)
	}
	return ids, nil
}

// scanItemIDs returns the trailing key segment of every key under prefix,
// in key order.
func scanItemIDs(txn *badger.Txn, prefix []byte) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := string(it.Item().Key())
		ids = append(ids, key[strings.LastIndexByte(key, '/')+1:])
	}
	return ids
}

// SaveQuiz replaces the user's quiz answers.
func (s *BadgerStore) SaveQuiz(_ context.Context, userID string, answers recommend.QuizAnswers) error {
	if err := validateKey(userID); err != nil {
		return err
	}
	if answers == nil {
		answers = recommend.QuizAnswers{}
	}

	data, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(quizKey(userID), data)
	})
}

// Quiz returns the user's quiz answers.
func (s *BadgerStore) Quiz(_ context.Context, userID string) (recommend.QuizAnswers, error) {
	var answers recommend.QuizAnswers

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(quizKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get quiz: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &answers)
		})
	})
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

var _ SignalStore = (*BadgerStore)(nil)
