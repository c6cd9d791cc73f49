// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

// Package recommend implements content-based outfit recommendations over a
// fashion catalog.
//
// # Architecture
//
// A request flows through four stages:
//
//   - Features: every item gets a fused, unit-length vector built from a
//     visual descriptor and a one-hot encoding of its attributes
//   - Preferences: liked, disliked and viewed items become a Profile with a
//     preference vector and ranked attribute values
//   - Scoring: a ScoringStrategy rates candidates for the request kind
//   - Selection: a selector and optional rerankers assemble the final list
//
// Strategies live in the strategies subpackage and selectors in the
// reranking subpackage; both are registered on the Service at startup.
// Signal persistence and descriptor snapshots live in the storage
// subpackage.
//
// # Request Kinds
//
//   - personal: profile-driven; users without a usable positive signal
//     receive the cold-start list with StatusNoSignal
//   - quiz: scored against style quiz answers only
//   - similar: item-to-item around an anchor item
//   - defaults: the cold-start list
//
// # Catalog Loads
//
// Load builds features for a catalog and swaps the serving snapshot
// atomically. The previous catalog keeps serving while a load runs and
// stays active if it fails. A successful load clears the profile memo and
// the response cache.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	extractor := recommend.NewFeatureExtractor(cfg.Features, recommend.NewHashDescriptor(0), logger)
//	svc, err := recommend.NewService(cfg, extractor, logger)
//
//	svc.RegisterStrategy(recommend.KindPersonal, strategies.NewVectorSimilarity(cfg.Scoring))
//	svc.RegisterSelector(recommend.KindPersonal, reranking.NewComplementaryQuota(3))
//
//	if err := svc.Load(ctx, cat); err != nil { ... }
//	res, err := svc.Recommend(ctx, recommend.Request{
//	    UserID:  "u1",
//	    Signals: recommend.UserSignals{Liked: []string{"15970"}},
//	})
//
// # Thread Safety
//
// Service is safe for concurrent use. Requests read an immutable snapshot;
// loads are serialized and return ErrLoadInProgress when one is running.
package recommend
