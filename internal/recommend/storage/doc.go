// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

// Package storage persists the recommender's inputs: user signals, quiz
// answers, and computed visual descriptors.
//
// # Signal Store
//
// SignalStore records likes, dislikes, views and quiz answers. Two backends
// are available through Open:
//
//   - memory: process-local maps, the default
//   - badger: BadgerDB, durable across restarts
//
// BadgerDB key layout:
//
//	sig/<user>/like/<item>          explicit positive signal
//	sig/<user>/dislike/<item>       explicit negative signal
//	view/<user>/<unix-nanos>/<item> append-only view log
//	quiz/<user>                     JSON-encoded quiz answers
//
// Zero-padded timestamps make a prefix scan over view/<user>/ return views
// in chronological order. User and item ids must not contain "/".
//
// # Descriptor Snapshots
//
// SnapshotStore keeps versioned snapshots of visual descriptors:
//
//	filename: {provider}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (SnapshotMetadata)
//	  - CompressedData (gzip-compressed gob-encoded DescriptorSnapshot)
//
// The SHA-256 checksum of the uncompressed payload is verified on load.
// Files are written to a temporary name and renamed into place.
//
// CachingDescriptor wraps a VisualDescriptorProvider with an in-memory map
// that is restored from, and persisted to, a SnapshotStore.
//
// # Thread Safety
//
// All stores are safe for concurrent use.
package storage
