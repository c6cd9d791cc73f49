// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/recommend"
)

// CachingDescriptor memoizes a VisualDescriptorProvider and persists the
// computed descriptors through a SnapshotStore, so a restart or catalog
// reload does not recompute descriptors it already has. Each descriptor is
// stored with a fingerprint of the item's attributes; an item whose
// attributes changed is described again.
type CachingDescriptor struct {
	inner  recommend.VisualDescriptorProvider
	store  *SnapshotStore
	keep   int
	logger zerolog.Logger

	mu      sync.RWMutex
	vectors map[string]cachedDescriptor

	// gen counts additions; saved is the gen of the last snapshot.
	gen, saved uint64
}

// NewCachingDescriptor wraps inner. store may be nil for a memory-only cache.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCachingDescriptor(inner recommend.VisualDescriptorProvider, store *SnapshotStore, keep int, logger zerolog.Logger) *CachingDescriptor {
	return &CachingDescriptor{
		inner:   inner,
		store:   store,
		keep:    keep,
		logger:  logger.With().Str("component", "descriptor_cache").Str("provider", inner.Name()).Logger(),
		vectors: make(map[string]cachedDescriptor),
	}
}

type cachedDescriptor struct {
	fingerprint uint64
	vector      []float64
}

// itemFingerprint hashes every attribute a provider may read.
func itemFingerprint(item *catalog.Item) uint64 {
	d := xxhash.New()
	for _, field := range []string{
		item.ID, item.Gender, item.MasterCategory, item.SubCategory,
		item.ArticleType, item.BaseColour, item.Season, item.Usage,
		item.DisplayName, item.ImageURL,
	} {
		_, _ = d.WriteString(field) //nolint:errcheck // digest writes never fail
		_, _ = d.Write([]byte{0})   //nolint:errcheck // digest writes never fail
	}
	return d.Sum64()
}

// Name returns the wrapped provider's name.
func (c *CachingDescriptor) Name() string { return c.inner.Name() }

// Dimension returns the wrapped provider's dimension.
func (c *CachingDescriptor) Dimension() int { return c.inner.Dimension() }

// Len returns the number of cached descriptors.
func (c *CachingDescriptor) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}

// Describe returns the cached descriptor or computes and caches it.
// Failures are not cached.
func (c *CachingDescriptor) Describe(ctx context.Context, item *catalog.Item) ([]float64, error) {
	if item == nil {
		return c.inner.Describe(ctx, item)
	}

	fp := itemFingerprint(item)
	c.mu.RLock()
	cached, ok := c.vectors[item.ID]
	c.mu.RUnlock()
	if ok && cached.fingerprint == fp {
		return cached.vector, nil
	}

	v, err := c.inner.Describe(ctx, item)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.vectors[item.ID] = cachedDescriptor{fingerprint: fp, vector: v}
	c.gen++
	c.mu.Unlock()
	return v, nil
}

// Restore loads the latest snapshot for this provider. A missing snapshot
// or one with a different dimension leaves the cache empty.
func (c *CachingDescriptor) Restore(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	snap, meta, err := c.store.Load(ctx, c.inner.Name(), 0)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore descriptors: %w", err)
	}
	if snap.Dimension != c.inner.Dimension() {
		c.logger.Warn().
			Int("snapshot_dimension", snap.Dimension).
			Int("provider_dimension", c.inner.Dimension()).
			Msg("ignoring descriptor snapshot with mismatched dimension")
		return nil
	}

	// Entries without a fingerprint never match and are recomputed on use.
	c.mu.Lock()
	for id, v := range snap.Vectors {
		c.vectors[id] = cachedDescriptor{fingerprint: snap.Fingerprints[id], vector: v}
	}
	c.saved = c.gen
	c.mu.Unlock()

	c.logger.Info().
		Int("version", meta.Version).
		Int("items", meta.ItemCount).
		Msg("descriptor snapshot restored")
	return nil
}

// Persist writes a new snapshot when descriptors were added since the last
// save, then prunes old versions.
func (c *CachingDescriptor) Persist(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	c.mu.RLock()
	if c.gen == c.saved {
		c.mu.RUnlock()
		return nil
	}
	gen := c.gen
	snap := &DescriptorSnapshot{
		Provider:  c.inner.Name(),
		Dimension: c.inner.Dimension(),
		Vectors:      make(map[string][]float64, len(c.vectors)),
		Fingerprints: make(map[string]uint64, len(c.vectors)),
	}
	for id, entry := range c.vectors {
		snap.Vectors[id] = entry.vector
		snap.Fingerprints[id] = entry.fingerprint
	}
	c.mu.RUnlock()

	meta, err := c.store.Save(ctx, c.inner.Name(), snap)
	if err != nil {
		return fmt.Errorf("persist descriptors: %w", err)
	}

	c.mu.Lock()
	c.saved = gen
	c.mu.Unlock()

	if err := c.store.Prune(ctx, c.inner.Name(), c.keep); err != nil {
		c.logger.Warn().Err(err).Msg("failed to prune descriptor snapshots")
	}

	c.logger.Info().
		Int("version", meta.Version).
		Int("items", meta.ItemCount).
		Int64("size_bytes", meta.SizeBytes).
		Msg("descriptor snapshot saved")
	return nil
}

var _ recommend.VisualDescriptorProvider = (*CachingDescriptor)(nil)
