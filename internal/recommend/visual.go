// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package recommend

import (
	"context"

	"github.com/cespare/xxhash/v2"

	"github.com/tomtom215/stylematch/internal/catalog"
)

// DefaultVisualDimension is the descriptor length used when none is configured.
const DefaultVisualDimension = 512

// VisualDescriptorProvider turns an item into a fixed-length visual descriptor.
// Implementations must be safe for concurrent use.
type VisualDescriptorProvider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Dimension is the length of every descriptor returned.
	Dimension() int

	// Describe returns the raw descriptor for an item. It returns
	// ErrMissingData when the item has nothing to describe and
	// ErrComputeUnavailable when the backing service cannot be reached.
	Describe(ctx context.Context, item *catalog.Item) ([]float64, error)
}

// HashDescriptor produces deterministic pseudo-random descriptors keyed on
// the item id, article type and base colour. It stands in for an image
// model when none is deployed.
type HashDescriptor struct {
	dim int
}

// NewHashDescriptor creates a HashDescriptor. Non-positive dimensions use
// DefaultVisualDimension.
func NewHashDescriptor(dim int) *HashDescriptor {
	if dim <= 0 {
		dim = DefaultVisualDimension
	}
	return &HashDescriptor{dim: dim}
}

// Name returns the provider identifier.
func (h *HashDescriptor) Name() string { return "hash" }

// Dimension returns the descriptor length.
func (h *HashDescriptor) Dimension() int { return h.dim }

// Describe returns standard normal values seeded from the item key.
func (h *HashDescriptor) Describe(_ context.Context, item *catalog.Item) ([]float64, error) {
	if item == nil || item.ID == "" {
		return nil, ErrMissingData
	}

	key := item.ID + "_" + item.ArticleType + "_" + item.BaseColour
	seed := int64(xxhash.Sum64String(key)) //nolint:gosec // wraparound is fine for a seed
	if seed == 0 {
		seed = 1
	}
	rng := NewRand(seed)

	out := make([]float64, h.dim)
	for i := range out {
		out[i] = rng.NormFloat64()
	}
	return out, nil
}

var _ VisualDescriptorProvider = (*HashDescriptor)(nil)
