// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/metrics"
)

// FeatureIndex holds the fused, unit-length feature vector of every item.
// It is immutable once built.
type FeatureIndex struct {
	vectors        map[string][]float64
	vocabulary     map[catalog.Attribute][]string
	dim            int
	visualDim      int
	metadataDim    int
	missingVisuals int
}

// Vector returns the feature vector for an item id.
func (f *FeatureIndex) Vector(id string) ([]float64, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.vectors[id]
	return v, ok
}

// Dim returns the fused vector length.
func (f *FeatureIndex) Dim() int {
	if f == nil {
		return 0
	}
	return f.dim
}

// Len returns the number of indexed items.
func (f *FeatureIndex) Len() int {
	if f == nil {
		return 0
	}
	return len(f.vectors)
}

// MissingVisuals returns how many items fell back to a zero visual block.
func (f *FeatureIndex) MissingVisuals() int {
	if f == nil {
		return 0
	}
	return f.missingVisuals
}

// Vocabulary returns the one-hot domain of an attribute in column order.
func (f *FeatureIndex) Vocabulary(a catalog.Attribute) []string {
	if f == nil {
		return nil
	}
	return f.vocabulary[a]
}

// FeatureExtractor builds a FeatureIndex from catalog items.
type FeatureExtractor struct {
	cfg    FeatureConfig
	visual VisualDescriptorProvider
	logger zerolog.Logger
}

// NewFeatureExtractor creates an extractor. A nil provider produces
// metadata-only vectors.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFeatureExtractor(cfg FeatureConfig, visual VisualDescriptorProvider, logger zerolog.Logger) *FeatureExtractor {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &FeatureExtractor{
		cfg:    cfg,
		visual: visual,
		logger: logger.With().Str("component", "features").Logger(),
	}
}

// Build computes one vector per item:
//
//	v = normalize(concat(visualWeight * normalize(visual), metadataWeight * normalize(onehot)))
//
// Items without a usable visual descriptor get a zero visual block and a
// warning; the build itself only fails on context cancellation.
func (e *FeatureExtractor) Build(ctx context.Context, items []catalog.Item) (*FeatureIndex, error) {
	start := time.Now()

	vocab, offsets, metaDim := buildVocabulary(items)

	visualDim := 0
	if e.visual != nil {
		visualDim = e.visual.Dimension()
	}

	visuals, missing, err := e.describeAll(ctx, items, visualDim)
	if err != nil {
		return nil, err
	}

	idx := &FeatureIndex{
		vectors:        make(map[string][]float64, len(items)),
		vocabulary:     vocab,
		dim:            visualDim + metaDim,
		visualDim:      visualDim,
		metadataDim:    metaDim,
		missingVisuals: missing,
	}

	for i := range items {
		meta := make([]float64, metaDim)
		for _, a := range catalog.Attributes {
			meta[offsets[a][items[i].ValueOrUnknown(a)]] = 1
		}
		meta = Normalize(meta)

		fused := make([]float64, 0, idx.dim)
		if visualDim > 0 {
			for _, x := range visuals[i] {
				fused = append(fused, x*e.cfg.VisualWeight)
			}
		}
		for _, x := range meta {
			fused = append(fused, x*e.cfg.MetadataWeight)
		}
		idx.vectors[items[i].ID] = Normalize(fused)
	}

	elapsed := time.Since(start)
	metrics.FeatureBuildDuration.Observe(elapsed.Seconds())
	e.logger.Info().
		Int("items", len(items)).
		Int("dimension", idx.dim).
		Int("missing_visuals", missing).
		Dur("duration", elapsed).
		Msg("feature index built")

	return idx, nil
}

// buildVocabulary collects the sorted value domain of every attribute and
// assigns each value a column in the one-hot block.
func buildVocabulary(items []catalog.Item) (map[catalog.Attribute][]string, map[catalog.Attribute]map[string]int, int) {
	vocab := make(map[catalog.Attribute][]string, len(catalog.Attributes))
	offsets := make(map[catalog.Attribute]map[string]int, len(catalog.Attributes))

	col := 0
	for _, a := range catalog.Attributes {
		seen := make(map[string]struct{})
		for i := range items {
			seen[items[i].ValueOrUnknown(a)] = struct{}{}
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)

		vocab[a] = values
		offsets[a] = make(map[string]int, len(values))
		for _, v := range values {
			offsets[a][v] = col
			col++
		}
	}
	return vocab, offsets, col
}

// describeAll fetches normalized visual descriptors with a bounded worker pool.
func (e *FeatureExtractor) describeAll(ctx context.Context, items []catalog.Item, dim int) ([][]float64, int, error) {
	if dim == 0 {
		return nil, 0, nil
	}

	results := make([][]float64, len(items))
	jobs := make(chan int)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		missing int
	)

	for w := 0; w < e.cfg.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				vec, ok := e.describeOne(ctx, &items[i], dim)
				if !ok {
					mu.Lock()
					missing++
					mu.Unlock()
				}
				results[i] = vec
			}
		}()
	}

	var cancelled error
	for i := range items {
		if ctx.Err() != nil {
			cancelled = ctx.Err()
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, 0, fmt.Errorf("feature extraction cancelled: %w", cancelled)
	}
	return results, missing, nil
}

// describeOne returns the normalized descriptor or a zero vector when the
// provider cannot supply one.
func (e *FeatureExtractor) describeOne(ctx context.Context, item *catalog.Item, dim int) ([]float64, bool) {
	vec, err := e.visual.Describe(ctx, item)
	if err == nil && len(vec) != dim {
		err = fmt.Errorf("descriptor has %d values, want %d: %w", len(vec), dim, ErrMissingData)
	}
	if err != nil {
		ev := e.logger.Warn()
		if errors.Is(err, ErrMissingData) {
			ev = e.logger.Warn().Bool("missing_data", true)
		}
		ev.Str("item_id", item.ID).Str("provider", e.visual.Name()).Err(err).
			Msg("visual descriptor unavailable, using zero vector")
		metrics.VisualDescriptorFailures.WithLabelValues(e.visual.Name()).Inc()
		return make([]float64, dim), false
	}
	return Normalize(vec), true
}
