// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package recommend

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylematch/internal/catalog"
)

func featureItems() []catalog.Item {
	return []catalog.Item{
		{ID: "1", Gender: "Men", MasterCategory: "Apparel", SubCategory: "Topwear", ArticleType: "Tshirts", BaseColour: "Black", Season: "Summer", Usage: "Casual"},
		{ID: "2", Gender: "Men", MasterCategory: "Apparel", SubCategory: "Bottomwear", ArticleType: "Jeans", BaseColour: "Blue", Season: "Fall", Usage: "Casual"},
		{ID: "3", Gender: "Women", MasterCategory: "Apparel", SubCategory: "Dress", ArticleType: "Dresses", BaseColour: "Red", Season: "Summer", Usage: "Party"},
		{ID: "4", Gender: "Women", MasterCategory: "Accessories", ArticleType: "Watches"},
	}
}

// stubDescriptor returns fixed descriptors and fails for ids in missing.
type stubDescriptor struct {
	dim     int
	missing map[string]bool
	short   map[string]bool
}

func (s *stubDescriptor) Name() string   { return "stub" }
func (s *stubDescriptor) Dimension() int { return s.dim }
func (s *stubDescriptor) Describe(_ context.Context, item *catalog.Item) ([]float64, error) {
	if s.missing[item.ID] {
		return nil, ErrMissingData
	}
	if s.short[item.ID] {
		return []float64{1}, nil
	}
	v := make([]float64, s.dim)
	for i := range v {
		v[i] = float64(len(item.ID) + i)
	}
	return v, nil
}

func testFeatureConfig() FeatureConfig {
	return FeatureConfig{VisualWeight: 0.7, MetadataWeight: 0.3, Concurrency: 2}
}

func TestFeatureExtractor_MetadataOnly(t *testing.T) {
	t.Parallel()

	items := featureItems()
	idx, err := NewFeatureExtractor(testFeatureConfig(), nil, zerolog.Nop()).Build(context.Background(), items)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// gender 2, master 2, sub 4 (incl. unknown), type 4, colour 4 (incl. unknown),
	// season 3 (incl. unknown), usage 3 (incl. unknown)
	if idx.Dim() != 22 {
		t.Errorf("Dim() = %d, want 22", idx.Dim())
	}
	if idx.Len() != len(items) {
		t.Errorf("Len() = %d, want %d", idx.Len(), len(items))
	}
	if idx.MissingVisuals() != 0 {
		t.Errorf("MissingVisuals() = %d, want 0", idx.MissingVisuals())
	}

	sub := idx.Vocabulary(catalog.AttrSubCategory)
	found := false
	for _, v := range sub {
		if v == catalog.Unknown {
			found = true
		}
	}
	if !found {
		t.Errorf("subCategory vocabulary %v lacks the unknown value", sub)
	}

	for i := range items {
		v, ok := idx.Vector(items[i].ID)
		if !ok {
			t.Fatalf("no vector for %s", items[i].ID)
		}
		if n := Norm(v); math.Abs(n-1) > 1e-6 {
			t.Errorf("item %s norm = %v, want 1", items[i].ID, n)
		}
	}

	// Items 1 and 2 share gender, master category and usage.
	v1, _ := idx.Vector("1")
	v2, _ := idx.Vector("2")
	v3, _ := idx.Vector("3")
	if Cosine(v1, v2) <= Cosine(v1, v3) {
		t.Errorf("cos(1,2)=%v should exceed cos(1,3)=%v", Cosine(v1, v2), Cosine(v1, v3))
	}
}

func TestFeatureExtractor_WithVisual(t *testing.T) {
	t.Parallel()

	visual := &stubDescriptor{
		dim:     4,
		missing: map[string]bool{"3": true},
		short:   map[string]bool{"4": true},
	}
	idx, err := NewFeatureExtractor(testFeatureConfig(), visual, zerolog.Nop()).Build(context.Background(), featureItems())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if idx.Dim() != 26 {
		t.Errorf("Dim() = %d, want 26", idx.Dim())
	}
	if idx.MissingVisuals() != 2 {
		t.Errorf("MissingVisuals() = %d, want 2", idx.MissingVisuals())
	}

	v3, _ := idx.Vector("3")
	for i := 0; i < 4; i++ {
		if v3[i] != 0 {
			t.Fatalf("missing descriptor should leave a zero visual block, got %v", v3[:4])
		}
	}
	if n := Norm(v3); math.Abs(n-1) > 1e-6 {
		t.Errorf("norm with zero visual block = %v, want 1", n)
	}

	// The visual block carries weight 0.7 before the final normalization.
	v1, _ := idx.Vector("1")
	visualNorm := Norm(v1[:4])
	metaNorm := Norm(v1[4:])
	if math.Abs(visualNorm/metaNorm-0.7/0.3) > 1e-6 {
		t.Errorf("visual/metadata ratio = %v, want %v", visualNorm/metaNorm, 0.7/0.3)
	}
}

func TestFeatureExtractor_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFeatureExtractor(testFeatureConfig(), &stubDescriptor{dim: 2}, zerolog.Nop()).Build(ctx, featureItems())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestFeatureIndex_NilSafe(t *testing.T) {
	t.Parallel()

	var idx *FeatureIndex
	if _, ok := idx.Vector("1"); ok {
		t.Error("nil index returned a vector")
	}
	if idx.Dim() != 0 || idx.Len() != 0 || idx.MissingVisuals() != 0 || idx.Vocabulary(catalog.AttrGender) != nil {
		t.Error("nil index should report zero values")
	}
}
