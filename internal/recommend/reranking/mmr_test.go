// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package reranking

import (
	"context"
	"testing"

	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/recommend"
)

func scoredItem(id, articleType, colour string, score float64) recommend.ScoredCandidate {
	return recommend.ScoredCandidate{
		Item: catalog.Item{
			ID:             id,
			Gender:         "Men",
			MasterCategory: "Apparel",
			ArticleType:    articleType,
			BaseColour:     colour,
		},
		Score: score,
	}
}

func TestNewMMR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		lambda     float64
		wantLambda float64
	}{
		{"normal value", 0.7, 0.7},
		{"zero value", 0.0, 0.0},
		{"one value", 1.0, 1.0},
		{"negative clamped to zero", -0.5, 0.0},
		{"above one clamped to one", 1.5, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mmr := NewMMR(tt.lambda)
			if mmr.lambda != tt.wantLambda {
				t.Errorf("lambda = %f, want %f", mmr.lambda, tt.wantLambda)
			}
		})
	}
}

func TestMMR_Name(t *testing.T) {
	t.Parallel()

	if got := NewMMR(0.7).Name(); got != "mmr" {
		t.Errorf("Name() = %q, want %q", got, "mmr")
	}
}

func TestMMR_Rerank(t *testing.T) {
	t.Parallel()

	items := []recommend.ScoredCandidate{
		scoredItem("1", "Tshirts", "Black", 1.0),
		scoredItem("2", "Tshirts", "Black", 0.9),
		scoredItem("3", "Jeans", "Blue", 0.85),
		scoredItem("4", "Tshirts", "Black", 0.8),
		scoredItem("5", "Dresses", "Red", 0.75),
		scoredItem("6", "Jeans", "Blue", 0.7),
	}

	tests := []struct {
		name    string
		lambda  float64
		k       int
		wantLen int
	}{
		{"pure relevance (lambda=1)", 1.0, 3, 3},
		{"balanced (lambda=0.7)", 0.7, 3, 3},
		{"k larger than items", 0.7, 10, 6},
		{"k zero returns input", 0.7, 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := NewMMR(tt.lambda).Rerank(context.Background(), items, tt.k)
			if len(result) != tt.wantLen {
				t.Errorf("len(result) = %d, want %d", len(result), tt.wantLen)
			}
		})
	}
}

func TestMMR_Rerank_DiversityEffect(t *testing.T) {
	t.Parallel()

	items := []recommend.ScoredCandidate{
		scoredItem("1", "Tshirts", "Black", 1.0),
		scoredItem("2", "Tshirts", "Black", 0.95),
		scoredItem("3", "Tshirts", "Black", 0.9),
		scoredItem("4", "Jeans", "Blue", 0.5),
		scoredItem("5", "Dresses", "Red", 0.4),
	}

	t.Run("pure relevance keeps all Tshirts", func(t *testing.T) {
		t.Parallel()
		for _, item := range NewMMR(1.0).Rerank(context.Background(), items, 3) {
			if item.Item.ArticleType != "Tshirts" {
				t.Errorf("pure relevance selected %s", item.Item.ArticleType)
			}
		}
	})

	t.Run("low lambda promotes diversity", func(t *testing.T) {
		t.Parallel()
		seen := make(map[string]bool)
		for _, item := range NewMMR(0.3).Rerank(context.Background(), items, 3) {
			seen[item.Item.ArticleType] = true
		}
		if len(seen) < 2 {
			t.Errorf("expected article type diversity, only saw %v", seen)
		}
	})
}

func TestMMR_Rerank_EmptyInput(t *testing.T) {
	t.Parallel()

	mmr := NewMMR(0.7)
	if got := mmr.Rerank(context.Background(), nil, 5); len(got) != 0 {
		t.Errorf("expected empty result for nil input, got %d items", len(got))
	}
	if got := mmr.Rerank(context.Background(), []recommend.ScoredCandidate{}, 5); len(got) != 0 {
		t.Errorf("expected empty result for empty slice, got %d items", len(got))
	}
}

func TestMMR_Rerank_SingleItem(t *testing.T) {
	t.Parallel()

	items := []recommend.ScoredCandidate{scoredItem("1", "Tshirts", "Black", 1.0)}
	result := NewMMR(0.7).Rerank(context.Background(), items, 5)
	if len(result) != 1 || result[0].Item.ID != "1" {
		t.Errorf("Rerank() = %+v, want the single item", result)
	}
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	a := catalog.Item{Gender: "Men", ArticleType: "Tshirts", BaseColour: "Black"}
	tests := []struct {
		name     string
		b        catalog.Item
		expected float64
	}{
		{"identical", catalog.Item{Gender: "Men", ArticleType: "Tshirts", BaseColour: "Black"}, 1.0},
		{"case insensitive", catalog.Item{Gender: "MEN", ArticleType: "tshirts", BaseColour: "BLACK"}, 1.0},
		{"no overlap", catalog.Item{Gender: "Women", ArticleType: "Dresses", BaseColour: "Red"}, 0.0},
		{"partial overlap", catalog.Item{Gender: "Men", ArticleType: "Jeans", BaseColour: "Black"}, 2.0 / 4.0},
		{"empty", catalog.Item{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := jaccard(attributeTokens(&a), attributeTokens(&tt.b))
			if got < tt.expected-0.01 || got > tt.expected+0.01 {
				t.Errorf("jaccard() = %f, want %f", got, tt.expected)
			}
		})
	}

	if got := jaccard(attributeTokens(&catalog.Item{}), attributeTokens(&catalog.Item{})); got != 0 {
		t.Errorf("jaccard(empty, empty) = %f, want 0", got)
	}
}
