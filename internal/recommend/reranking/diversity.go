// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package reranking

import (
	"context"

	"github.com/tomtom215/stylematch/internal/recommend"
)

// CategoryDiversity builds cold-start lists that spread across article types.
//
// The pool is shuffled, then categories are visited in order of first
// appearance taking at most perCategory items each. If that leaves the list
// short of k, the remaining items backfill it regardless of category. The
// final list is shuffled again, so its order carries no ranking meaning.
type CategoryDiversity struct {
	perCategory int
	rng         *recommend.Rand
}

// NewCategoryDiversity creates a diversity selector.
func NewCategoryDiversity(perCategory int, rng *recommend.Rand) *CategoryDiversity {
	if perCategory < 1 {
		perCategory = 1
	}
	if rng == nil {
		rng = recommend.NewRand(0)
	}
	return &CategoryDiversity{perCategory: perCategory, rng: rng}
}

// Name returns the selector identifier.
func (d *CategoryDiversity) Name() string {
	return "category_diversity"
}

// Rerank selects up to k items from the pool.
func (d *CategoryDiversity) Rerank(_ context.Context, items []recommend.ScoredCandidate, k int) []recommend.ScoredCandidate {
	if len(items) == 0 || k <= 0 {
		return nil
	}

	pool := make([]recommend.ScoredCandidate, len(items))
	copy(pool, items)
	d.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	var order []string
	groups := make(map[string][]int)
	for i := range pool {
		cat := pool[i].Item.ArticleType
		if _, ok := groups[cat]; !ok {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], i)
	}

	out := make([]recommend.ScoredCandidate, 0, k)
	taken := make([]bool, len(pool))
	for _, cat := range order {
		for n, idx := range groups[cat] {
			if n >= d.perCategory || len(out) >= k {
				break
			}
			out = append(out, pool[idx])
			taken[idx] = true
		}
		if len(out) >= k {
			break
		}
	}

	if len(out) < k {
		backfill := make([]recommend.ScoredCandidate, 0, len(pool)-len(out))
		for i := range pool {
			if !taken[i] {
				backfill = append(backfill, pool[i])
			}
		}
		recommend.SortByScore(backfill)
		for i := 0; i < len(backfill) && len(out) < k; i++ {
			out = append(out, backfill[i])
		}
	}

	d.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

var _ recommend.Reranker = (*CategoryDiversity)(nil)
