// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package strategies

import (
	"context"
	"strings"

	"github.com/tomtom215/stylematch/internal/catalog"
)

// cancelCheckInterval is how many candidates are scored between context checks.
const cancelCheckInterval = 256

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// checkCancelled reports cancellation every cancelCheckInterval candidates.
func checkCancelled(ctx context.Context, i int) error {
	if i%cancelCheckInterval == 0 && ContextCancelled(ctx) {
		return ctx.Err()
	}
	return nil
}

// toSet builds a membership set from a slice.
func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// containsFold reports whether substr is within s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// firstComplement returns the first liked item the candidate completes an
// outfit with.
func firstComplement(liked []catalog.Item, candidate *catalog.Item, isComplementary func(base, cand string) bool) (catalog.Item, bool) {
	for i := range liked {
		if isComplementary(liked[i].ArticleType, candidate.ArticleType) {
			return liked[i], true
		}
	}
	return catalog.Item{}, false
}
