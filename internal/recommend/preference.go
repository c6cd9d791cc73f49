// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package recommend

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylematch/internal/cache"
	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/metrics"
)

// topN is the number of ranked values kept per attribute.
var topN = map[catalog.Attribute]int{
	catalog.AttrGender:         1,
	catalog.AttrMasterCategory: 3,
	catalog.AttrSubCategory:    3,
	catalog.AttrArticleType:    3,
	catalog.AttrBaseColour:     3,
	catalog.AttrSeason:         2,
	catalog.AttrUsage:          2,
}

// ResolvedSignals are user signals mapped to catalog items. Unknown ids
// have already been dropped.
type ResolvedSignals struct {
	Liked    []catalog.Item
	Disliked []catalog.Item
	Viewed   []catalog.Item
}

// PreferenceBuilder derives preference profiles and memoizes them per user.
type PreferenceBuilder struct {
	cfg    PreferenceConfig
	memo   *cache.LRU[memoEntry]
	logger zerolog.Logger
}

type memoEntry struct {
	signature string
	profile   *Profile
}

// NewPreferenceBuilder creates a builder with a bounded profile memo.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPreferenceBuilder(cfg PreferenceConfig, logger zerolog.Logger) *PreferenceBuilder {
	entries := cfg.MemoEntries
	if entries < 1 {
		entries = 10000
	}
	return &PreferenceBuilder{
		cfg: cfg,
		// entries are invalidated by signature, not age
		memo:   cache.NewLRU[memoEntry](entries, 24*time.Hour),
		logger: logger.With().Str("component", "preference").Logger(),
	}
}

// ProfileFor returns the memoized profile for a user when the signal sets
// are unchanged, and rebuilds it otherwise. An empty userID bypasses the memo.
func (b *PreferenceBuilder) ProfileFor(userID string, signals ResolvedSignals, features *FeatureIndex) *Profile {
	if userID == "" {
		return b.Build(signals, features)
	}

	sig := signature(signals)
	if entry, ok := b.memo.Get(userID); ok && entry.signature == sig {
		metrics.ProfileMemo.WithLabelValues("hit").Inc()
		return entry.profile
	}
	metrics.ProfileMemo.WithLabelValues("miss").Inc()

	p := b.Build(signals, features)
	b.memo.Add(userID, memoEntry{signature: sig, profile: p})
	return p
}

// Reset drops every memoized profile.
func (b *PreferenceBuilder) Reset() {
	b.memo.Clear()
}

// Build computes a profile from resolved signals.
//
// The vector is the weighted mean of liked and viewed vectors minus the
// scaled mean of disliked vectors, normalized. Viewed items that are also
// liked or disliked contribute only once, through their explicit signal.
func (b *PreferenceBuilder) Build(signals ResolvedSignals, features *FeatureIndex) *Profile {
	explicit := make(map[string]struct{}, len(signals.Liked)+len(signals.Disliked))
	for i := range signals.Liked {
		explicit[signals.Liked[i].ID] = struct{}{}
	}
	for i := range signals.Disliked {
		explicit[signals.Disliked[i].ID] = struct{}{}
	}
	viewed := distinctExcluding(signals.Viewed, explicit)

	p := &Profile{
		LikedCount:    len(signals.Liked),
		DislikedCount: len(signals.Disliked),
		ViewedCount:   len(viewed),
	}

	b.buildCounters(p, signals.Liked, signals.Disliked, viewed)
	b.buildVector(p, signals.Liked, signals.Disliked, viewed, features)

	return p
}

func (b *PreferenceBuilder) buildVector(p *Profile, liked, disliked, viewed []catalog.Item, features *FeatureIndex) {
	dim := features.Dim()
	if dim == 0 {
		return
	}

	sum := make([]float64, dim)
	var total float64
	for i := range liked {
		if v, ok := features.Vector(liked[i].ID); ok {
			addScaled(sum, v, b.cfg.LikeWeight)
			total += b.cfg.LikeWeight
		}
	}
	for i := range viewed {
		if v, ok := features.Vector(viewed[i].ID); ok && b.cfg.ViewWeight > 0 {
			addScaled(sum, v, b.cfg.ViewWeight)
			total += b.cfg.ViewWeight
		}
	}
	if total == 0 {
		return
	}
	for i := range sum {
		sum[i] /= total
	}

	mean := make([]float64, dim)
	n := 0
	for i := range disliked {
		if v, ok := features.Vector(disliked[i].ID); ok {
			addScaled(mean, v, 1)
			n++
		}
	}
	if n > 0 {
		addScaled(sum, mean, -b.cfg.DislikePenalty/float64(n))
	}

	if Norm(sum) == 0 {
		b.logger.Debug().Err(ErrDegenerateProfile).
			Int("liked", len(liked)).
			Int("disliked", len(disliked)).
			Msg("profile vector cancelled out")
		return
	}

	p.Vector = Normalize(sum)
	p.HasSignal = true
}

func (b *PreferenceBuilder) buildCounters(p *Profile, liked, disliked, viewed []catalog.Item) {
	counters := make(map[catalog.Attribute]*counter, len(catalog.Attributes))
	for _, a := range catalog.Attributes {
		counters[a] = newCounter()
	}

	apply := func(items []catalog.Item, delta float64) {
		for i := range items {
			for _, a := range catalog.Attributes {
				counters[a].add(items[i].Value(a), delta)
			}
		}
	}
	apply(liked, b.cfg.LikeCount)
	apply(viewed, b.cfg.ViewCount)
	apply(disliked, b.cfg.DislikeCount)

	p.Counts = make(map[catalog.Attribute]map[string]float64, len(counters))
	p.Top = make(map[catalog.Attribute][]string, len(counters))
	for _, a := range catalog.Attributes {
		p.Counts[a] = counters[a].counts
		p.Top[a] = counters[a].top(topN[a])
	}

	p.TopCategories = p.Top[catalog.AttrArticleType]
	p.TopColours = p.Top[catalog.AttrBaseColour]
	p.PreferredGender = catalog.Unknown
	if g := p.Top[catalog.AttrGender]; len(g) > 0 {
		p.PreferredGender = g[0]
	}
}

// counter tracks signed counts and the order values were first seen in.
type counter struct {
	counts map[string]float64
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]float64)}
}

func (c *counter) add(value string, delta float64) {
	if value == "" {
		return
	}
	if _, ok := c.counts[value]; !ok {
		c.order = append(c.order, value)
	}
	c.counts[value] += delta
}

// top returns up to n values with a positive count, highest first. Ties
// keep first-seen order.
func (c *counter) top(n int) []string {
	ranked := make([]string, 0, len(c.order))
	for _, v := range c.order {
		if c.counts[v] > 0 {
			ranked = append(ranked, v)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return c.counts[ranked[i]] > c.counts[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func distinctExcluding(items []catalog.Item, exclude map[string]struct{}) []catalog.Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]catalog.Item, 0, len(items))
	for i := range items {
		id := items[i].ID
		if _, ok := exclude[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, items[i])
	}
	return out
}

// signature is a canonical encoding of the three signal sets.
func signature(s ResolvedSignals) string {
	var sb strings.Builder
	for i, group := range [][]catalog.Item{s.Liked, s.Disliked, s.Viewed} {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strings.Join(sortedIDs(group), ","))
	}
	return sb.String()
}

func sortedIDs(items []catalog.Item) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for i := range items {
		if _, ok := seen[items[i].ID]; ok {
			continue
		}
		seen[items[i].ID] = struct{}{}
		ids = append(ids, items[i].ID)
	}
	sort.Strings(ids)
	return ids
}
