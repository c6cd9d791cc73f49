// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package recommend_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylematch/internal/cache"
	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/recommend"
	"github.com/tomtom215/stylematch/internal/recommend/reranking"
	"github.com/tomtom215/stylematch/internal/recommend/strategies"
)

func scenarioItems() []catalog.Item {
	return []catalog.Item{
		{ID: "1", Gender: "Men", MasterCategory: "Apparel", SubCategory: "Topwear", ArticleType: "Tshirts", BaseColour: "Black", Season: "Summer", Usage: "Casual", DisplayName: "Black Crew Tshirt"},
		{ID: "2", Gender: "Men", MasterCategory: "Apparel", SubCategory: "Bottomwear", ArticleType: "Jeans", BaseColour: "Blue", Season: "Fall", Usage: "Casual", DisplayName: "Blue Slim Jeans"},
		{ID: "3", Gender: "Women", MasterCategory: "Apparel", SubCategory: "Dress", ArticleType: "Dresses", BaseColour: "Red", Season: "Summer", Usage: "Party", DisplayName: "Red Party Dress"},
	}
}

func wideItems() []catalog.Item {
	return append(scenarioItems(),
		catalog.Item{ID: "4", Gender: "Men", MasterCategory: "Apparel", SubCategory: "Topwear", ArticleType: "Shirts", BaseColour: "White", Season: "Winter", Usage: "Formal", DisplayName: "White Formal Shirt"},
		catalog.Item{ID: "5", Gender: "Men", MasterCategory: "Apparel", SubCategory: "Topwear", ArticleType: "Tshirts", BaseColour: "White", Season: "Summer", Usage: "Casual", DisplayName: "White Crew Tshirt"},
		catalog.Item{ID: "6", Gender: "Women", MasterCategory: "Apparel", SubCategory: "Topwear", ArticleType: "Tops", BaseColour: "Pink", Season: "Summer", Usage: "Casual", DisplayName: "Pink Casual Top"},
		catalog.Item{ID: "7", Gender: "Unisex", MasterCategory: "Accessories", SubCategory: "Watches", ArticleType: "Watches", BaseColour: "Black", Season: "Winter", Usage: "Casual", DisplayName: "Black Steel Watch"},
		catalog.Item{ID: "8", Gender: "Men", MasterCategory: "Apparel", SubCategory: "Bottomwear", ArticleType: "Jeans", BaseColour: "Black", Season: "Fall", Usage: "Casual", DisplayName: "Black Slim Jeans"},
	)
}

// newTestService wires strategies and selectors the way the server does.
func newTestService(t *testing.T, cfg *recommend.Config) *recommend.Service {
	t.Helper()

	cfg.Seed = 7
	rng := recommend.NewRand(cfg.Seed)
	logger := zerolog.Nop()

	svc, err := recommend.NewService(cfg, recommend.NewFeatureExtractor(cfg.Features, nil, logger), logger)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	var personal recommend.ScoringStrategy = strategies.NewVectorSimilarity(cfg.Scoring)
	if cfg.Strategy == recommend.StrategyRule {
		personal = strategies.NewRuleBased(strategies.DefaultRuleWeights(), cfg.Scoring.JitterFraction, rng)
	}
	svc.RegisterStrategy(recommend.KindPersonal, personal)
	svc.RegisterStrategy(recommend.KindQuiz, strategies.NewQuizKeyword(cfg.Scoring, rng))
	svc.RegisterStrategy(recommend.KindSimilar, strategies.NewItemSimilarity(true))

	svc.RegisterSelector(recommend.KindPersonal, reranking.NewComplementaryQuota(cfg.Selection.ComplementaryQuota))
	svc.RegisterSelector(recommend.KindSimilar, reranking.NewComplementaryQuota(cfg.Selection.SimilarComplementaryQuota))
	svc.RegisterSelector(recommend.KindDefaults, reranking.NewCategoryDiversity(cfg.Selection.PerCategory, rng))

	svc.SetCache(cache.NewLocal[[]recommend.ScoredCandidate](cfg.Cache.MaxEntries, cfg.Cache.TTL))
	return svc
}

func loadItems(t *testing.T, svc *recommend.Service, items []catalog.Item) {
	t.Helper()
	if err := svc.Load(context.Background(), catalog.New(items, "test")); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func ids(items []recommend.ScoredCandidate) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].Item.ID
	}
	return out
}

func indexOf(items []recommend.ScoredCandidate, id string) int {
	for i := range items {
		if items[i].Item.ID == id {
			return i
		}
	}
	return -1
}

func TestService_NotReady(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, recommend.DefaultConfig())
	ctx := context.Background()

	if svc.Ready() {
		t.Fatal("Ready() = true before any load")
	}

	res, err := svc.Recommend(ctx, recommend.Request{UserID: "u1", Signals: recommend.UserSignals{Liked: []string{"1"}}})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Status != recommend.StatusNotReady || len(res.Items) != 0 {
		t.Errorf("Recommend() = %s with %d items, want not_ready and none", res.Status, len(res.Items))
	}

	if res, _ := svc.RecommendFromQuiz(ctx, recommend.QuizRequest{}); res.Status != recommend.StatusNotReady {
		t.Errorf("RecommendFromQuiz() status = %s, want not_ready", res.Status)
	}
	if res, _ := svc.Similar(ctx, "1", 3); res.Status != recommend.StatusNotReady {
		t.Errorf("Similar() status = %s, want not_ready", res.Status)
	}
	if res, _ := svc.Defaults(ctx, 3, nil); res.Status != recommend.StatusNotReady {
		t.Errorf("Defaults() status = %s, want not_ready", res.Status)
	}
	if _, err := svc.Profile(ctx, "u1", recommend.UserSignals{}); !errors.Is(err, recommend.ErrNotReady) {
		t.Errorf("Profile() error = %v, want ErrNotReady", err)
	}
}

func TestService_LoadEmptyCatalog(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, recommend.DefaultConfig())
	err := svc.Load(context.Background(), catalog.New(nil, "empty"))
	if !errors.Is(err, catalog.ErrEmptyCatalog) {
		t.Fatalf("Load() error = %v, want ErrEmptyCatalog", err)
	}
	if svc.Ready() {
		t.Error("Ready() = true after a failed first load")
	}
	if st := svc.Status(); st.LastError == "" || st.Ready {
		t.Errorf("Status() = %+v, want last error and not ready", st)
	}
}

func TestService_ComplementaryOverWrongGender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		genderFilter bool
	}{
		{"gender filter on", true},
		{"gender filter off", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := recommend.DefaultConfig()
			cfg.Selection.GenderFilter = tt.genderFilter
			svc := newTestService(t, cfg)
			loadItems(t, svc, scenarioItems())

			res, err := svc.Recommend(context.Background(), recommend.Request{
				UserID:  "u1",
				Signals: recommend.UserSignals{Liked: []string{"1"}},
			})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if res.Status != recommend.StatusOK {
				t.Fatalf("status = %s, want ok", res.Status)
			}

			i2, i3 := indexOf(res.Items, "2"), indexOf(res.Items, "3")
			if i2 < 0 {
				t.Fatalf("item 2 missing from %v", ids(res.Items))
			}
			if !res.Items[i2].IsComplementary {
				t.Error("item 2 should be flagged complementary")
			}
			if indexOf(res.Items, "1") >= 0 {
				t.Error("liked item echoed back")
			}
			if tt.genderFilter {
				if i3 >= 0 {
					t.Errorf("wrong-gender item 3 returned: %v", ids(res.Items))
				}
				return
			}
			if i3 >= 0 && i3 < i2 {
				t.Errorf("item 3 ranked above item 2: %v", ids(res.Items))
			}
		})
	}
}

func TestService_NoSignalServesDefaults(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, recommend.DefaultConfig())
	loadItems(t, svc, wideItems())

	res, err := svc.Recommend(context.Background(), recommend.Request{UserID: "new-user", TopK: 4})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Status != recommend.StatusNoSignal {
		t.Fatalf("status = %s, want no_signal", res.Status)
	}
	if len(res.Items) != 4 {
		t.Fatalf("len = %d, want 4", len(res.Items))
	}

	perType := map[string]int{}
	for _, it := range res.Items {
		perType[it.Item.ArticleType]++
		if it.Reason != recommend.ReasonPopular {
			t.Errorf("reason = %q, want %q", it.Reason, recommend.ReasonPopular)
		}
	}
	for typ, n := range perType {
		if n > 2 {
			t.Errorf("article type %s appears %d times, want at most 2", typ, n)
		}
	}

	// More than the catalog holds returns the whole catalog.
	all, err := svc.Defaults(context.Background(), 50, []string{"3"})
	if err != nil {
		t.Fatalf("Defaults() error = %v", err)
	}
	if len(all.Items) != len(wideItems())-1 || indexOf(all.Items, "3") >= 0 {
		t.Errorf("Defaults() = %v, want every item except 3", ids(all.Items))
	}
}

func TestService_DislikeOnlyFallsBack(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, recommend.DefaultConfig())
	loadItems(t, svc, wideItems())

	res, err := svc.Recommend(context.Background(), recommend.Request{
		UserID:  "u1",
		Signals: recommend.UserSignals{Disliked: []string{"1", "2"}, Viewed: []string{"does-not-exist"}},
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Status != recommend.StatusNoSignal {
		t.Errorf("status = %s, want no_signal", res.Status)
	}
	for _, id := range []string{"1", "2"} {
		if indexOf(res.Items, id) >= 0 {
			t.Errorf("disliked item %s returned", id)
		}
	}
}

func TestService_ExclusionSet(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, recommend.DefaultConfig())
	loadItems(t, svc, wideItems())

	signals := recommend.UserSignals{
		Liked:    []string{"1", "8"},
		Disliked: []string{"4"},
		Viewed:   []string{"5", "2"},
	}
	res, err := svc.Recommend(context.Background(), recommend.Request{UserID: "u1", Signals: signals, TopK: 10})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for id := range signals.ExclusionSet() {
		if indexOf(res.Items, id) >= 0 {
			t.Errorf("excluded item %s returned: %v", id, ids(res.Items))
		}
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].Score > res.Items[i-1].Score {
			t.Errorf("items not in descending score order: %v", res.Items)
		}
	}
}

func TestService_CacheMakesRepeatsIdentical(t *testing.T) {
	t.Parallel()

	cfg := recommend.DefaultConfig()
	cfg.Strategy = recommend.StrategyRule
	svc := newTestService(t, cfg)
	loadItems(t, svc, wideItems())
	ctx := context.Background()

	req := recommend.Request{UserID: "u1", Signals: recommend.UserSignals{Liked: []string{"5", "1"}, Disliked: []string{"3"}}}
	first, err := svc.Recommend(ctx, req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if first.Metadata.CacheHit {
		t.Error("first request reported a cache hit")
	}

	// Same sets in a different order hit the same key.
	req.Signals.Liked = []string{"1", "5"}
	second, err := svc.Recommend(ctx, req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !second.Metadata.CacheHit {
		t.Fatal("second request missed the cache")
	}
	if len(first.Items) != len(second.Items) {
		t.Fatalf("lengths differ: %d vs %d", len(first.Items), len(second.Items))
	}
	for i := range first.Items {
		if first.Items[i].Item.ID != second.Items[i].Item.ID || first.Items[i].Score != second.Items[i].Score {
			t.Errorf("position %d differs: %+v vs %+v", i, first.Items[i], second.Items[i])
		}
	}

	// A reload invalidates cached lists.
	loadItems(t, svc, wideItems())
	third, err := svc.Recommend(ctx, req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if third.Metadata.CacheHit {
		t.Error("request after reload hit a stale cache entry")
	}
	if third.Metadata.CatalogVersion != 2 {
		t.Errorf("CatalogVersion = %d, want 2", third.Metadata.CatalogVersion)
	}
}

// gatedStrategy blocks its first Score call until released.
type gatedStrategy struct {
	inner   recommend.ScoringStrategy
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStrategy) Name() string { return g.inner.Name() }

func (g *gatedStrategy) Score(ctx context.Context, q *recommend.ScoringQuery, candidates []catalog.Item) ([]recommend.ScoredCandidate, error) {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.inner.Score(ctx, q, candidates)
}

func TestService_ReloadDuringScoringDoesNotServeStaleCache(t *testing.T) {
	t.Parallel()

	cfg := recommend.DefaultConfig()
	svc := newTestService(t, cfg)
	gate := &gatedStrategy{
		inner:   strategies.NewVectorSimilarity(cfg.Scoring),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc.RegisterStrategy(recommend.KindPersonal, gate)
	loadItems(t, svc, wideItems())
	ctx := context.Background()

	req := recommend.Request{UserID: "u1", Signals: recommend.UserSignals{Liked: []string{"1"}}}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Recommend(ctx, req)
		done <- err
	}()

	select {
	case <-gate.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("scoring never started")
	}

	// Drop items 2 and 8 while the first request is still scoring.
	var trimmed []catalog.Item
	for _, it := range wideItems() {
		if it.ID != "2" && it.ID != "8" {
			trimmed = append(trimmed, it)
		}
	}
	loadItems(t, svc, trimmed)

	close(gate.release)
	if err := <-done; err != nil {
		t.Fatalf("Recommend() during reload error = %v", err)
	}

	res, err := svc.Recommend(ctx, req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Metadata.CacheHit {
		t.Error("request after reload hit an entry scored against the previous catalog")
	}
	if res.Metadata.CatalogVersion != 2 {
		t.Errorf("CatalogVersion = %d, want 2", res.Metadata.CatalogVersion)
	}
	for _, id := range ids(res.Items) {
		if id == "2" || id == "8" {
			t.Errorf("item %s returned but not in the active catalog", id)
		}
	}
}

func TestService_Similar(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, recommend.DefaultConfig())
	loadItems(t, svc, wideItems())
	ctx := context.Background()

	if _, err := svc.Similar(ctx, "missing", 4); !errors.Is(err, recommend.ErrInvalidReference) {
		t.Errorf("Similar(missing) error = %v, want ErrInvalidReference", err)
	}

	res, err := svc.Similar(ctx, "1", 4)
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if res.Status != recommend.StatusOK || len(res.Items) != 4 {
		t.Fatalf("Similar() = %s with %v", res.Status, ids(res.Items))
	}
	if indexOf(res.Items, "1") >= 0 {
		t.Error("anchor item returned")
	}
	if res.Items[0].Item.ID != "5" {
		t.Errorf("top similar item = %s, want 5 (same type and name words)", res.Items[0].Item.ID)
	}

	complementary := 0
	for _, it := range res.Items {
		if it.IsComplementary {
			complementary++
			if it.Reason != "Completes your look" {
				t.Errorf("complementary reason = %q", it.Reason)
			}
		}
	}
	if complementary > 2 {
		t.Errorf("complementary items = %d, want at most 2", complementary)
	}
}

func TestService_QuizNothingMatched(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, recommend.DefaultConfig())
	loadItems(t, svc, wideItems())

	res, err := svc.RecommendFromQuiz(context.Background(), recommend.QuizRequest{
		Answers: recommend.QuizAnswers{recommend.QuestionStyle: {"minimalist"}},
	})
	if err != nil {
		t.Fatalf("RecommendFromQuiz() error = %v", err)
	}
	if res.Status != recommend.StatusNothingMatched || len(res.Items) != 0 {
		t.Errorf("RecommendFromQuiz() = %s with %v, want nothing_matched", res.Status, ids(res.Items))
	}
}

func TestService_QuizMatches(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, recommend.DefaultConfig())
	loadItems(t, svc, wideItems())

	res, err := svc.RecommendFromQuiz(context.Background(), recommend.QuizRequest{
		Answers: recommend.QuizAnswers{
			recommend.QuestionStyle:  {"formal"},
			recommend.QuestionColour: {"neutral"},
		},
		Exclude: []string{"7"},
	})
	if err != nil {
		t.Fatalf("RecommendFromQuiz() error = %v", err)
	}
	if res.Status != recommend.StatusOK || len(res.Items) == 0 {
		t.Fatalf("RecommendFromQuiz() = %s with %v", res.Status, ids(res.Items))
	}
	if res.Items[0].Item.ID != "4" {
		t.Errorf("top quiz item = %s, want 4 (formal and white)", res.Items[0].Item.ID)
	}
	if indexOf(res.Items, "7") >= 0 {
		t.Error("excluded item returned")
	}
}

func TestService_Status(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, recommend.DefaultConfig())
	loadItems(t, svc, wideItems())

	st := svc.Status()
	if !st.Ready || st.CatalogSize != len(wideItems()) || st.CatalogVersion != 1 || st.CatalogSource != "test" {
		t.Errorf("Status() = %+v", st)
	}
	want := []string{"personal=vector", "quiz=quiz", "similar=item"}
	if len(st.Strategies) != len(want) {
		t.Fatalf("Strategies = %v, want %v", st.Strategies, want)
	}
	for i := range want {
		if st.Strategies[i] != want[i] {
			t.Errorf("Strategies[%d] = %s, want %s", i, st.Strategies[i], want[i])
		}
	}
	if st.LastLoadedAt.IsZero() || st.LastLoadedAt.After(time.Now()) {
		t.Errorf("LastLoadedAt = %v", st.LastLoadedAt)
	}
}

func TestService_MissingStrategy(t *testing.T) {
	t.Parallel()

	svc, err := recommend.NewService(nil, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	loadItems(t, svc, scenarioItems())

	if _, err := svc.Recommend(context.Background(), recommend.Request{Signals: recommend.UserSignals{Liked: []string{"1"}}}); err == nil {
		t.Error("Recommend() without a registered strategy should fail")
	}
}

func TestNewService_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := recommend.DefaultConfig()
	cfg.Strategy = "neural"
	if _, err := recommend.NewService(cfg, nil, zerolog.Nop()); err == nil {
		t.Error("NewService() with invalid config should fail")
	}
}
