// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stylematch/internal/cache"
	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/metrics"
)

// Reasons attached by the service itself.
const (
	ReasonPopular = "Popular item"
)

// snapshot is the immutable catalog and feature state served to requests.
// A load swaps it atomically, so requests never see a partial catalog.
type snapshot struct {
	catalog  *catalog.Catalog
	features *FeatureIndex
	version  int
	loadedAt time.Time
}

// Service coordinates feature state, strategies and selectors and produces
// final recommendation lists. It is safe for concurrent use.
type Service struct {
	config    *Config
	logger    zerolog.Logger
	extractor *FeatureExtractor
	prefs     *PreferenceBuilder

	// Registered strategies and selectors
	strategies map[Kind]ScoringStrategy
	selectors  map[Kind]Reranker
	rerankers  []Reranker
	regMu      sync.RWMutex

	// Response cache; nil disables caching
	cache cache.Cacher[[]ScoredCandidate]

	state atomic.Pointer[snapshot]

	// Load state
	loadMu           sync.Mutex
	loading          atomic.Bool
	statusMu         sync.RWMutex
	lastLoadDuration time.Duration
	lastError        string
}

// NewService creates a recommendation service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(cfg *Config, extractor *FeatureExtractor, logger zerolog.Logger) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if extractor == nil {
		extractor = NewFeatureExtractor(cfg.Features, nil, logger)
	}

	return &Service{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		extractor:  extractor,
		prefs:      NewPreferenceBuilder(cfg.Preference, logger),
		strategies: make(map[Kind]ScoringStrategy),
		selectors:  make(map[Kind]Reranker),
	}, nil
}

// SetCache installs the response cache. Passing nil disables caching.
func (s *Service) SetCache(c cache.Cacher[[]ScoredCandidate]) {
	s.regMu.Lock()
	defer s.regMu.Unlock()
	s.cache = c
}

// RegisterStrategy sets the scoring strategy for a request kind.
func (s *Service) RegisterStrategy(kind Kind, strategy ScoringStrategy) {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	s.strategies[kind] = strategy
	s.logger.Info().
		Str("kind", string(kind)).
		Str("strategy", strategy.Name()).
		Msg("registered strategy")
}

// RegisterSelector sets the list assembly step for a request kind.
func (s *Service) RegisterSelector(kind Kind, selector Reranker) {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	s.selectors[kind] = selector
	s.logger.Info().
		Str("kind", string(kind)).
		Str("selector", selector.Name()).
		Msg("registered selector")
}

// RegisterReranker adds a post-selection reranker applied to scored lists.
func (s *Service) RegisterReranker(rr Reranker) {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	s.rerankers = append(s.rerankers, rr)
	s.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

// Load builds feature vectors for a catalog and swaps it in. The previous
// catalog keeps serving until the new one is ready, and stays active if
// the build fails.
func (s *Service) Load(ctx context.Context, cat *catalog.Catalog) error {
	if !s.loadMu.TryLock() {
		return ErrLoadInProgress
	}
	defer s.loadMu.Unlock()

	s.loading.Store(true)
	defer s.loading.Store(false)

	start := time.Now()
	err := s.load(ctx, cat)

	s.statusMu.Lock()
	s.lastLoadDuration = time.Since(start)
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.statusMu.Unlock()

	return err
}

func (s *Service) load(ctx context.Context, cat *catalog.Catalog) error {
	if cat.Len() == 0 {
		return catalog.ErrEmptyCatalog
	}

	loadCtx, cancel := context.WithTimeout(ctx, s.config.Limits.LoadTimeout)
	defer cancel()

	s.logger.Info().
		Int("items", cat.Len()).
		Str("source", cat.Source()).
		Msg("loading catalog")

	features, err := s.extractor.Build(loadCtx, cat.Items())
	if err != nil {
		return fmt.Errorf("build features: %w", err)
	}

	version := 1
	if prev := s.state.Load(); prev != nil {
		version = prev.version + 1
	}
	s.state.Store(&snapshot{
		catalog:  cat,
		features: features,
		version:  version,
		loadedAt: time.Now(),
	})

	s.prefs.Reset()
	if c := s.getCache(); c != nil {
		c.Purge(ctx)
	}

	s.logger.Info().
		Int("version", version).
		Int("items", cat.Len()).
		Int("dimension", features.Dim()).
		Msg("catalog active")

	return nil
}

// Ready reports whether a catalog has been loaded.
func (s *Service) Ready() bool {
	return s.state.Load() != nil
}

// Catalog returns the active catalog, or nil before the first load.
func (s *Service) Catalog() *catalog.Catalog {
	if st := s.state.Load(); st != nil {
		return st.catalog
	}
	return nil
}

// Status returns the current load state.
func (s *Service) Status() ServiceStatus {
	s.statusMu.RLock()
	status := ServiceStatus{
		Loading:            s.loading.Load(),
		LastLoadDurationMS: s.lastLoadDuration.Milliseconds(),
		LastError:          s.lastError,
	}
	s.statusMu.RUnlock()

	if st := s.state.Load(); st != nil {
		status.Ready = true
		status.CatalogSize = st.catalog.Len()
		status.CatalogSource = st.catalog.Source()
		status.FeatureDimension = st.features.Dim()
		status.MissingVisuals = st.features.MissingVisuals()
		status.CatalogVersion = st.version
		status.LastLoadedAt = st.loadedAt
	}

	s.regMu.RLock()
	for kind, strategy := range s.strategies {
		status.Strategies = append(status.Strategies, string(kind)+"="+strategy.Name())
	}
	s.regMu.RUnlock()
	sort.Strings(status.Strategies)

	return status
}

// Recommend produces a personalized list for a user. Users without a
// usable positive signal receive the cold-start list with StatusNoSignal.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Service) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	req.TopK = s.clampK(req.TopK)

	logger := s.requestLogger(req.RequestID, KindPersonal).With().Str("user_id", req.UserID).Logger()
	logger.Debug().Msg("processing recommendation request")

	st := s.state.Load()
	if st == nil {
		return s.finish(s.newResult(req.RequestID, KindPersonal, "", StatusNotReady, nil, 0, nil, start)), nil
	}

	strategy, err := s.strategyFor(KindPersonal)
	if err != nil {
		return nil, err
	}

	resolved := s.resolve(st, req.Signals, logger)
	exclude := req.Signals.ExclusionSet()

	key := personalCacheKey(st.version, strategy.Name(), req.TopK, resolved)
	if items, ok := s.cacheGet(ctx, key); ok {
		logger.Debug().Msg("cache hit")
		res := s.newResult(req.RequestID, KindPersonal, strategy.Name(), StatusOK, items, 0, st, start)
		res.Metadata.CacheHit = true
		return s.finish(res), nil
	}

	profile := s.prefs.ProfileFor(req.UserID, resolved, st.features)
	if !profile.HasSignal {
		logger.Debug().Msg("no usable signal, serving defaults")
		items := s.defaults(ctx, st, exclude, req.TopK)
		return s.finish(s.newResult(req.RequestID, KindPersonal, "defaults", StatusNoSignal, items, len(items), st, start)), nil
	}

	candidates := s.candidates(st, exclude, profile)
	query := &ScoringQuery{
		Profile:  profile,
		Liked:    resolved.Liked,
		Features: st.features,
	}

	items, err := s.score(ctx, KindPersonal, strategy, query, candidates, req.TopK)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	status := StatusOK
	if len(items) == 0 {
		status = StatusNothingMatched
	} else {
		s.cacheSet(ctx, key, items)
	}

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(items)).
		Msg("recommendation complete")

	return s.finish(s.newResult(req.RequestID, KindPersonal, strategy.Name(), status, items, len(candidates), st, start)), nil
}

// RecommendFromQuiz scores the catalog against quiz answers only.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Service) RecommendFromQuiz(ctx context.Context, req QuizRequest) (*Result, error) {
	start := time.Now()
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	req.TopK = s.clampK(req.TopK)

	st := s.state.Load()
	if st == nil {
		return s.finish(s.newResult(req.RequestID, KindQuiz, "", StatusNotReady, nil, 0, nil, start)), nil
	}

	strategy, err := s.strategyFor(KindQuiz)
	if err != nil {
		return nil, err
	}

	exclude := make(map[string]struct{}, len(req.Exclude))
	for _, id := range req.Exclude {
		exclude[id] = struct{}{}
	}
	candidates := s.candidates(st, exclude, nil)

	items, err := s.score(ctx, KindQuiz, strategy, &ScoringQuery{Quiz: req.Answers, Features: st.features}, candidates, req.TopK)
	if err != nil {
		return nil, fmt.Errorf("score quiz candidates: %w", err)
	}

	status := StatusOK
	if len(items) == 0 {
		status = StatusNothingMatched
	}
	return s.finish(s.newResult(req.RequestID, KindQuiz, strategy.Name(), status, items, len(candidates), st, start)), nil
}

// Similar returns items that resemble or complete the given item. An
// unknown item id yields ErrInvalidReference.
func (s *Service) Similar(ctx context.Context, itemID string, topK int) (*Result, error) {
	start := time.Now()
	requestID := uuid.NewString()
	topK = s.clampK(topK)

	st := s.state.Load()
	if st == nil {
		return s.finish(s.newResult(requestID, KindSimilar, "", StatusNotReady, nil, 0, nil, start)), nil
	}

	anchor, ok := st.catalog.Get(itemID)
	if !ok {
		return nil, fmt.Errorf("item %q: %w", itemID, ErrInvalidReference)
	}

	strategy, err := s.strategyFor(KindSimilar)
	if err != nil {
		return nil, err
	}

	key := "similar:v" + strconv.Itoa(st.version) + ":" + strategy.Name() + ":k=" + strconv.Itoa(topK) + ":" + itemID
	if items, ok := s.cacheGet(ctx, key); ok {
		res := s.newResult(requestID, KindSimilar, strategy.Name(), StatusOK, items, 0, st, start)
		res.Metadata.CacheHit = true
		return s.finish(res), nil
	}

	candidates := s.candidates(st, map[string]struct{}{itemID: {}}, nil)
	items, err := s.score(ctx, KindSimilar, strategy, &ScoringQuery{Anchor: &anchor, Features: st.features}, candidates, topK)
	if err != nil {
		return nil, fmt.Errorf("score similar items: %w", err)
	}

	status := StatusOK
	if len(items) == 0 {
		status = StatusNothingMatched
	} else {
		s.cacheSet(ctx, key, items)
	}
	return s.finish(s.newResult(requestID, KindSimilar, strategy.Name(), status, items, len(candidates), st, start)), nil
}

// Defaults returns the cold-start list, skipping excluded ids.
func (s *Service) Defaults(ctx context.Context, topK int, exclude []string) (*Result, error) {
	start := time.Now()
	requestID := uuid.NewString()
	topK = s.clampK(topK)

	st := s.state.Load()
	if st == nil {
		return s.finish(s.newResult(requestID, KindDefaults, "", StatusNotReady, nil, 0, nil, start)), nil
	}

	excludeSet := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		excludeSet[id] = struct{}{}
	}

	items := s.defaults(ctx, st, excludeSet, topK)
	status := StatusOK
	if len(items) == 0 {
		status = StatusNothingMatched
	}
	return s.finish(s.newResult(requestID, KindDefaults, "defaults", status, items, st.catalog.Len(), st, start)), nil
}

// Profile builds (or recalls) the preference profile for a user.
func (s *Service) Profile(_ context.Context, userID string, signals UserSignals) (*Profile, error) {
	st := s.state.Load()
	if st == nil {
		return nil, ErrNotReady
	}
	resolved := s.resolve(st, signals, s.logger)
	return s.prefs.ProfileFor(userID, resolved, st.features), nil
}

// defaults assembles the cold-start list through the defaults selector.
func (s *Service) defaults(ctx context.Context, st *snapshot, exclude map[string]struct{}, k int) []ScoredCandidate {
	all := st.catalog.Items()
	pool := make([]ScoredCandidate, 0, len(all))
	for i := range all {
		if _, skip := exclude[all[i].ID]; skip {
			continue
		}
		pool = append(pool, ScoredCandidate{Item: all[i], Score: 1.0, Reason: ReasonPopular})
	}

	if sel := s.selectorFor(KindDefaults); sel != nil {
		pool = sel.Rerank(ctx, pool, k)
	}
	if len(pool) > k {
		pool = pool[:k]
	}
	return pool
}

// score runs a strategy under the scoring timeout and assembles the final list.
func (s *Service) score(ctx context.Context, kind Kind, strategy ScoringStrategy, q *ScoringQuery, candidates []catalog.Item, k int) ([]ScoredCandidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	scoreCtx, cancel := context.WithTimeout(ctx, s.config.Limits.ScoringTimeout)
	defer cancel()

	scored, err := strategy.Score(scoreCtx, q, candidates)
	if err != nil {
		return nil, err
	}

	SortByScore(scored)
	if sel := s.selectorFor(kind); sel != nil {
		scored = sel.Rerank(ctx, scored, k)
	}
	for _, rr := range s.getRerankers() {
		scored = rr.Rerank(ctx, scored, k)
	}
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// candidates lists catalog items that are not excluded and, when a profile
// with a known gender is given, do not conflict with it.
func (s *Service) candidates(st *snapshot, exclude map[string]struct{}, profile *Profile) []catalog.Item {
	gender := ""
	if profile != nil && s.config.Selection.GenderFilter && profile.PreferredGender != catalog.Unknown {
		gender = profile.PreferredGender
	}

	all := st.catalog.Items()
	out := make([]catalog.Item, 0, len(all))
	for i := range all {
		if _, skip := exclude[all[i].ID]; skip {
			continue
		}
		if gender != "" && all[i].Gender != gender && all[i].Gender != catalog.UnisexGender {
			continue
		}
		out = append(out, all[i])
	}
	return out
}

// resolve maps signal ids to catalog items, dropping unknown ids.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (s *Service) resolve(st *snapshot, signals UserSignals, logger zerolog.Logger) ResolvedSignals {
	lookup := func(ids []string, dedupe bool) []catalog.Item {
		out := make([]catalog.Item, 0, len(ids))
		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if dedupe {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
			}
			item, ok := st.catalog.Get(id)
			if !ok {
				logger.Debug().Str("item_id", id).Err(ErrInvalidReference).Msg("ignoring signal for unknown item")
				continue
			}
			out = append(out, item)
		}
		return out
	}

	return ResolvedSignals{
		Liked:    lookup(signals.Liked, true),
		Disliked: lookup(signals.Disliked, true),
		Viewed:   lookup(signals.Viewed, false),
	}
}

// personalCacheKey is the sorted liked ids and sorted disliked ids joined
// by "-", namespaced by catalog version, strategy and k. Viewed ids are
// appended when present because they change the exclusion set. The
// version keeps lists scored against a replaced catalog from being served.
func personalCacheKey(version int, strategy string, k int, r ResolvedSignals) string {
	var sb strings.Builder
	sb.WriteString("personal:v")
	sb.WriteString(strconv.Itoa(version))
	sb.WriteByte(':')
	sb.WriteString(strategy)
	sb.WriteString(":k=")
	sb.WriteString(strconv.Itoa(k))
	sb.WriteByte(':')
	sb.WriteString(strings.Join(sortedIDs(r.Liked), ","))
	sb.WriteByte('-')
	sb.WriteString(strings.Join(sortedIDs(r.Disliked), ","))
	if len(r.Viewed) > 0 {
		sb.WriteByte('|')
		sb.WriteString(strings.Join(sortedIDs(r.Viewed), ","))
	}
	return sb.String()
}

func (s *Service) clampK(k int) int {
	if k <= 0 {
		k = s.config.Limits.DefaultK
	}
	if k > s.config.Limits.MaxK {
		k = s.config.Limits.MaxK
	}
	return k
}

func (s *Service) requestLogger(requestID string, kind Kind) zerolog.Logger {
	return s.logger.With().
		Str("request_id", requestID).
		Str("kind", string(kind)).
		Logger()
}

func (s *Service) strategyFor(kind Kind) (ScoringStrategy, error) {
	s.regMu.RLock()
	defer s.regMu.RUnlock()
	strategy, ok := s.strategies[kind]
	if !ok {
		return nil, fmt.Errorf("no strategy registered for %s requests", kind)
	}
	return strategy, nil
}

func (s *Service) selectorFor(kind Kind) Reranker {
	s.regMu.RLock()
	defer s.regMu.RUnlock()
	return s.selectors[kind]
}

func (s *Service) getRerankers() []Reranker {
	s.regMu.RLock()
	defer s.regMu.RUnlock()
	return s.rerankers
}

func (s *Service) getCache() cache.Cacher[[]ScoredCandidate] {
	s.regMu.RLock()
	defer s.regMu.RUnlock()
	if !s.config.Cache.Enabled {
		return nil
	}
	return s.cache
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]ScoredCandidate, bool) {
	c := s.getCache()
	if c == nil {
		return nil, false
	}
	items, ok := c.Get(ctx, key)
	metrics.RecordCacheLookup(ok)
	if !ok {
		return nil, false
	}
	out := make([]ScoredCandidate, len(items))
	copy(out, items)
	return out, true
}

func (s *Service) cacheSet(ctx context.Context, key string, items []ScoredCandidate) {
	c := s.getCache()
	if c == nil {
		return
	}
	stored := make([]ScoredCandidate, len(items))
	copy(stored, items)
	c.Set(ctx, key, stored)
}

func (s *Service) newResult(requestID string, kind Kind, strategy string, status Status, items []ScoredCandidate, total int, st *snapshot, start time.Time) *Result {
	if items == nil {
		items = []ScoredCandidate{}
	}
	res := &Result{
		Status: status,
		Items:  items,
		Metadata: ResultMetadata{
			RequestID:       requestID,
			Kind:            kind,
			Strategy:        strategy,
			TotalCandidates: total,
			LatencyMS:       time.Since(start).Milliseconds(),
			Timestamp:       time.Now(),
		},
	}
	if st != nil {
		res.Metadata.CatalogVersion = st.version
	}
	return res
}

func (s *Service) finish(res *Result) *Result {
	metrics.RecordRecommendation(string(res.Metadata.Kind), res.Metadata.Strategy, string(res.Status),
		time.Duration(res.Metadata.LatencyMS)*time.Millisecond)
	return res
}

// SortByScore orders candidates by descending score. Equal scores keep
// their input order.
func SortByScore(items []ScoredCandidate) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}
