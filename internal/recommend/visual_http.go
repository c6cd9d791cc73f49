// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/metrics"
)

// HTTPDescriptorConfig configures the remote descriptor client.
type HTTPDescriptorConfig struct {
	// BaseURL is the descriptor service root; items are fetched from
	// <BaseURL>/<id>.
	BaseURL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Dimension is the expected descriptor length.
	Dimension int

	// Timeout bounds each HTTP call.
	Timeout time.Duration

	// RequestsPerSecond and Burst bound the call rate.
	RequestsPerSecond float64
	Burst             int
}

// HTTPDescriptor fetches visual descriptors from a remote embedding service.
// Calls pass through a rate limiter and a circuit breaker so a failing
// service degrades items to zero visual vectors instead of stalling loads.
//
// The breaker uses real time for its interval and timeout. Tests exercise
// it with an httptest server rather than by mocking time.
type HTTPDescriptor struct {
	baseURL    string
	apiKey     string
	dim        int
	httpClient *http.Client
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[]float64]
	name       string
	logger     zerolog.Logger
}

// NewHTTPDescriptor creates a remote descriptor client.
//
// Circuit breaker configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPDescriptor(cfg HTTPDescriptorConfig, logger zerolog.Logger) (*HTTPDescriptor, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("visual descriptor base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid visual descriptor base url: %w", err)
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = DefaultVisualDimension
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	cbName := "visual-descriptor"
	log := logger.With().Str("component", "visual_http").Logger()

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]float64](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				log.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening circuit")
				return true
			}
			return false
		},
		// an item the service has no image for is not a service fault
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMissingData)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})

	return &HTTPDescriptor{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		dim:        cfg.Dimension,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, cfg.Burst),
		cb:         cb,
		name:       cbName,
		logger:     log,
	}, nil
}

// Name returns the provider identifier.
func (h *HTTPDescriptor) Name() string { return "http" }

// Dimension returns the descriptor length.
func (h *HTTPDescriptor) Dimension() int { return h.dim }

// Describe fetches the descriptor for an item.
func (h *HTTPDescriptor) Describe(ctx context.Context, item *catalog.Item) ([]float64, error) {
	if item == nil || item.ID == "" {
		return nil, ErrMissingData
	}

	if err := h.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("visual descriptor rate limit wait: %w", err)
	}

	vec, err := h.cb.Execute(func() ([]float64, error) {
		return h.fetch(ctx, item.ID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(h.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %w", ErrComputeUnavailable, err)
		}
		if !errors.Is(err, ErrMissingData) {
			metrics.CircuitBreakerRequests.WithLabelValues(h.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(h.name, "success").Inc()
	return vec, nil
}

func (h *HTTPDescriptor) fetch(ctx context.Context, id string) ([]float64, error) {
	reqURL := h.baseURL + "/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create descriptor request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrComputeUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("descriptor for item %s: %w", id, ErrMissingData)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: descriptor service returned status %d: %s",
			ErrComputeUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var vec []float64
	if err := json.NewDecoder(resp.Body).Decode(&vec); err != nil {
		return nil, fmt.Errorf("decode descriptor for item %s: %w", id, err)
	}
	if len(vec) != h.dim {
		return nil, fmt.Errorf("descriptor for item %s has %d values, want %d: %w", id, len(vec), h.dim, ErrMissingData)
	}
	return vec, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

var _ VisualDescriptorProvider = (*HTTPDescriptor)(nil)
