// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package recommend

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is a seedable random source safe for concurrent use.
// Jitter and cold-start shuffles draw from it so tests can fix the seed.
type Rand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRand creates a source. A zero seed derives one from the clock.
func NewRand(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Rand{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // jitter and shuffles, not security
	}
}

// Uniform returns a value in [0, upper). A non-positive bound yields 0.
func (r *Rand) Uniform(upper float64) float64 {
	if upper <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() * upper
}

// Shuffle pseudo-randomizes the order of n elements.
func (r *Rand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(n, swap)
}

// NormFloat64 returns a standard normally distributed value.
func (r *Rand) NormFloat64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.NormFloat64()
}
