// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package recommend

import (
	"sync"
	"testing"
)

func TestRand_SeededIsDeterministic(t *testing.T) {
	t.Parallel()

	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 10; i++ {
		if x, y := a.Uniform(1), b.Uniform(1); x != y {
			t.Fatalf("draw %d: %v != %v", i, x, y)
		}
	}

	permA := []int{0, 1, 2, 3, 4, 5}
	permB := []int{0, 1, 2, 3, 4, 5}
	a.Shuffle(len(permA), func(i, j int) { permA[i], permA[j] = permA[j], permA[i] })
	b.Shuffle(len(permB), func(i, j int) { permB[i], permB[j] = permB[j], permB[i] })
	for i := range permA {
		if permA[i] != permB[i] {
			t.Fatalf("shuffles differ: %v vs %v", permA, permB)
		}
	}
}

func TestRand_UniformBounds(t *testing.T) {
	t.Parallel()

	r := NewRand(7)
	for i := 0; i < 1000; i++ {
		if v := r.Uniform(2.5); v < 0 || v >= 2.5 {
			t.Fatalf("Uniform(2.5) = %v, out of [0, 2.5)", v)
		}
	}
	if v := r.Uniform(0); v != 0 {
		t.Errorf("Uniform(0) = %v, want 0", v)
	}
	if v := r.Uniform(-1); v != 0 {
		t.Errorf("Uniform(-1) = %v, want 0", v)
	}
}

func TestRand_ConcurrentUse(t *testing.T) {
	t.Parallel()

	r := NewRand(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.Uniform(1)
				_ = r.NormFloat64()
			}
		}()
	}
	wg.Wait()
}
