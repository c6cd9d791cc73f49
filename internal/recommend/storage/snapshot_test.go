// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/recommend"
)

func testSnapshot() *DescriptorSnapshot {
	return &DescriptorSnapshot{
		Provider:  "hash",
		Dimension: 3,
		Vectors: map[string][]float64{
			"1": {0.1, 0.2, 0.3},
			"2": {0.4, 0.5, 0.6},
		},
	}
}

func TestNewSnapshotStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{"creates directory if not exists", func(t *testing.T) string { return filepath.Join(t.TempDir(), "new_dir") }},
		{"uses existing directory", func(t *testing.T) string { return t.TempDir() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store, err := NewSnapshotStore(tt.setup(t))
			if err != nil || store == nil {
				t.Fatalf("NewSnapshotStore() = %v, %v", store, err)
			}
		})
	}
}

func TestSnapshotStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSnapshotStore() error = %v", err)
	}
	ctx := context.Background()

	meta, err := store.Save(ctx, "hash", testSnapshot())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if meta.Version != 1 || meta.ItemCount != 2 || meta.Dimension != 3 || meta.Checksum == "" {
		t.Errorf("Save() metadata = %+v", meta)
	}

	got, loadedMeta, err := store.Load(ctx, "hash", 0)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, testSnapshot()) {
		t.Errorf("Load() = %+v, want %+v", got, testSnapshot())
	}
	if loadedMeta.Checksum != meta.Checksum {
		t.Errorf("checksum = %s, want %s", loadedMeta.Checksum, meta.Checksum)
	}
}

func TestSnapshotStore_Versions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewSnapshotStore(dir)
	if err != nil {
		t.Fatalf("NewSnapshotStore() error = %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := store.Save(ctx, "hash", testSnapshot()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	if v, ok := store.LatestVersion("hash"); !ok || v != 4 {
		t.Errorf("LatestVersion() = %d, %v, want 4, true", v, ok)
	}

	if err := store.Prune(ctx, "hash", 2); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if _, _, err := store.Load(ctx, "hash", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(v1) after prune error = %v, want ErrNotFound", err)
	}
	if _, _, err := store.Load(ctx, "hash", 3); err != nil {
		t.Errorf("Load(v3) after prune error = %v", err)
	}

	// A fresh store rediscovers the latest version on disk.
	reopened, err := NewSnapshotStore(dir)
	if err != nil {
		t.Fatalf("NewSnapshotStore() error = %v", err)
	}
	if v, ok := reopened.LatestVersion("hash"); !ok || v != 4 {
		t.Errorf("reopened LatestVersion() = %d, %v, want 4, true", v, ok)
	}
}

func TestSnapshotStore_LoadMissing(t *testing.T) {
	t.Parallel()

	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSnapshotStore() error = %v", err)
	}
	if _, _, err := store.Load(context.Background(), "nothing", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestSnapshotStore_CorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewSnapshotStore(dir)
	if err != nil {
		t.Fatalf("NewSnapshotStore() error = %v", err)
	}
	if _, err := store.Save(context.Background(), "hash", testSnapshot()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "hash_v1.gob.gz"), []byte("garbage"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, _, err := store.Load(context.Background(), "hash", 1); err == nil {
		t.Error("Load() of a corrupt file should fail")
	}
}

func TestParseSnapshotFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in          string
		wantName    string
		wantVersion int
	}{
		{"hash_v1", "hash", 1},
		{"remote_http_v12", "remote_http", 12},
		{"hash", "", 0},
		{"_v3", "", 0},
		{"hash_vx", "", 0},
	}
	for _, tt := range tests {
		name, version := parseSnapshotFilename(tt.in)
		if name != tt.wantName || version != tt.wantVersion {
			t.Errorf("parseSnapshotFilename(%q) = %q, %d, want %q, %d", tt.in, name, version, tt.wantName, tt.wantVersion)
		}
	}
}

// countingProvider is a VisualDescriptorProvider that counts calls.
type countingProvider struct {
	calls atomic.Int64
	fail  map[string]bool
}

func (p *countingProvider) Name() string   { return "counting" }
func (p *countingProvider) Dimension() int { return 2 }
func (p *countingProvider) Describe(_ context.Context, item *catalog.Item) ([]float64, error) {
	p.calls.Add(1)
	if item == nil {
		return nil, recommend.ErrMissingData
	}
	if p.fail[item.ID] {
		return nil, errors.New("unavailable")
	}
	return []float64{1, float64(len(item.ID))}, nil
}

func TestCachingDescriptor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewSnapshotStore(dir)
	if err != nil {
		t.Fatalf("NewSnapshotStore() error = %v", err)
	}
	ctx := context.Background()

	inner := &countingProvider{fail: map[string]bool{"bad": true}}
	c := NewCachingDescriptor(inner, store, 2, zerolog.Nop())

	item := catalog.Item{ID: "42"}
	for i := 0; i < 3; i++ {
		if _, err := c.Describe(ctx, &item); err != nil {
			t.Fatalf("Describe() error = %v", err)
		}
	}
	if got := inner.calls.Load(); got != 1 {
		t.Errorf("inner called %d times, want 1", got)
	}

	bad := catalog.Item{ID: "bad"}
	for i := 0; i < 2; i++ {
		if _, err := c.Describe(ctx, &bad); err == nil {
			t.Fatal("Describe() of a failing item should fail")
		}
	}
	if got := inner.calls.Load(); got != 3 {
		t.Errorf("failures must not be cached: inner called %d times, want 3", got)
	}

	if err := c.Persist(ctx); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if err := c.Persist(ctx); err != nil {
		t.Fatalf("second Persist() error = %v", err)
	}
	if v, _ := store.LatestVersion("counting"); v != 1 {
		t.Errorf("unchanged cache wrote a new version: latest = %d", v)
	}

	restoredInner := &countingProvider{}
	restored := NewCachingDescriptor(restoredInner, store, 2, zerolog.Nop())
	if err := restored.Restore(ctx); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if restored.Len() != 1 {
		t.Errorf("restored Len() = %d, want 1", restored.Len())
	}
	if _, err := restored.Describe(ctx, &item); err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if got := restoredInner.calls.Load(); got != 0 {
		t.Errorf("restored descriptor recomputed: inner called %d times", got)
	}
}

func TestCachingDescriptor_NoStore(t *testing.T) {
	t.Parallel()

	c := NewCachingDescriptor(&countingProvider{}, nil, 1, zerolog.Nop())
	if err := c.Restore(context.Background()); err != nil {
		t.Errorf("Restore() error = %v", err)
	}
	if err := c.Persist(context.Background()); err != nil {
		t.Errorf("Persist() error = %v", err)
	}
	if c.Name() != "counting" || c.Dimension() != 2 {
		t.Errorf("Name/Dimension = %s/%d", c.Name(), c.Dimension())
	}
}

func TestCachingDescriptor_AttributeChangeRecomputes(t *testing.T) {
	t.Parallel()

	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSnapshotStore() error = %v", err)
	}
	ctx := context.Background()
	hash := recommend.NewHashDescriptor(8)
	c := NewCachingDescriptor(hash, store, 2, zerolog.Nop())

	black := catalog.Item{ID: "1", ArticleType: "Tshirts", BaseColour: "Black"}
	old, err := c.Describe(ctx, &black)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	red := black
	red.BaseColour = "Red"
	got, err := c.Describe(ctx, &red)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	want, _ := hash.Describe(ctx, &red)
	if !reflect.DeepEqual(got, want) {
		t.Error("descriptor not recomputed after the item's colour changed")
	}
	if reflect.DeepEqual(got, old) {
		t.Error("changed item returned the previous descriptor")
	}

	if err := c.Persist(ctx); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	// A restart keeps the fingerprint with each vector.
	snap, _, err := store.Load(ctx, "hash", 0)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.Fingerprints["1"] != itemFingerprint(&red) {
		t.Errorf("snapshot fingerprint = %d, want %d", snap.Fingerprints["1"], itemFingerprint(&red))
	}

	restoredHash := NewCachingDescriptor(hash, store, 2, zerolog.Nop())
	if err := restoredHash.Restore(ctx); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	again, err := restoredHash.Describe(ctx, &black)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if !reflect.DeepEqual(again, old) {
		t.Error("restored cache served the red descriptor for the black item")
	}
}

func TestCachingDescriptor_NilItem(t *testing.T) {
	t.Parallel()

	c := NewCachingDescriptor(recommend.NewHashDescriptor(4), nil, 1, zerolog.Nop())
	if _, err := c.Describe(context.Background(), nil); !errors.Is(err, recommend.ErrMissingData) {
		t.Errorf("Describe(nil) error = %v, want ErrMissingData", err)
	}
}
