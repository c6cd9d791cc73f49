// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const snapshotExt = ".gob.gz"

// SnapshotMetadata describes a stored descriptor snapshot.
type SnapshotMetadata struct {
	// Name is the snapshot family, usually the descriptor provider name.
	Name string `json:"name"`

	// Version increases monotonically per name.
	Version int `json:"version"`

	// Dimension is the descriptor length.
	Dimension int `json:"dimension"`

	// ItemCount is the number of stored descriptors.
	ItemCount int `json:"item_count"`

	// SavedAt is when the snapshot was written.
	SavedAt time.Time `json:"saved_at"`

	// Checksum is the SHA-256 of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`
}

// DescriptorSnapshot is the persisted set of visual descriptors.
type DescriptorSnapshot struct {
	Provider  string
	Dimension int
	Vectors   map[string][]float64

	// Fingerprints holds the attribute hash each vector was computed from.
	Fingerprints map[string]uint64
}

// SnapshotStore keeps versioned, checksummed snapshots on disk as
// gzip-compressed gob files named {name}_v{version}.gob.gz.
type SnapshotStore struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per name
	versions map[string]int
}

// NewSnapshotStore creates a store at the given directory.
func NewSnapshotStore(baseDir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for snapshot storage
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	s := &SnapshotStore{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan existing snapshots: %w", err)
	}
	return s, nil
}

// scan records the latest version of every snapshot in the directory.
func (s *SnapshotStore) scan() error {
	versions, err := s.listVersions()
	if err != nil {
		return err
	}
	for name, vs := range versions {
		s.versions[name] = vs[0]
	}
	return nil
}

// listVersions returns every stored version per name, newest first.
func (s *SnapshotStore) listVersions() (map[string][]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), snapshotExt) {
			continue
		}
		name, version := parseSnapshotFilename(strings.TrimSuffix(entry.Name(), snapshotExt))
		if name == "" {
			continue
		}
		out[name] = append(out[name], version)
	}
	for name := range out {
		sort.Sort(sort.Reverse(sort.IntSlice(out[name])))
	}
	return out, nil
}

// parseSnapshotFilename splits "hash_v3" into ("hash", 3).
func parseSnapshotFilename(base string) (name string, version int) {
	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0
	}
	if _, err := fmt.Sscanf(base[idx+2:], "%d", &version); err != nil || version <= 0 {
		return "", 0
	}
	return base[:idx], version
}

// storedFile is the on-disk format.
type storedFile struct {
	Metadata       SnapshotMetadata
	CompressedData []byte
}

// Save writes data as the next version of name and returns its metadata.
func (s *SnapshotStore) Save(ctx context.Context, name string, data *DescriptorSnapshot) (*SnapshotMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	raw := buf.Bytes()
	hash := sha256.Sum256(raw)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	meta := SnapshotMetadata{
		Name:      name,
		Version:   s.versions[name] + 1,
		Dimension: data.Dimension,
		ItemCount: len(data.Vectors),
		SavedAt:   time.Now(),
		Checksum:  hex.EncodeToString(hash[:]),
		SizeBytes: int64(compressed.Len()),
	}

	// Write to a temp file and rename so readers never see a partial file.
	final := s.path(name, meta.Version)
	tmp := final + ".tmp"
	f, err := os.Create(tmp) //nolint:gosec // path is built from a trusted name
	if err != nil {
		return nil, fmt.Errorf("create snapshot file: %w", err)
	}
	encErr := gob.NewEncoder(f).Encode(storedFile{Metadata: meta, CompressedData: compressed.Bytes()})
	closeErr := f.Close()
	if encErr != nil || closeErr != nil {
		_ = os.Remove(tmp) //nolint:errcheck // best-effort cleanup
		if encErr == nil {
			encErr = closeErr
		}
		return nil, fmt.Errorf("write snapshot file: %w", encErr)
	}
	if err := os.Rename(tmp, final); err != nil {
		return nil, fmt.Errorf("publish snapshot file: %w", err)
	}

	s.versions[name] = meta.Version
	return &meta, nil
}

// Load reads a snapshot. Version 0 loads the latest. ErrNotFound is
// returned when nothing is stored under name.
func (s *SnapshotStore) Load(ctx context.Context, name string, version int) (*DescriptorSnapshot, *SnapshotMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		if version, ok = s.versions[name]; !ok {
			return nil, nil, fmt.Errorf("snapshot %s: %w", name, ErrNotFound)
		}
	}

	f, err := os.Open(s.path(name, version)) //nolint:gosec // path is built from a trusted name
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("snapshot %s v%d: %w", name, version, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, nil, fmt.Errorf("read snapshot file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	var snap DescriptorSnapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, &sf.Metadata, nil
}

// LatestVersion returns the newest stored version of name.
func (s *SnapshotStore) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.versions[name]
	return v, ok
}

// Prune deletes all but the newest keep versions of name.
func (s *SnapshotStore) Prune(ctx context.Context, name string, keep int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if keep < 1 {
		keep = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.listVersions()
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	for _, v := range versions[name][min(keep, len(versions[name])):] {
		if err := os.Remove(s.path(name, v)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove snapshot v%d: %w", v, err)
		}
	}
	return nil
}

func (s *SnapshotStore) path(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, snapshotExt))
}
