package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Sternrassler/swapi-reader/pkg/swapi"
)

// FileStore keeps snapshots as {dir}/{collection}.json.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache: data directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cache: resolve data dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create data dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("cache: stat data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cache: data dir is not a directory: %s", abs)
	}
	return &FileStore{dir: abs}, nil
}

// Dir returns the absolute data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the snapshot file of name.
func (s *FileStore) Path(name swapi.Name) string {
	return filepath.Join(s.dir, SnapshotKey{Collection: name}.FileName())
}

// Backend implements Store.
func (s *FileStore) Backend() string {
	return "file"
}

// Lookup implements Store.
func (s *FileStore) Lookup(_ context.Context, name swapi.Name) (Snapshot, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Absent(), nil
		}
		CacheErrors.WithLabelValues("get").Inc()
		return Snapshot{}, fmt.Errorf("cache: read %s: %w", s.Path(name), err)
	}

	snap, err := decodeSnapshot(bytes.TrimSpace(data))
	if err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return Snapshot{}, fmt.Errorf("cache: %s: %w", s.Path(name), err)
	}
	return snap, nil
}

// Save implements Store. The snapshot is written to a temp file, synced and
// renamed over the target.
func (s *FileStore) Save(_ context.Context, name swapi.Name, records swapi.Collection) (int, error) {
	data, err := encodeSnapshot(records)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return 0, err
	}

	target := s.Path(name)
	tmp, err := os.CreateTemp(s.dir, ".swapi-tmp-*")
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return 0, fmt.Errorf("cache: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
			CacheErrors.WithLabelValues("set").Inc()
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return 0, fmt.Errorf("cache: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("cache: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("cache: close temp: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return 0, fmt.Errorf("cache: rename: %w", err)
	}
	success = true
	return len(data), nil
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, name swapi.Name) error {
	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("cache: delete %s: %w", s.Path(name), err)
	}
	return nil
}
