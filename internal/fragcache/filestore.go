package fragcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"speechsplit/internal/segmentation"
)

const fragmentsSuffix = ".fragments.json"

// FileStore keeps one JSON file per fingerprint under a cache directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created
// lazily on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) entryPath(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+fragmentsSuffix)
}

// Load reads the entry for fingerprint. A missing file is a miss; an
// unreadable or malformed file is an error.
func (s *FileStore) Load(_ context.Context, fingerprint string) ([]segmentation.Chunk, bool, error) {
	data, err := os.ReadFile(s.entryPath(fingerprint))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	var chunks []segmentation.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, false, fmt.Errorf("parse cache entry %s: %w", fingerprint, err)
	}
	return chunks, true, nil
}

// Save writes the entry atomically via a temp file and rename so a crashed
// write never leaves a readable half-entry behind.
func (s *FileStore) Save(_ context.Context, fingerprint string, chunks []segmentation.Chunk) error {
	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	path := s.entryPath(fingerprint)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// List returns stored fingerprints in sorted order.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache directory: %w", err)
	}

	var fingerprints []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fragmentsSuffix) {
			continue
		}
		fingerprints = append(fingerprints, strings.TrimSuffix(name, fragmentsSuffix))
	}
	sort.Strings(fingerprints)
	return fingerprints, nil
}

// Clear deletes every cache entry file. Other files in the directory are
// left alone.
func (s *FileStore) Clear(ctx context.Context) error {
	fingerprints, err := s.List(ctx)
	if err != nil {
		return err
	}
	for _, fingerprint := range fingerprints {
		if err := os.Remove(s.entryPath(fingerprint)); err != nil {
			return fmt.Errorf("remove cache entry %s: %w", fingerprint, err)
		}
	}
	return nil
}
