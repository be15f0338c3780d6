package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const indexVersion = 1

var nowFunc = time.Now

// Index records the blobs held by a DirStore, keyed by blob id. It is
// persisted as index.json next to the blobs.
type Index struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// Entry describes one stored blob.
type Entry struct {
	Key       string    `json:"key"`
	Blob      string    `json:"blob"`
	Paths     []string  `json:"paths"`
	SizeBytes int64     `json:"size_bytes,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
}

func newIndex() *Index {
	return &Index{Version: indexVersion, Entries: map[string]Entry{}}
}

func loadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newIndex(), nil
		}
		return nil, fmt.Errorf("read cache index: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode cache index: %w", err)
	}
	if idx.Entries == nil {
		idx.Entries = map[string]Entry{}
	}
	if idx.Version == 0 {
		idx.Version = indexVersion
	}
	return &idx, nil
}

// saveIndex writes the index atomically via a temp file rename.
func saveIndex(path string, idx *Index) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure cache dir: %w", err)
	}

	if idx == nil {
		idx = newIndex()
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache index: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp cache index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace cache index: %w", err)
	}
	return nil
}
