// Package gobcache persists per-document cache entries as gob files,
// one file per source document.
package gobcache

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/corvidae/docchat/vector"
)

const fileExt = ".gob"

// Cache stores one gob-encoded vector.Entry per document under dir.
// The key is the document's full filename, so distinct documents never
// collide on disk.
type Cache struct {
	dir string
}

func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	return &Cache{dir: dir}, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+fileExt)
}

func (c *Cache) Save(key string, entry vector.Entry) error {
	f, err := os.Create(c.path(key))
	if err != nil {
		return fmt.Errorf("create cache entry for %s: %w", key, err)
	}

	if err := gob.NewEncoder(f).Encode(&entry); err != nil {
		f.Close()
		return fmt.Errorf("encode cache entry for %s: %w", key, err)
	}

	return f.Close()
}

func (c *Cache) Load(key string) (vector.Entry, error) {
	f, err := os.Open(c.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return vector.Entry{}, fmt.Errorf("%w: %s", vector.ErrCacheMiss, key)
		}
		return vector.Entry{}, err
	}
	defer f.Close()

	var entry vector.Entry
	if err := gob.NewDecoder(f).Decode(&entry); err != nil {
		return vector.Entry{}, fmt.Errorf("%w: %s: %v", vector.ErrCorruptEntry, key, err)
	}

	if !entry.Valid() {
		return vector.Entry{}, fmt.Errorf("%w: %s: %d chunks, %d embeddings",
			vector.ErrCorruptEntry, key, len(entry.Chunks), len(entry.Embeddings))
	}

	return entry, nil
}

func (c *Cache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("clear cache directory: %w", err)
	}

	return os.MkdirAll(c.dir, 0o755)
}
