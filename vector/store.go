package vector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/corvidae/docchat/document"
	"github.com/corvidae/docchat/embedding"
)

// Store drives the cache across a folder of source documents and
// answers top-k similarity queries.
type Store struct {
	cache     Cache
	embedder  embedding.Embedder
	extractor document.Extractor
	chunker   document.Chunker
	log       *zap.Logger
}

func NewStore(cache Cache, embedder embedding.Embedder, extractor document.Extractor, chunker document.Chunker) *Store {
	log := zap.L().With(
		zap.String("component", "vector_store"),
	)

	return &Store{
		cache:     cache,
		embedder:  embedder,
		extractor: extractor,
		chunker:   chunker,
		log:       log,
	}
}

// FetchOrCreate loads the entry for key, creating it from the fallback
// chunks on a miss. A freshly created entry is re-read from the cache
// rather than returned directly, so callers always see what the cache
// round-trip produced.
func (s *Store) FetchOrCreate(ctx context.Context, key string, chunks []string) (Entry, error) {
	entry, err := s.cache.Load(key)
	if err == nil {
		s.log.Debug("cache hit",
			zap.String("document", key),
			zap.Int("chunks", len(entry.Chunks)),
		)
		return entry, nil
	}

	if !errors.Is(err, ErrCacheMiss) {
		return Entry{}, err
	}

	if len(chunks) == 0 {
		return Entry{}, nil
	}

	if err := s.create(ctx, key, chunks); err != nil {
		return Entry{}, err
	}

	return s.cache.Load(key)
}

func (s *Store) create(ctx context.Context, key string, chunks []string) error {
	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed %s: %w", key, err)
	}

	entry := Entry{Chunks: chunks, Embeddings: vectors}
	if err := s.cache.Save(key, entry); err != nil {
		return fmt.Errorf("cache %s: %w", key, err)
	}

	s.log.Info("created cache entry",
		zap.String("document", key),
		zap.Int("chunks", len(chunks)),
	)

	return nil
}

// FetchAll builds the corpus pool for every eligible document in
// folder. Filenames are sorted so the pool order is deterministic
// across filesystems.
func (s *Store) FetchAll(ctx context.Context, folder string) (Pool, error) {
	names, err := listDocuments(folder)
	if err != nil {
		return Pool{}, err
	}

	var pool Pool

	for _, name := range names {
		chunks, err := s.extractChunks(ctx, folder, name)
		if err != nil {
			return Pool{}, err
		}

		entry, err := s.FetchOrCreate(ctx, name, chunks)
		if err != nil {
			return Pool{}, err
		}

		if len(entry.Chunks) == 0 {
			s.log.Warn("document yielded no chunks", zap.String("document", name))
			continue
		}

		pool.Chunks = append(pool.Chunks, entry.Chunks...)
		pool.Embeddings = append(pool.Embeddings, entry.Embeddings...)
		for range entry.Chunks {
			pool.Sources = append(pool.Sources, name)
		}
	}

	if pool.Len() == 0 {
		return Pool{}, ErrEmptyCorpus
	}

	s.log.Info("corpus pool built",
		zap.String("folder", folder),
		zap.Int("documents", len(names)),
		zap.Int("chunks", pool.Len()),
	)

	return pool, nil
}

// RetrieveTopK returns the k chunks most similar to query, most
// similar first. Ties are broken by original pool index so results are
// deterministic. k is clamped to the pool size; k <= 0 yields nothing.
func (s *Store) RetrieveTopK(ctx context.Context, pool Pool, query string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}

	if k > pool.Len() {
		k = pool.Len()
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	indices := make([]int, pool.Len())
	scores := make([]float64, pool.Len())
	for i, row := range pool.Embeddings {
		indices[i] = i
		scores[i] = Cosine(queryVec, row)
	}

	sort.SliceStable(indices, func(i, j int) bool {
		return scores[indices[i]] > scores[indices[j]]
	})

	results := make([]Result, 0, k)
	for _, idx := range indices[:k] {
		results = append(results, Result{
			Chunk:  pool.Chunks[idx],
			Source: pool.Sources[idx],
			Score:  scores[idx],
		})
	}

	return results, nil
}

// Reset clears the whole cache and rebuilds an entry for every
// eligible document, without any load attempt.
func (s *Store) Reset(ctx context.Context, folder string) error {
	names, err := listDocuments(folder)
	if err != nil {
		return err
	}

	if err := s.cache.Clear(); err != nil {
		return err
	}

	s.log.Info("cache cleared", zap.String("folder", folder))

	for _, name := range names {
		chunks, err := s.extractChunks(ctx, folder, name)
		if err != nil {
			return err
		}

		if len(chunks) == 0 {
			s.log.Warn("document yielded no chunks", zap.String("document", name))
			continue
		}

		if err := s.create(ctx, name, chunks); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) extractChunks(ctx context.Context, folder, name string) ([]string, error) {
	text, err := s.extractor.Extract(ctx, filepath.Join(folder, name))
	if err != nil {
		return nil, err
	}

	return s.chunker.Chunk(text), nil
}

func listDocuments(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read document folder: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}
