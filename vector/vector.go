// Package vector holds the embedding cache and top-k retrieval core.
package vector

import (
	"errors"
	"math"
)

var (
	ErrCacheMiss    = errors.New("no cache entry for document")
	ErrCorruptEntry = errors.New("corrupt cache entry")
	ErrEmptyCorpus  = errors.New("no eligible documents in folder")
)

// Entry is the persisted unit for one source document: its ordered
// chunks paired positionally with their embedding rows.
type Entry struct {
	Chunks     []string
	Embeddings [][]float32
}

// Valid reports whether the chunk/embedding-count invariant holds.
func (e Entry) Valid() bool {
	return len(e.Chunks) == len(e.Embeddings)
}

// Cache persists entries keyed by document filename. Implementations
// own the on-disk representation exclusively.
type Cache interface {
	// Save overwrites any existing entry for the key.
	Save(key string, entry Entry) error

	// Load returns exactly what was saved. It fails with ErrCacheMiss
	// when no entry exists and ErrCorruptEntry when the persisted data
	// cannot be decoded or violates the count invariant.
	Load(key string) (Entry, error)

	// Clear irreversibly deletes every persisted entry and leaves the
	// cache ready for new saves.
	Clear() error
}

// Pool is the in-memory aggregate of all documents' chunks and
// embeddings for one retrieval session. Sources[i] names the document
// that produced Chunks[i].
type Pool struct {
	Chunks     []string
	Sources    []string
	Embeddings [][]float32
}

func (p Pool) Len() int { return len(p.Chunks) }

// Result is a retrieved chunk with its similarity score.
type Result struct {
	Chunk  string  `json:"chunk"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// Cosine returns the cosine similarity of a and b. It is 0 (not NaN)
// when either vector has zero norm.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
