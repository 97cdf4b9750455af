// Package document provides text extraction and chunking for source
// documents. Both capabilities are pluggable; the vector store consumes
// them without knowing where the text came from.
package document

import "context"

// Extractor pulls raw text out of a source document on disk.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Chunker splits raw text into an ordered sequence of chunks suitable
// for embedding and retrieval.
type Chunker interface {
	Chunk(text string) []string
}
