// Package embedding maps text to fixed-dimensional vectors through an
// external embedding model.
package embedding

import "context"

// Embedder converts text into numeric vectors. All vectors produced by
// one embedder share the same dimensionality.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
