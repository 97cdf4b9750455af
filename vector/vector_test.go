package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSelfSimilarity(t *testing.T) {
	v := []float32{0.3, -0.7, 1.2}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
}

func TestCosineSymmetry(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-2, 0.5, 4}
	assert.Equal(t, Cosine(a, b), Cosine(b, a))
}

func TestCosineZeroNorm(t *testing.T) {
	zero := []float32{0, 0, 0}
	v := []float32{1, 2, 3}

	assert.Equal(t, 0.0, Cosine(zero, v))
	assert.Equal(t, 0.0, Cosine(v, zero))
	assert.Equal(t, 0.0, Cosine(zero, zero))
}

func TestCosineOrthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.InDelta(t, 0.0, Cosine(a, b), 1e-9)
}

func TestEntryValid(t *testing.T) {
	valid := Entry{Chunks: []string{"a"}, Embeddings: [][]float32{{1}}}
	assert.True(t, valid.Valid())

	invalid := Entry{Chunks: []string{"a", "b"}, Embeddings: [][]float32{{1}}}
	assert.False(t, invalid.Valid())
}
