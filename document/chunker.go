package document

import "strings"

const (
	DefaultChunkWords   = 200
	DefaultOverlapWords = 20
)

// WordChunker splits text into fixed-size word windows with overlap.
type WordChunker struct {
	wordsPerChunk int
	overlapWords  int
}

func NewWordChunker(wordsPerChunk, overlapWords int) *WordChunker {
	if wordsPerChunk <= 0 {
		wordsPerChunk = DefaultChunkWords
	}
	if overlapWords < 0 {
		overlapWords = 0
	}
	if overlapWords >= wordsPerChunk {
		overlapWords = wordsPerChunk - 1
	}
	return &WordChunker{
		wordsPerChunk: wordsPerChunk,
		overlapWords:  overlapWords,
	}
}

func (c *WordChunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string

	i := 0
	for i < len(words) {
		end := i + c.wordsPerChunk
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, strings.Join(words[i:end], " "))

		if end == len(words) {
			break
		}

		i = end - c.overlapWords
	}

	return chunks
}
