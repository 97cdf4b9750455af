package docchat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/corvidae/docchat/persistence/gobcache"
	"github.com/corvidae/docchat/vector"
)

// stubEmbedder returns canned vectors per text and counts batch calls.
type stubEmbedder struct {
	vectors    map[string][]float32
	batchCalls int
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v, ok := e.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no stub vector for %q", text)
	}
	return v, nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.batchCalls++

	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// stubExtractor maps filenames to canned text.
type stubExtractor struct {
	texts map[string]string
}

func (e *stubExtractor) Extract(ctx context.Context, path string) (string, error) {
	text, ok := e.texts[filepath.Base(path)]
	if !ok {
		return "", fmt.Errorf("no stub text for %s", path)
	}
	return text, nil
}

// lineChunker splits on newlines; blank lines are dropped.
type lineChunker struct{}

func (lineChunker) Chunk(text string) []string {
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			chunks = append(chunks, line)
		}
	}
	return chunks
}

// stubGenerator records the last question/context pair it received.
type stubGenerator struct {
	lastQuestion string
	lastContext  string
	err          error
}

func (g *stubGenerator) Generate(ctx context.Context, question, contextBlock string) (string, error) {
	g.lastQuestion = question
	g.lastContext = contextBlock

	if g.err != nil {
		return "", g.err
	}

	return "answer grounded in: " + contextBlock, nil
}

type docChatTestSuite struct {
	suite.Suite
	ctx       context.Context
	svc       Service
	embedder  *stubEmbedder
	generator *stubGenerator
	folder    string
}

func (suite *docChatTestSuite) SetupTest() {
	ctx := context.Background()

	folder := suite.T().TempDir()
	for _, name := range []string{"a.pdf", "b.pdf"} {
		err := os.WriteFile(filepath.Join(folder, name), []byte("%PDF-1.4"), 0o644)
		suite.Require().NoError(err)
	}

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"alpha fact one": {1, 0, 0},
		"alpha fact two": {0, 1, 0},
		"beta fact one":  {0, 0, 1},
		"about alpha":    {0.1, 0.9, 0},
		"about beta":     {0, 0.1, 0.9},
	}}

	extractor := &stubExtractor{texts: map[string]string{
		"a.pdf": "alpha fact one\nalpha fact two",
		"b.pdf": "beta fact one",
	}}

	cache, err := gobcache.New(filepath.Join(suite.T().TempDir(), "cache"))
	suite.Require().NoError(err)

	store := vector.NewStore(cache, embedder, extractor, lineChunker{})
	generator := &stubGenerator{}

	cfg := Config{Documents: folder, TopK: DefaultTopK}

	svc, err := NewService(ctx, cfg, store, generator)
	suite.Require().NoError(err)

	suite.ctx = ctx
	suite.svc = svc
	suite.embedder = embedder
	suite.generator = generator
	suite.folder = folder
}

func (suite *docChatTestSuite) TestAsk() {
	answer, err := suite.svc.Ask(suite.ctx, "about alpha", 1)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Equal("answer grounded in: alpha fact two", answer)
	suite.Equal("about alpha", suite.generator.lastQuestion)
	suite.Equal("alpha fact two", suite.generator.lastContext)
}

func (suite *docChatTestSuite) TestAskJoinsChunksWithBlankLine() {
	_, err := suite.svc.Ask(suite.ctx, "about alpha", 2)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Contains(suite.generator.lastContext, "\n\n")
	suite.Len(strings.Split(suite.generator.lastContext, "\n\n"), 2)
}

func (suite *docChatTestSuite) TestAskEmptyQuestion() {
	_, err := suite.svc.Ask(suite.ctx, "   ")
	suite.ErrorIs(err, ErrEmptyQuestion)
}

func (suite *docChatTestSuite) TestAskPropagatesGeneratorError() {
	suite.generator.err = errors.New("upstream down")

	_, err := suite.svc.Ask(suite.ctx, "about alpha")
	suite.ErrorContains(err, "upstream down")
}

func (suite *docChatTestSuite) TestRetrieve() {
	results, err := suite.svc.Retrieve(suite.ctx, "about beta", 2)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Len(results, 2)
	suite.Equal("beta fact one", results[0].Chunk)
	suite.Equal("b.pdf", results[0].Source)
}

func (suite *docChatTestSuite) TestConstructionEmbedsEachDocumentOnce() {
	// SetupTest built the pool from an empty cache: one batch per document
	suite.Equal(2, suite.embedder.batchCalls)
}

func (suite *docChatTestSuite) TestReset() {
	callsBefore := suite.embedder.batchCalls

	if err := suite.svc.Reset(suite.ctx); err != nil {
		suite.Fail(err.Error())
		return
	}

	// rebuild re-embeds both documents, then the pool refresh hits cache
	suite.Equal(callsBefore+2, suite.embedder.batchCalls)

	results, err := suite.svc.Retrieve(suite.ctx, "about alpha", 1)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Equal("alpha fact two", results[0].Chunk)
}

func TestDocChatTestSuite(t *testing.T) {
	suite.Run(t, new(docChatTestSuite))
}

func TestNewServiceInvalidFolder(t *testing.T) {
	ctx := context.Background()

	cfg := Config{Documents: filepath.Join(t.TempDir(), "missing")}

	_, err := NewService(ctx, cfg, nil, nil)
	if !errors.Is(err, ErrInvalidDocumentFolder) {
		t.Fatalf("expected ErrInvalidDocumentFolder, got %v", err)
	}
}

func TestNewServiceEmptyCorpus(t *testing.T) {
	ctx := context.Background()

	cache, err := gobcache.New(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	store := vector.NewStore(cache, &stubEmbedder{}, &stubExtractor{}, lineChunker{})

	cfg := Config{Documents: t.TempDir()}

	_, err = NewService(ctx, cfg, store, &stubGenerator{})
	if !errors.Is(err, vector.ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
}
