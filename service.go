package docchat

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/corvidae/docchat/answer"
	"github.com/corvidae/docchat/vector"
)

// Service is the single entry point for answering questions grounded
// in the configured document corpus.
type Service interface {

	// Close releases resources held by the service.
	Close() error

	// Ask answers a question using the topK most relevant chunks.
	// topK defaults to the configured value when omitted.
	Ask(ctx context.Context, question string, topK ...int) (string, error)

	// Retrieve returns the topK chunks most relevant to the query,
	// most similar first, without calling the answer service.
	Retrieve(ctx context.Context, query string, topK ...int) ([]vector.Result, error)

	// Reset irreversibly clears the embedding cache, rebuilds it for
	// every document in the folder, and refreshes the corpus pool.
	Reset(ctx context.Context) error
}

type ServiceMiddleware func(Service) Service

// NewService validates the document folder and eagerly builds the
// corpus pool. Construction blocks while uncached documents are
// embedded; this happens once per service lifetime.
func NewService(ctx context.Context, cfg Config, store *vector.Store, generator answer.Generator) (Service, error) {
	log := zap.L().With(
		zap.String("service", "docchat"),
	)

	info, err := os.Stat(cfg.Documents)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocumentFolder, cfg.Documents)
	}

	pool, err := store.FetchAll(ctx, cfg.Documents)
	if err != nil {
		return nil, err
	}

	return &service{
		pool:      pool,
		store:     store,
		generator: generator,
		cfg:       cfg,
		log:       log,
	}, nil
}

type service struct {
	pool   vector.Pool
	poolMu sync.RWMutex

	store     *vector.Store
	generator answer.Generator

	cfg Config
	log *zap.Logger
}

func (svc *service) Close() error {
	return nil
}

func (svc *service) Ask(ctx context.Context, question string, topK ...int) (string, error) {
	results, err := svc.Retrieve(ctx, question, topK...)
	if err != nil {
		return "", err
	}

	chunks := make([]string, len(results))
	for i, r := range results {
		chunks[i] = r.Chunk
	}

	// Blank-line separator keeps chunk boundaries distinguishable
	// from in-chunk whitespace.
	contextBlock := strings.Join(chunks, "\n\n")

	return svc.generator.Generate(ctx, question, contextBlock)
}

func (svc *service) Retrieve(ctx context.Context, query string, topK ...int) ([]vector.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuestion
	}

	k := svc.cfg.TopK
	if len(topK) > 0 && topK[0] > 0 {
		k = topK[0]
	}

	svc.poolMu.RLock()
	pool := svc.pool
	svc.poolMu.RUnlock()

	return svc.store.RetrieveTopK(ctx, pool, query, k)
}

func (svc *service) Reset(ctx context.Context) error {
	if err := svc.store.Reset(ctx, svc.cfg.Documents); err != nil {
		return err
	}

	// Rebuild the pool from the fresh cache; every load is a hit.
	pool, err := svc.store.FetchAll(ctx, svc.cfg.Documents)
	if err != nil {
		return err
	}

	svc.poolMu.Lock()
	svc.pool = pool
	svc.poolMu.Unlock()

	return nil
}
