package docchat

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/corvidae/docchat/vector"
)

func LoggingMiddleware(log *zap.Logger) ServiceMiddleware {
	log = log.With(
		zap.String("service", "docchat"),
	)

	return func(next Service) Service {
		log.Info("service initialized")

		return &loggingMiddleware{
			log:  log,
			next: next,
		}
	}
}

type loggingMiddleware struct {
	log  *zap.Logger
	next Service
}

func (mw *loggingMiddleware) Close() error {
	log := mw.log.With(
		zap.String("action", "close"),
	)

	err := mw.next.Close()
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("service closed")
	return nil
}

func (mw *loggingMiddleware) Ask(ctx context.Context, question string, topK ...int) (string, error) {
	log := mw.log.With(
		zap.String("action", "ask"),
		zap.String("request_id", uuid.NewString()),
	)

	if len(topK) > 0 {
		log = log.With(
			zap.Int("top_k", topK[0]),
		)
	}

	answer, err := mw.next.Ask(ctx, question, topK...)
	if err != nil {
		log.Error(err.Error())
		return "", err
	}

	log.Info("question answered", zap.Int("answer_len", len(answer)))
	return answer, nil
}

func (mw *loggingMiddleware) Retrieve(ctx context.Context, query string, topK ...int) ([]vector.Result, error) {
	log := mw.log.With(
		zap.String("action", "retrieve"),
		zap.String("request_id", uuid.NewString()),
	)

	if len(topK) > 0 {
		log = log.With(
			zap.Int("top_k", topK[0]),
		)
	}

	results, err := mw.next.Retrieve(ctx, query, topK...)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("chunks retrieved", zap.Int("count", len(results)))
	return results, nil
}

func (mw *loggingMiddleware) Reset(ctx context.Context) error {
	log := mw.log.With(
		zap.String("action", "reset"),
	)

	err := mw.next.Reset(ctx)
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("vector store rebuilt")
	return nil
}
