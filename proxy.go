package docchat

import (
	"context"
	"errors"

	"github.com/corvidae/docchat/vector"
)

// ProxyMiddleware builds a Service whose methods go through a remote
// endpoint set instead of a local implementation.
func ProxyMiddleware(endpoints *EndpointSet) ServiceMiddleware {
	return func(next Service) Service {
		return &proxyMiddleware{
			endpoints: endpoints,
		}
	}
}

type proxyMiddleware struct {
	endpoints *EndpointSet
}

func (mw *proxyMiddleware) Close() error {
	return errors.New("method not implemented")
}

func (mw *proxyMiddleware) Ask(ctx context.Context, question string, topK ...int) (string, error) {
	k := 0
	if len(topK) > 0 {
		k = topK[0]
	}

	req := AskRequest{
		Question: question,
		TopK:     k,
	}

	resp, err := mw.endpoints.Ask(ctx, req)
	if err != nil {
		return "", err
	}

	answer, ok := resp.(string)
	if !ok {
		return "", errors.New("invalid response type")
	}

	return answer, nil
}

func (mw *proxyMiddleware) Retrieve(ctx context.Context, query string, topK ...int) ([]vector.Result, error) {
	k := 0
	if len(topK) > 0 {
		k = topK[0]
	}

	req := RetrieveRequest{
		Query: query,
		TopK:  k,
	}

	resp, err := mw.endpoints.Retrieve(ctx, req)
	if err != nil {
		return nil, err
	}

	results, ok := resp.([]vector.Result)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return results, nil
}

func (mw *proxyMiddleware) Reset(ctx context.Context) error {
	_, err := mw.endpoints.Reset(ctx, nil)
	return err
}
