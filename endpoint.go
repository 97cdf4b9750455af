package docchat

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"
)

type EndpointSet struct {
	Ask      endpoint.Endpoint
	Retrieve endpoint.Endpoint
	Reset    endpoint.Endpoint
}

type AskRequest struct {
	Question string `json:"question" form:"question"`
	TopK     int    `json:"top_k,omitempty" form:"top_k"`
}

func AskEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(AskRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		return svc.Ask(ctx, req.Question, req.TopK)
	}
}

type RetrieveRequest struct {
	Query string `json:"query" form:"query"`
	TopK  int    `json:"top_k,omitempty" form:"top_k"`
}

func RetrieveEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(RetrieveRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		return svc.Retrieve(ctx, req.Query, req.TopK)
	}
}

func ResetEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		err := svc.Reset(ctx)
		return nil, err
	}
}
