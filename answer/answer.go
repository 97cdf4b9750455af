// Package answer delegates grounded question answering to a hosted
// language-model API.
package answer

import (
	"context"
	"errors"
)

var (
	// ErrRequestFailed marks network-level failures reaching the service.
	ErrRequestFailed = errors.New("answer service unreachable")

	// ErrBadStatus marks non-2xx responses from the service.
	ErrBadStatus = errors.New("answer service returned an error status")

	// ErrMalformedResponse marks payloads that cannot be interpreted.
	ErrMalformedResponse = errors.New("malformed answer service response")
)

// Generator produces an answer to a question grounded in the supplied
// context block.
type Generator interface {
	Generate(ctx context.Context, question, context string) (string, error)
}
