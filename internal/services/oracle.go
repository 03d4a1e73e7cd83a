package services

import (
	"context"
	"errors"
)

// Oracle is the external scoring model. It is an opaque call with variable
// latency that may return malformed or non-JSON output; callers own parsing
// and validation.
type Oracle interface {
	Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Provider() string
}

var (
	ErrMissingAPIKey = errors.New("oracle API key is required")
	ErrEmptyResponse = errors.New("oracle returned an empty response")

	// ErrMalformedResponse marks oracle output that failed structural
	// validation. It is treated exactly like an oracle failure so the batch
	// degrades instead of surfacing parse noise to the caller.
	ErrMalformedResponse = errors.New("oracle response failed validation")
)

// ValidationError is malformed or out-of-range caller input. It is surfaced
// immediately and never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
