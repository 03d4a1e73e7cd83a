package services

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// breakerOracle stops hammering a failing oracle backend. An open breaker
// fails calls immediately, which the batch scorer treats like any other
// upstream failure: retries, then heuristic degradation.
type breakerOracle struct {
	inner Oracle
	cb    *gobreaker.CircuitBreaker[string]
}

func NewBreakerOracle(inner Oracle) Oracle {
	settings := gobreaker.Settings{
		Name:        inner.Provider() + "-oracle",
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip on 5 consecutive failures or a >60% failure rate.
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures >= 5 ||
				(counts.Requests >= 10 && failureRatio > 0.6)
		},
	}

	return &breakerOracle{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[string](settings),
	}
}

func (b *breakerOracle) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.inner.Invoke(ctx, systemPrompt, userPrompt)
	})
}

func (b *breakerOracle) Provider() string {
	return b.inner.Provider()
}
