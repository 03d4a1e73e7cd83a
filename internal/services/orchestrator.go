package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"unicode/utf8"

	"talentrank/candidate-ranker/internal/cache"
	"talentrank/candidate-ranker/internal/config"
	"talentrank/candidate-ranker/internal/models"
)

const (
	minJobDescriptionLen = 10
	maxJobDescriptionLen = 200
)

// Orchestrator is the top-level scoring entry point: validate, consult the
// cache, load candidates, batch-score, rank, truncate, cache.
type Orchestrator interface {
	ScoreCandidates(ctx context.Context, jobDescription string) ([]models.ScoredCandidate, error)
}

type orchestrator struct {
	scorer BatchScorer
	source CandidateSource
	cache  *cache.TieredCache
	cfg    config.ScoringConfig
}

func NewOrchestrator(scorer BatchScorer, source CandidateSource, tiered *cache.TieredCache, cfg config.ScoringConfig) Orchestrator {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 50
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 30
	}

	return &orchestrator{
		scorer: scorer,
		source: source,
		cache:  tiered,
		cfg:    cfg,
	}
}

func (o *orchestrator) ScoreCandidates(ctx context.Context, jobDescription string) ([]models.ScoredCandidate, error) {
	if n := utf8.RuneCountInString(jobDescription); n < minJobDescriptionLen || n > maxJobDescriptionLen {
		return nil, &ValidationError{
			Message: fmt.Sprintf("jobDescription must be between %d and %d characters, got %d",
				minJobDescriptionLen, maxJobDescriptionLen, n),
		}
	}

	candidates := o.source.LoadCandidates(ctx)
	if len(candidates) == 0 {
		slog.Info("no candidates from any source, using embedded example set")
		candidates = ExampleCandidates()
	}

	// The key binds the job description to the exact candidate identity set,
	// so an upload that changes the pool also changes the key.
	key := cache.CompositeKey(
		cache.Fingerprint(jobDescription),
		cache.FingerprintIDs(candidateIDs(candidates)),
	)

	if data, ok := o.cache.Get(key); ok {
		var cached []models.ScoredCandidate
		if err := json.Unmarshal(data, &cached); err == nil {
			slog.Info("cache hit", "key", key, "results", len(cached))
			return cached, nil
		}
		slog.Warn("discarding undecodable cache entry", "key", key)
	}

	if len(candidates) > o.cfg.MaxCandidates {
		slog.Info("capping candidate set",
			"total", len(candidates),
			"cap", o.cfg.MaxCandidates)
		candidates = candidates[:o.cfg.MaxCandidates]
	}

	results := o.scorer.Score(ctx, jobDescription, candidates)

	// Stable sort: equal scores keep input order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > o.cfg.MaxResults {
		results = results[:o.cfg.MaxResults]
	}

	if data, err := json.Marshal(results); err == nil {
		if err := o.cache.Set(key, data, o.cfg.ResultTTL); err != nil {
			slog.Warn("result cached in memory tier only", "key", key, "error", err)
		}
	}

	return results, nil
}

func candidateIDs(candidates []models.Candidate) []string {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	return ids
}
