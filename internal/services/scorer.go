package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"talentrank/candidate-ranker/internal/config"
	"talentrank/candidate-ranker/internal/metrics"
	"talentrank/candidate-ranker/internal/models"
)

// BatchScorer scores candidates against a job description in fixed-size
// groups. Groups are independent: a group whose oracle calls are exhausted
// degrades to heuristic scores and never aborts its siblings.
type BatchScorer interface {
	Score(ctx context.Context, jobDescription string, candidates []models.Candidate) []models.ScoredCandidate
}

type batchScorer struct {
	oracle  Oracle
	retryer *Retryer
	prompts *PromptBuilder
	cfg     config.ScoringConfig
}

func NewBatchScorer(oracle Oracle, retryer *Retryer, cfg config.ScoringConfig) BatchScorer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 3
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 15 * time.Second
	}

	return &batchScorer{
		oracle:  oracle,
		retryer: retryer,
		prompts: NewPromptBuilder(),
		cfg:     cfg,
	}
}

// Score implements BatchScorer. Group submission is sequential with a short
// inter-batch delay by default, or parallel fan-out when configured; the
// orchestrator's score-only sort makes the two policies indistinguishable in
// output.
func (s *batchScorer) Score(ctx context.Context, jobDescription string, candidates []models.Candidate) []models.ScoredCandidate {
	if len(candidates) == 0 {
		return nil
	}

	groups := partition(candidates, s.cfg.BatchSize)

	slog.Info("scoring candidates",
		"candidates", len(candidates),
		"groups", len(groups),
		"batch_size", s.cfg.BatchSize,
		"parallel", s.cfg.ParallelBatches)

	results := make([][]models.ScoredCandidate, len(groups))

	if s.cfg.ParallelBatches {
		var wg sync.WaitGroup
		for i, group := range groups {
			wg.Add(1)
			go func(i int, group []models.Candidate) {
				defer wg.Done()
				results[i] = s.scoreGroup(ctx, jobDescription, group)
			}(i, group)
		}
		wg.Wait()
	} else {
		for i, group := range groups {
			results[i] = s.scoreGroup(ctx, jobDescription, group)

			if i < len(groups)-1 && s.cfg.InterBatchDelay > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(s.cfg.InterBatchDelay):
				}
			}
		}
	}

	var merged []models.ScoredCandidate
	for _, r := range results {
		merged = append(merged, r...)
	}

	metrics.RecordCandidatesScored(len(merged))
	return merged
}

// scoreGroup runs one group through retry + per-call timeout, degrading to
// the heuristic when the oracle path fails. The timeout context also covers
// backoff sleeps, so a firing deadline aborts the retry loop immediately and
// any in-flight completion is discarded with it.
func (s *batchScorer) scoreGroup(ctx context.Context, jobDescription string, group []models.Candidate) []models.ScoredCandidate {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	userPrompt := s.prompts.BuildBatchPrompt(jobDescription, group)

	var scored []models.ScoredCandidate
	err := s.retryer.Do(callCtx, func(ctx context.Context) error {
		raw, err := s.oracle.Invoke(ctx, s.prompts.SystemPrompt(), userPrompt)
		if err != nil {
			return err
		}

		parsed, err := parseOracleResponse(raw)
		if err != nil {
			return err
		}

		scored = mapResults(parsed, group)
		return nil
	})
	if err != nil {
		slog.Warn("group scoring failed, degrading to heuristic",
			"group_size", len(group),
			"error", err)
		metrics.RecordBatchDegraded()

		scored = make([]models.ScoredCandidate, 0, len(group))
		for _, c := range group {
			scored = append(scored, HeuristicScore(jobDescription, c))
		}
	}

	return scored
}

type oracleResponse struct {
	Candidates []oracleResult `json:"candidates"`
}

type oracleResult struct {
	ID         string   `json:"id"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights"`
}

// parseOracleResponse decodes and structurally validates raw oracle output.
// Anything that fails comes back as ErrMalformedResponse, which retries and
// then degrades exactly like an oracle transport failure.
func parseOracleResponse(raw string) ([]oracleResult, error) {
	clean := stripCodeFences(raw)

	var resp oracleResponse
	if err := json.Unmarshal([]byte(clean), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	for _, r := range resp.Candidates {
		if r.Score < 0 || r.Score > 100 {
			return nil, fmt.Errorf("%w: score %.1f for id %q out of range", ErrMalformedResponse, r.Score, r.ID)
		}
	}

	return resp.Candidates, nil
}

// mapResults joins oracle results back to their input candidates by id.
// Results naming ids absent from the input group are dropped silently.
func mapResults(results []oracleResult, group []models.Candidate) []models.ScoredCandidate {
	byID := make(map[string]models.Candidate, len(group))
	for _, c := range group {
		byID[c.ID] = c
	}

	scored := make([]models.ScoredCandidate, 0, len(results))
	for _, r := range results {
		original, ok := byID[r.ID]
		if !ok {
			slog.Debug("dropping oracle result for unknown candidate id", "id", r.ID)
			continue
		}

		scored = append(scored, models.ScoredCandidate{
			Candidate:  original,
			Score:      r.Score,
			Highlights: r.Highlights,
		})
	}

	return scored
}

// stripCodeFences removes a surrounding markdown code block if the model
// wrapped its JSON in one (a Gemini habit).
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func partition(candidates []models.Candidate, size int) [][]models.Candidate {
	var groups [][]models.Candidate
	for i := 0; i < len(candidates); i += size {
		end := i + size
		if end > len(candidates) {
			end = len(candidates)
		}
		groups = append(groups, candidates[i:end])
	}
	return groups
}
