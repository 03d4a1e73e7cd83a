package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"talentrank/candidate-ranker/internal/metrics"
)

type geminiOracle struct {
	client *genai.Client
	model  string
}

// NewGeminiOracle builds the alternate oracle backend. Gemini has no
// json_object switch, so the scorer's fence stripping and validation do the
// heavy lifting on this path.
func NewGeminiOracle(apiKey, model string) (Oracle, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiOracle{
		client: client,
		model:  model,
	}, nil
}

func (g *geminiOracle) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	temperature := float32(0.3)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	// Gemini takes a single prompt; fold the system instructions in front.
	prompt := systemPrompt + "\n\n" + userPrompt

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		metrics.RecordOracleCall(g.Provider(), "error")
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	if resp == nil {
		metrics.RecordOracleCall(g.Provider(), "error")
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		metrics.RecordOracleCall(g.Provider(), "error")
		return "", ErrEmptyResponse
	}

	metrics.RecordOracleCall(g.Provider(), "ok")
	return text, nil
}

func (g *geminiOracle) Provider() string {
	return "gemini"
}
