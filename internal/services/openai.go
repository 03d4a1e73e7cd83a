package services

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"talentrank/candidate-ranker/internal/metrics"
)

type openAIOracle struct {
	client *openai.Client
	model  string
}

// NewOpenAIOracle builds the default oracle backend. The json_object response
// format pushes the model toward parseable output, but the scorer still
// validates everything it gets back.
func NewOpenAIOracle(apiKey, model string) (Oracle, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	return &openAIOracle{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

func (o *openAIOracle) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		metrics.RecordOracleCall(o.Provider(), "error")
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		metrics.RecordOracleCall(o.Provider(), "error")
		return "", ErrEmptyResponse
	}

	metrics.RecordOracleCall(o.Provider(), "ok")
	return resp.Choices[0].Message.Content, nil
}

func (o *openAIOracle) Provider() string {
	return "openai"
}
