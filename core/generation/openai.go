package generation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
	"github.com/siherrmann/medgraph/helper"
)

// OpenAIGenerator generates text with an OpenAI compatible chat completion API
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIGenerator creates an OpenAI generator. baseURL is optional.
func NewOpenAIGenerator(apiKey string, model string, baseURL string, logger *slog.Logger) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, helper.NewError("openai configuration", ErrMissingCredentials)
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	logger.Info("Initialized OpenAI generator", slog.String("model", model))

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger,
	}, nil
}

// Generate implements Generator
func (o *OpenAIGenerator) Generate(ctx context.Context, request Request) (string, error) {
	o.logger.Debug("Generating text via OpenAI", slog.String("model", o.model))

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: request.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: request.Query},
		},
		Temperature:         request.Temperature,
		MaxCompletionTokens: int(request.MaxOutputTokens),
	})
	if err != nil {
		return "", helper.NewError("openai chat completion", err)
	}

	if len(resp.Choices) == 0 {
		return "", helper.NewError("openai chat completion", fmt.Errorf("no choices returned"))
	}

	return resp.Choices[0].Message.Content, nil
}
