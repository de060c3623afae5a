package generation

import (
	"context"
	"log/slog"

	"github.com/siherrmann/medgraph/helper"
	"google.golang.org/genai"
)

// GeminiGenerator generates text with the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGeminiGenerator creates a Gemini generator. baseURL is optional.
func NewGeminiGenerator(ctx context.Context, apiKey string, model string, baseURL string, logger *slog.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, helper.NewError("gemini configuration", ErrMissingCredentials)
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, helper.NewError("gemini client", err)
	}

	logger.Info("Initialized Gemini generator", slog.String("model", model))

	return &GeminiGenerator{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Generate implements Generator
func (g *GeminiGenerator) Generate(ctx context.Context, request Request) (string, error) {
	g.logger.Debug("Generating text via Gemini", slog.String("model", g.model))

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(request.Query),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(request.SystemPrompt, genai.RoleUser),
			Temperature:       genai.Ptr(request.Temperature),
			MaxOutputTokens:   request.MaxOutputTokens,
		},
	)
	if err != nil {
		return "", helper.NewError("gemini generate content", err)
	}

	return resp.Text(), nil
}
