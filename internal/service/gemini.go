package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"neptune/internal/config"
)

// GeminiClient generates summaries with Google Gemini
type GeminiClient struct {
	modelName string
	client    *genai.Client
}

// NewGeminiClient connects to Gemini. An empty API key yields ErrServiceUnavailable.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is not configured", ErrServiceUnavailable)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	return &GeminiClient{
		modelName: modelName,
		client:    client,
	}, nil
}

// Name implements TextGenerator
func (g *GeminiClient) Name() string {
	return "gemini"
}

// Generate implements TextGenerator
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no response from Gemini API", ErrServiceUnavailable)
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: unexpected response format from Gemini API", ErrServiceUnavailable)
	}
	return text, nil
}

// Close releases the underlying client
func (g *GeminiClient) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
