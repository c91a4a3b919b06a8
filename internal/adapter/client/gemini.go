package client

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"agri-advisor/internal/domain/entity"
)

// GeminiClient is the completion collaborator backed by a Gemini model.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// Backend settings for NewGenAIClient. An API key selects the Gemini API;
// otherwise Vertex AI is used with project and location.
type GenAIConfig struct {
	APIKey   string
	Project  string
	Location string
}

func NewGenAIClient(ctx context.Context, cfg GenAIConfig) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	}
	if cfg.APIKey != "" {
		cc = &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to init genai client: %w", err)
	}
	return client, nil
}

func NewGeminiClientFromClient(c *genai.Client, model string) *GeminiClient {
	return &GeminiClient{
		client: c,
		model:  model,
	}
}

// Complete asks the model for an answer of at most maxTokens output tokens.
// A non-positive maxTokens leaves the model default in place.
func (g *GeminiClient) Complete(ctx context.Context, prompt string, maxTokens int) (*entity.Completion, error) {
	cfg := &genai.GenerateContentConfig{}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", g.model, err)
	}

	content := strings.TrimSpace(result.Text())
	if content == "" {
		return nil, entity.ErrEmptyCompletion
	}

	completion := &entity.Completion{Content: content, Model: g.model}
	if result.UsageMetadata != nil {
		completion.TokenCount = int(result.UsageMetadata.TotalTokenCount)
	}
	return completion, nil
}
