package client

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultEmbeddingDim matches text-embedding-004.
const DefaultEmbeddingDim = 768

type Embedder struct {
	client *genai.Client
	model  string
}

func NewEmbedderFromClient(c *genai.Client, model string) *Embedder {
	return &Embedder{
		client: c,
		model:  model,
	}
}

func (e *Embedder) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	res, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embedding with %s: %w", e.model, err)
	}
	if res == nil || len(res.Embeddings) == 0 || len(res.Embeddings[0].Values) == 0 {
		return nil, errors.New("no embeddings returned")
	}
	return res.Embeddings[0].Values, nil
}
