package embedding

import (
	"context"

	"ai-docqa-be/pkg/apperror"
)

// Client wraps an EmbeddingProvider with the dimension contract of the
// configured index: every vector leaving the client has exactly Dimension
// components, or the call fails before the vector reaches the index.
type Client struct {
	provider  EmbeddingProvider
	dimension int
}

func NewClient(provider EmbeddingProvider, dimension int) *Client {
	return &Client{provider: provider, dimension: dimension}
}

func (c *Client) Dimension() int {
	return c.dimension
}

// Embed maps one text to a vector. Provider failures surface as embedding
// errors; a vector whose length disagrees with the configured dimension is
// a dimension mismatch, which callers treat as systemic.
func (c *Client) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	vec, err := c.provider.Generate(ctx, text, taskType)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindEmbedding, err, "embedding request failed")
	}
	if len(vec) != c.dimension {
		return nil, apperror.New(apperror.KindDimensionMismatch,
			"provider returned %d dimensions, index expects %d", len(vec), c.dimension)
	}
	return vec, nil
}

// EmbedBatch embeds texts in order and returns one vector per input. The
// first failure aborts the batch; partial results are never returned.
func (c *Client) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := c.Embed(ctx, text, taskType)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}
