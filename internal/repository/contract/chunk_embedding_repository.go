package contract

import (
	"context"

	"ai-docqa-be/internal/model"
)

// ScoredChunkEmbedding wraps ChunkEmbedding with its similarity score
type ScoredChunkEmbedding struct {
	Embedding  *model.ChunkEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ChunkEmbeddingRepository interface {
	// UpsertBulk writes records keyed by their deterministic ids; existing
	// ids are overwritten. On a partial failure the returned error names
	// the ids of the records that could not be written.
	UpsertBulk(ctx context.Context, embeddings []*model.ChunkEmbedding) error

	// SearchSimilarWithScore returns up to limit records ordered by
	// descending cosine similarity to the query vector, ties broken by id.
	// Read-only; fewer matches than limit is not an error.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredChunkEmbedding, error)

	Count(ctx context.Context) (int64, error)
}
