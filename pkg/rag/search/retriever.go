package search

import (
	"context"

	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/internal/repository/contract"
	"ai-docqa-be/pkg/apperror"
)

// RetrievedChunk is one passage returned by similarity search, carrying the
// provenance the answer stage cites.
type RetrievedChunk struct {
	DocumentID string
	Content    string
	Similarity float64
}

// Retriever answers top-k similarity queries against the vector index.
type Retriever struct {
	repo contract.ChunkEmbeddingRepository
	log  logger.ILogger
}

func NewRetriever(repo contract.ChunkEmbeddingRepository, log logger.ILogger) *Retriever {
	return &Retriever{repo: repo, log: log}
}

// Retrieve returns up to k chunks ordered by descending cosine similarity to
// queryVector. An empty index yields an empty slice, not an error; the
// zero-result policy is the caller's concern.
func (r *Retriever) Retrieve(ctx context.Context, queryVector []float32, k int) ([]RetrievedChunk, error) {
	scored, err := r.repo.SearchSimilarWithScore(ctx, queryVector, k)
	if err != nil {
		if apperror.KindOf(err) != "" {
			return nil, err
		}
		return nil, apperror.Wrap(apperror.KindIndex, err, "similarity search failed")
	}

	chunks := make([]RetrievedChunk, 0, len(scored))
	for _, s := range scored {
		chunks = append(chunks, RetrievedChunk{
			DocumentID: s.Embedding.DocumentId,
			Content:    s.Embedding.Content,
			Similarity: s.Similarity,
		})
	}

	r.log.Debug("retriever", "similarity search complete", map[string]interface{}{
		"requested": k,
		"returned":  len(chunks),
	})
	return chunks, nil
}
