package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"ai-docqa-be/internal/model"
	"ai-docqa-be/internal/repository/contract"

	"github.com/google/uuid"
)

// ChunkEmbeddingRepository is an in-memory implementation of the repository
// contract. It lets the whole pipeline run and be tested without a database;
// cosine similarity is computed locally over the stored vectors.
type ChunkEmbeddingRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*model.ChunkEmbedding

	// FailWith, when set, is returned by every call. Used by tests to
	// simulate an unreachable index.
	FailWith error
}

func NewChunkEmbeddingRepository() *ChunkEmbeddingRepository {
	return &ChunkEmbeddingRepository{
		records: make(map[uuid.UUID]*model.ChunkEmbedding),
	}
}

var _ contract.ChunkEmbeddingRepository = &ChunkEmbeddingRepository{}

func (r *ChunkEmbeddingRepository) UpsertBulk(_ context.Context, embeddings []*model.ChunkEmbedding) error {
	if r.FailWith != nil {
		return r.FailWith
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range embeddings {
		cp := *e
		r.records[e.Id] = &cp
	}
	return nil
}

func (r *ChunkEmbeddingRepository) SearchSimilarWithScore(_ context.Context, embedding []float32, limit int) ([]*contract.ScoredChunkEmbedding, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	if limit <= 0 {
		limit = 5
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	scored := make([]*contract.ScoredChunkEmbedding, 0, len(r.records))
	for _, rec := range r.records {
		cp := *rec
		scored = append(scored, &contract.ScoredChunkEmbedding{
			Embedding:  &cp,
			Similarity: cosine(embedding, rec.EmbeddingValue.Slice()),
		})
	}

	// Descending similarity, id ascending on ties — same ordering contract
	// as the pgvector implementation.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].Embedding.Id.String() < scored[j].Embedding.Id.String()
	})

	if limit > len(scored) {
		limit = len(scored)
	}
	return scored[:limit], nil
}

func (r *ChunkEmbeddingRepository) Count(_ context.Context) (int64, error) {
	if r.FailWith != nil {
		return 0, r.FailWith
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.records)), nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
