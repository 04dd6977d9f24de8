package search

import (
	"context"
	"errors"
	"testing"

	"ai-docqa-be/internal/model"
	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/internal/repository/memory"
	"ai-docqa-be/pkg/apperror"
	"ai-docqa-be/pkg/chunker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo *memory.ChunkEmbeddingRepository, doc string, offset int, text string, vec []float32) {
	t.Helper()
	rec := model.NewChunkEmbedding(chunker.Chunk{DocumentID: doc, Offset: offset, Text: text}, vec)
	require.NoError(t, repo.UpsertBulk(context.Background(), []*model.ChunkEmbedding{rec}))
}

func TestRetrieveOrdersByDescendingSimilarity(t *testing.T) {
	repo := memory.NewChunkEmbeddingRepository()
	seed(t, repo, "far.txt", 0, "far", []float32{0, 1, 0})
	seed(t, repo, "close.txt", 0, "close", []float32{0.9, 0.1, 0})
	seed(t, repo, "closest.txt", 0, "closest", []float32{1, 0, 0})

	r := NewRetriever(repo, logger.Noop{})
	chunks, err := r.Retrieve(context.Background(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "closest.txt", chunks[0].DocumentID)
	assert.Equal(t, "close.txt", chunks[1].DocumentID)
	assert.Equal(t, "far.txt", chunks[2].DocumentID)
	for i := 1; i < len(chunks); i++ {
		assert.GreaterOrEqual(t, chunks[i-1].Similarity, chunks[i].Similarity)
	}
}

func TestRetrieveRespectsK(t *testing.T) {
	repo := memory.NewChunkEmbeddingRepository()
	for i := 0; i < 5; i++ {
		seed(t, repo, "doc.txt", i*100, "text", []float32{1, float32(i) / 10, 0})
	}

	r := NewRetriever(repo, logger.Noop{})
	chunks, err := r.Retrieve(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestRetrieveFewerRecordsThanKIsNotAnError(t *testing.T) {
	repo := memory.NewChunkEmbeddingRepository()
	seed(t, repo, "only.txt", 0, "only", []float32{1, 0, 0})

	r := NewRetriever(repo, logger.Noop{})
	chunks, err := r.Retrieve(context.Background(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestRetrieveEmptyIndexReturnsEmptyResult(t *testing.T) {
	r := NewRetriever(memory.NewChunkEmbeddingRepository(), logger.Noop{})
	chunks, err := r.Retrieve(context.Background(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRetrieveIsStableAcrossCalls(t *testing.T) {
	repo := memory.NewChunkEmbeddingRepository()
	// Two records equidistant from the query; ordering must not flip.
	seed(t, repo, "a.txt", 0, "a", []float32{1, 0, 0})
	seed(t, repo, "b.txt", 0, "b", []float32{1, 0, 0})

	r := NewRetriever(repo, logger.Noop{})
	first, err := r.Retrieve(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := r.Retrieve(context.Background(), []float32{1, 0, 0}, 2)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRetrieveRepositoryFailureIsIndexError(t *testing.T) {
	repo := memory.NewChunkEmbeddingRepository()
	repo.FailWith = apperror.New(apperror.KindIndex, "connection refused")

	r := NewRetriever(repo, logger.Noop{})
	_, err := r.Retrieve(context.Background(), []float32{1, 0, 0}, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrIndex))
}
