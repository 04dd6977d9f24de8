package embedding

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ai-docqa-be/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	vec []float32
	err error
}

func (s *stubProvider) Generate(context.Context, string, string) ([]float32, error) {
	return s.vec, s.err
}

func TestClientEmbedReturnsProviderVector(t *testing.T) {
	c := NewClient(&stubProvider{vec: []float32{1, 0, 0}}, 3)

	vec, err := c.Embed(context.Background(), "text", TaskDocument)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, vec)
}

func TestClientEmbedWrapsProviderFailure(t *testing.T) {
	c := NewClient(&stubProvider{err: fmt.Errorf("connection refused")}, 3)

	_, err := c.Embed(context.Background(), "text", TaskQuery)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrEmbedding))
}

func TestClientEmbedRejectsWrongDimension(t *testing.T) {
	c := NewClient(&stubProvider{vec: []float32{1, 2}}, 3)

	_, err := c.Embed(context.Background(), "text", TaskDocument)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrDimensionMismatch))
}

func TestClientEmbedBatchPreservesOrder(t *testing.T) {
	fake := NewFakeProvider(16)
	c := NewClient(fake, 16)

	texts := []string{"first passage", "second passage", "third passage"}
	vectors, err := c.EmbedBatch(context.Background(), texts, TaskDocument)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))

	for i, text := range texts {
		want, embErr := fake.Generate(context.Background(), text, TaskDocument)
		require.NoError(t, embErr)
		assert.Equal(t, want, vectors[i], "vector %d out of order", i)
	}
}

func TestFakeProviderIsDeterministic(t *testing.T) {
	fake := NewFakeProvider(32)

	a, err := fake.Generate(context.Background(), "hypertension is high blood pressure", TaskDocument)
	require.NoError(t, err)
	b, err := fake.Generate(context.Background(), "hypertension is high blood pressure", TaskDocument)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
}

func TestFakeProviderSimilarTextsScoreHigher(t *testing.T) {
	fake := NewFakeProvider(64)
	ctx := context.Background()

	query, _ := fake.Generate(ctx, "what is hypertension", "")
	related, _ := fake.Generate(ctx, "hypertension is persistently high blood pressure", "")
	unrelated, _ := fake.Generate(ctx, "the invoice total excludes shipping fees", "")

	assert.Greater(t, dot(query, related), dot(query, unrelated))
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
