package service

import (
	"context"
	"errors"
	"testing"

	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/internal/repository/memory"
	"ai-docqa-be/pkg/apperror"
	"ai-docqa-be/pkg/embedding"
	"ai-docqa-be/pkg/llm"
	"ai-docqa-be/pkg/rag/answer"
	"ai-docqa-be/pkg/rag/prompt"
	"ai-docqa-be/pkg/rag/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queryFixture wires the full query path over fakes: deterministic
// embeddings, in-memory index, canned model output.
type queryFixture struct {
	repo     *memory.ChunkEmbeddingRepository
	llm      *llm.StaticProvider
	embedder *embedding.Client
	svc      IQueryService
}

func newQueryFixture(t *testing.T, modelResponse string) *queryFixture {
	t.Helper()
	repo := memory.NewChunkEmbeddingRepository()
	staticLLM := &llm.StaticProvider{Response: modelResponse}
	embedder := embedding.NewClient(embedding.NewFakeProvider(32), 32)
	svc := NewQueryService(
		embedder,
		search.NewRetriever(repo, logger.Noop{}),
		answer.NewComposer(staticLLM, logger.Noop{}),
		3,
		logger.Noop{},
	)
	return &queryFixture{repo: repo, llm: staticLLM, embedder: embedder, svc: svc}
}

func (f *queryFixture) ingest(t *testing.T, dir string) {
	t.Helper()
	mgr := &fakeIndexManager{repo: f.repo, dimension: 32}
	ing := newIngestion(t, mgr, embedding.NewFakeProvider(32), 32)
	_, err := ing.Ingest(context.Background(), dir)
	require.NoError(t, err)
}

func TestAnswerRetrievesMostRelevantDocument(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "cardio.txt",
		"Hypertension is persistently elevated blood pressure in the arteries. "+
			"Hypertension increases the risk of heart disease and stroke.")
	writeCorpusFile(t, dir, "renal.txt",
		"The kidneys filter waste products from the blood and regulate fluid balance.")
	writeCorpusFile(t, dir, "neuro.txt",
		"Neurons communicate through electrical impulses and chemical synapses.")

	f := newQueryFixture(t, "Hypertension is persistently elevated blood pressure.")
	f.ingest(t, dir)

	res, err := f.svc.Answer(context.Background(), "What is hypertension?")
	require.NoError(t, err)

	assert.Equal(t, "Hypertension is persistently elevated blood pressure.", res.Answer)
	require.NotEmpty(t, res.Sources)
	assert.Equal(t, "cardio.txt", res.Sources[0].DocumentID,
		"the document that defines the term must rank first")
	assert.Contains(t, f.llm.LastPrompt, "elevated blood pressure")
	assert.Contains(t, f.llm.LastPrompt, "What is hypertension?")
}

func TestAnswerEmptyIndexProducesNoContextAnswer(t *testing.T) {
	f := newQueryFixture(t, "No relevant information was found in the documents.")

	res, err := f.svc.Answer(context.Background(), "What is hypertension?")
	require.NoError(t, err)

	assert.NotEmpty(t, res.Answer)
	assert.Empty(t, res.Sources)
	assert.Contains(t, f.llm.LastPrompt, prompt.NoContextMarker)
}

func TestAnswerCapsSourcesAtTopK(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "a.txt", "alpha document about blood pressure")
	writeCorpusFile(t, dir, "b.txt", "beta document about blood pressure")
	writeCorpusFile(t, dir, "c.txt", "gamma document about blood pressure")
	writeCorpusFile(t, dir, "d.txt", "delta document about blood pressure")

	f := newQueryFixture(t, "answer")
	f.ingest(t, dir)

	res, err := f.svc.Answer(context.Background(), "blood pressure")
	require.NoError(t, err)
	assert.Len(t, res.Sources, 3)
}

func TestAnswerEmbeddingFailureSkipsLaterStages(t *testing.T) {
	repo := memory.NewChunkEmbeddingRepository()
	staticLLM := &llm.StaticProvider{Response: "should never be produced"}
	provider := &failingProvider{inner: embedding.NewFakeProvider(8), trigger: "?"}
	svc := NewQueryService(
		embedding.NewClient(provider, 8),
		search.NewRetriever(repo, logger.Noop{}),
		answer.NewComposer(staticLLM, logger.Noop{}),
		3,
		logger.Noop{},
	)

	_, err := svc.Answer(context.Background(), "What is hypertension?")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrEmbedding))
	assert.Empty(t, staticLLM.LastPrompt, "the model must not be invoked after an embedding failure")
}

func TestAnswerIndexFailureSkipsGeneration(t *testing.T) {
	f := newQueryFixture(t, "should never be produced")
	f.repo.FailWith = apperror.New(apperror.KindIndex, "connection refused")

	_, err := f.svc.Answer(context.Background(), "What is hypertension?")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrIndex))
	assert.Empty(t, f.llm.LastPrompt)
}

func TestAnswerGenerationFailureSurfaces(t *testing.T) {
	f := newQueryFixture(t, "")
	f.llm.Err = errors.New("model timeout")

	_, err := f.svc.Answer(context.Background(), "What is hypertension?")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrGeneration))
}
