package service

import (
	"context"

	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/pkg/embedding"
	"ai-docqa-be/pkg/rag/answer"
	"ai-docqa-be/pkg/rag/search"
)

// QueryAnswer is the final result of one question: the generated text plus
// the sources that grounded it. Sources is empty when retrieval found
// nothing — the answer then says so explicitly.
type QueryAnswer struct {
	Answer  string
	Sources []SourceRef
}

type SourceRef struct {
	DocumentID string
	Similarity float64
}

type IQueryService interface {
	// Answer runs the linear query path: embed the question, retrieve the
	// top-k passages, compose a grounded answer. A stage failure aborts the
	// request; later stages are never invoked after a failure.
	Answer(ctx context.Context, question string) (*QueryAnswer, error)
}

type QueryService struct {
	embedder  *embedding.Client
	retriever *search.Retriever
	composer  *answer.Composer
	topK      int
	log       logger.ILogger
}

func NewQueryService(
	embedder *embedding.Client,
	retriever *search.Retriever,
	composer *answer.Composer,
	topK int,
	log logger.ILogger,
) IQueryService {
	return &QueryService{
		embedder:  embedder,
		retriever: retriever,
		composer:  composer,
		topK:      topK,
		log:       log,
	}
}

func (s *QueryService) Answer(ctx context.Context, question string) (*QueryAnswer, error) {
	queryVec, err := s.embedder.Embed(ctx, question, embedding.TaskQuery)
	if err != nil {
		return nil, err
	}

	chunks, err := s.retriever.Retrieve(ctx, queryVec, s.topK)
	if err != nil {
		return nil, err
	}

	text, err := s.composer.Answer(ctx, question, chunks)
	if err != nil {
		return nil, err
	}

	result := &QueryAnswer{Answer: text}
	for _, c := range chunks {
		result.Sources = append(result.Sources, SourceRef{
			DocumentID: c.DocumentID,
			Similarity: c.Similarity,
		})
	}

	s.log.Info("query", "answered", map[string]interface{}{
		"sources": len(result.Sources),
	})
	return result, nil
}
