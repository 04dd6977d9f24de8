package llm

import (
	"context"
)

// StaticProvider is a deterministic LLMProvider for tests. It returns the
// configured response, records the last prompt it saw, and optionally fails
// with a fixed error.
type StaticProvider struct {
	Response   string
	Err        error
	LastPrompt string
}

var _ LLMProvider = &StaticProvider{}

func (s *StaticProvider) Chat(_ context.Context, history []Message, _ ...Option) (string, error) {
	if len(history) > 0 {
		s.LastPrompt = history[len(history)-1].Content
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Response, nil
}

func (s *StaticProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return s.Chat(ctx, []Message{{Role: "user", Content: prompt}}, options...)
}
