package answer

import (
	"context"
	"strings"

	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/pkg/apperror"
	"ai-docqa-be/pkg/llm"
	"ai-docqa-be/pkg/rag/prompt"
	"ai-docqa-be/pkg/rag/search"
)

// Composer turns a query and its retrieval results into a final answer:
// grounding prompt in, trimmed model output out. It never retries on its
// own and never fabricates context — zero retrieval results go to the model
// with the explicit no-context marker.
type Composer struct {
	provider llm.LLMProvider
	log      logger.ILogger
}

func NewComposer(provider llm.LLMProvider, log logger.ILogger) *Composer {
	return &Composer{provider: provider, log: log}
}

func (c *Composer) Answer(ctx context.Context, query string, chunks []search.RetrievedChunk) (string, error) {
	p := prompt.NewGroundingBuilder(query, chunks).Build()

	c.log.Debug("composer", "invoking language model", map[string]interface{}{
		"chunks":     len(chunks),
		"prompt_len": len(p),
	})

	out, err := c.provider.Generate(ctx, p, llm.WithTemperature(0.2))
	if err != nil {
		return "", apperror.Wrap(apperror.KindGeneration, err, "language model call failed")
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", apperror.New(apperror.KindGeneration, "language model returned an empty answer")
	}
	return out, nil
}
