package prompt

import (
	"strings"

	"ai-docqa-be/pkg/rag/search"
)

// NoContextMarker replaces the reference material when retrieval found
// nothing. The model is instructed to say so instead of inventing sources,
// and tests key on the marker to verify the zero-result policy.
const NoContextMarker = "NO RELEVANT DOCUMENTS FOUND"

// GroundingBuilder assembles the single-turn prompt for the answer stage:
// retrieved passages in retriever order, a fixed instruction constraining
// the model to that material, and the user question.
type GroundingBuilder struct {
	query  string
	chunks []search.RetrievedChunk
}

func NewGroundingBuilder(query string, chunks []search.RetrievedChunk) *GroundingBuilder {
	return &GroundingBuilder{
		query:  query,
		chunks: chunks,
	}
}

func (b *GroundingBuilder) Build() string {
	var prompt strings.Builder

	b.writeReferenceMaterial(&prompt)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	b.writeUserQuery(&prompt)

	return prompt.String()
}

func (b *GroundingBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	prompt.WriteString("<reference_material>\n")
	if len(b.chunks) == 0 {
		prompt.WriteString(NoContextMarker)
		prompt.WriteString("\n")
	} else {
		// Highest similarity first, exactly as the retriever returned them.
		for i, chunk := range b.chunks {
			if i > 0 {
				prompt.WriteString("\n---\n")
			}
			prompt.WriteString("[Source: ")
			prompt.WriteString(chunk.DocumentID)
			prompt.WriteString("]\n")
			prompt.WriteString(chunk.Content)
			prompt.WriteString("\n")
		}
	}
	prompt.WriteString("</reference_material>\n\n")
}

func (b *GroundingBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a knowledgeable assistant answering questions from a fixed document collection.\n")
	prompt.WriteString("Answer the user's question using only the reference material above.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *GroundingBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Base your answer strictly on the reference material. Do not add outside knowledge.\n")
	prompt.WriteString("2. Stay within the subject matter of the documents; decline questions outside it.\n")
	prompt.WriteString("3. If the reference material is marked as empty or does not cover the question, ")
	prompt.WriteString("reply that no relevant information was found in the documents. Never guess.\n")
	prompt.WriteString("4. Be complete but concise, and mention the source document when it helps.\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *GroundingBuilder) writeUserQuery(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Now provide your answer based on the reference material:")
}
