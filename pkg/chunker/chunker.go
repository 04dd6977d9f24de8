package chunker

import (
	"ai-docqa-be/pkg/apperror"
)

// Chunk is a bounded, overlapping passage of a source document and the unit
// of embedding and retrieval. Offset is the rune offset of the passage within
// the document; together with DocumentID it uniquely and deterministically
// identifies the chunk across re-ingestion runs.
type Chunk struct {
	DocumentID string
	Index      int
	Offset     int
	Text       string
}

// Chunker splits text into chunks of at most MaxSize runes where consecutive
// chunks from the same document share exactly Overlap runes. Splitting is
// purely positional, so identical input and configuration always produce
// byte-identical boundaries.
type Chunker struct {
	MaxSize int
	Overlap int
}

func New(maxSize, overlap int) (*Chunker, error) {
	if maxSize <= 0 {
		return nil, apperror.New(apperror.KindValidation, "chunk max size must be positive, got %d", maxSize)
	}
	if overlap < 0 || overlap >= maxSize {
		return nil, apperror.New(apperror.KindValidation, "chunk overlap must be in [0, max size), got overlap=%d max=%d", overlap, maxSize)
	}
	return &Chunker{MaxSize: maxSize, Overlap: overlap}, nil
}

// Split returns the ordered chunks covering text with no gaps. A document
// shorter than MaxSize yields exactly one chunk. Empty text yields none.
func (c *Chunker) Split(documentID, text string) []Chunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	totalLen := len(runes)

	if totalLen <= c.MaxSize {
		return []Chunk{{DocumentID: documentID, Index: 0, Offset: 0, Text: text}}
	}

	step := c.MaxSize - c.Overlap

	var chunks []Chunk
	for i := 0; i < totalLen; i += step {
		end := i + c.MaxSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, Chunk{
			DocumentID: documentID,
			Index:      len(chunks),
			Offset:     i,
			Text:       string(runes[i:end]),
		})

		if end == totalLen {
			break
		}
	}

	return chunks
}
