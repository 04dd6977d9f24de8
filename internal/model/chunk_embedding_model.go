package model

import (
	"strconv"
	"time"

	"ai-docqa-be/pkg/chunker"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ChunkEmbedding is one index record: a document passage, its provenance and
// its embedding vector. Id is derived deterministically from the source
// document id and the chunk's rune offset, so re-ingesting an unchanged
// corpus overwrites records instead of duplicating them.
type ChunkEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DocumentId     string          `gorm:"type:text;not null;index"`
	ChunkIndex     int             `gorm:"not null;default:0"`
	ChunkOffset    int             `gorm:"not null;default:0"`
	Content        string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector"` // dimension enforced by the index manager DDL
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

// ChunkNamespace seeds deterministic record ids (uuid.NewSHA1).
var ChunkNamespace = uuid.MustParse("8c2d45e1-7f3a-4b9e-95c6-1d2a3f4b5c6d")

// DeriveChunkId returns the stable id for a chunk of documentId starting at
// the given rune offset. Identical inputs always yield the identical id.
func DeriveChunkId(documentId string, offset int) uuid.UUID {
	return uuid.NewSHA1(ChunkNamespace, []byte(documentId+":"+strconv.Itoa(offset)))
}

// NewChunkEmbedding builds the index record for a chunk and its vector.
func NewChunkEmbedding(ch chunker.Chunk, vec []float32) *ChunkEmbedding {
	return &ChunkEmbedding{
		Id:             DeriveChunkId(ch.DocumentID, ch.Offset),
		DocumentId:     ch.DocumentID,
		ChunkIndex:     ch.Index,
		ChunkOffset:    ch.Offset,
		Content:        ch.Text,
		EmbeddingValue: pgvector.NewVector(vec),
	}
}
