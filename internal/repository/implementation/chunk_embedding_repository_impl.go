package implementation

import (
	"context"
	"errors"
	"strings"

	"ai-docqa-be/internal/model"
	"ai-docqa-be/internal/repository/contract"
	"ai-docqa-be/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChunkEmbeddingRepositoryImpl struct {
	db    *gorm.DB
	table string
}

func NewChunkEmbeddingRepository(db *gorm.DB, table string) contract.ChunkEmbeddingRepository {
	return &ChunkEmbeddingRepositoryImpl{
		db:    db,
		table: table,
	}
}

func (r *ChunkEmbeddingRepositoryImpl) UpsertBulk(ctx context.Context, embeddings []*model.ChunkEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Table(r.table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document_id", "chunk_index", "chunk_offset", "content", "embedding_value", "updated_at"}),
		}).
		Create(embeddings).Error
	if err == nil {
		return nil
	}

	// The batch write failed as a whole; retry record by record so the
	// caller learns which ids could not be written.
	var failed []string
	var lastErr error
	for _, e := range embeddings {
		rowErr := r.db.WithContext(ctx).
			Table(r.table).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"document_id", "chunk_index", "chunk_offset", "content", "embedding_value", "updated_at"}),
			}).
			Create(e).Error
		if rowErr != nil {
			failed = append(failed, e.Id.String())
			lastErr = rowErr
		}
	}

	if len(failed) == 0 {
		return nil
	}
	return classifyIndexError(lastErr, "upsert failed for records: "+strings.Join(failed, ", "))
}

func (r *ChunkEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredChunkEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding_value <=> query_vector) recovers the similarity.
	// Secondary order by id keeps ties stable across calls.
	type result struct {
		model.ChunkEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table(r.table).
		Select("*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC, id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, classifyIndexError(err, "similarity search failed")
	}

	scored := make([]*contract.ScoredChunkEmbedding, len(results))
	for i, res := range results {
		e := res.ChunkEmbedding
		scored[i] = &contract.ScoredChunkEmbedding{
			Embedding:  &e,
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *ChunkEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(r.table).Count(&count).Error
	if err != nil {
		return 0, classifyIndexError(err, "count failed")
	}
	return count, nil
}

// classifyIndexError separates index misconfiguration (missing table or
// extension, wrong column type) from transient index failures, using the
// Postgres error code when one is available.
func classifyIndexError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01", // undefined_table
			"42703", // undefined_column
			"42704", // undefined_object (vector type missing)
			"22000": // data_exception (vector dimension mismatch surfaces here)
			return apperror.Wrap(apperror.KindIndexConfig, err, "%s", msg)
		}
	}
	return apperror.Wrap(apperror.KindIndex, err, "%s", msg)
}
