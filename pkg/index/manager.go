package index

import (
	"context"
	"fmt"
	"strings"

	"ai-docqa-be/internal/config"
	"ai-docqa-be/internal/model"
	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/internal/repository/contract"
	"ai-docqa-be/pkg/apperror"

	"gorm.io/gorm"
)

// Manager owns the remote vector index: it guarantees the pgvector table and
// its cosine index exist with the configured dimension, and it is the single
// write path for index records. Records reach the database only after their
// vector dimension has been validated locally.
type Manager struct {
	db   *gorm.DB
	repo contract.ChunkEmbeddingRepository
	cfg  config.IndexConfig
	log  logger.ILogger
}

func NewManager(db *gorm.DB, repo contract.ChunkEmbeddingRepository, cfg config.IndexConfig, log logger.ILogger) *Manager {
	return &Manager{db: db, repo: repo, cfg: cfg, log: log}
}

// EnsureIndex is idempotent: it creates the extension, table and cosine HNSW
// index if absent. If the table already exists its vector dimension and the
// index opclass must match the configuration, otherwise the index is
// misconfigured and ingestion must not proceed.
func (m *Manager) EnsureIndex(ctx context.Context) error {
	if m.cfg.Metric != "cosine" {
		return apperror.New(apperror.KindIndexConfig, "unsupported similarity metric %q", m.cfg.Metric)
	}

	if err := m.db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return apperror.Wrap(apperror.KindIndex, err, "creating pgvector extension")
	}

	exists, err := m.tableExists(ctx)
	if err != nil {
		return err
	}

	if exists {
		if err := m.verifyDimension(ctx); err != nil {
			return err
		}
	} else {
		ddl := fmt.Sprintf(`CREATE TABLE %s (
			id uuid PRIMARY KEY,
			document_id text NOT NULL,
			chunk_index integer NOT NULL DEFAULT 0,
			chunk_offset integer NOT NULL DEFAULT 0,
			content text,
			embedding_value vector(%d),
			created_at timestamptz,
			updated_at timestamptz
		)`, m.cfg.Name, m.cfg.Dimension)
		if err := m.db.WithContext(ctx).Exec(ddl).Error; err != nil {
			return apperror.Wrap(apperror.KindIndex, err, "creating index table %q", m.cfg.Name)
		}
		m.log.Info("index", "created index table", map[string]interface{}{
			"table":     m.cfg.Name,
			"dimension": m.cfg.Dimension,
		})
	}

	return m.ensureCosineIndex(ctx)
}

// Upsert validates every record's dimension and writes the batch. The
// dimension check happens before any network call: a single bad vector
// rejects the batch locally.
func (m *Manager) Upsert(ctx context.Context, records []*model.ChunkEmbedding) error {
	for _, rec := range records {
		if got := len(rec.EmbeddingValue.Slice()); got != m.cfg.Dimension {
			return apperror.New(apperror.KindDimensionMismatch,
				"record %s has %d dimensions, index %q expects %d", rec.Id, got, m.cfg.Name, m.cfg.Dimension)
		}
	}
	return m.repo.UpsertBulk(ctx, records)
}

func (m *Manager) Count(ctx context.Context) (int64, error) {
	return m.repo.Count(ctx)
}

func (m *Manager) tableExists(ctx context.Context) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).
		Raw("SELECT count(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?", m.cfg.Name).
		Scan(&count).Error
	if err != nil {
		return false, apperror.Wrap(apperror.KindIndex, err, "checking index table %q", m.cfg.Name)
	}
	return count > 0, nil
}

func (m *Manager) verifyDimension(ctx context.Context) error {
	// For pgvector columns atttypmod holds the declared dimension. The
	// lookup is schema-qualified so a same-named table elsewhere in the
	// database cannot answer for ours.
	var dim int
	err := m.db.WithContext(ctx).
		Raw(`SELECT a.atttypmod FROM pg_attribute a
			JOIN pg_class c ON c.oid = a.attrelid
			JOIN pg_namespace n ON n.oid = c.relnamespace
			WHERE n.nspname = current_schema() AND c.relname = ? AND a.attname = 'embedding_value'`, m.cfg.Name).
		Scan(&dim).Error
	if err != nil {
		return apperror.Wrap(apperror.KindIndex, err, "reading dimension of index %q", m.cfg.Name)
	}
	if dim != m.cfg.Dimension {
		return apperror.New(apperror.KindIndexConfig,
			"index %q has dimension %d, configuration expects %d", m.cfg.Name, dim, m.cfg.Dimension)
	}
	return nil
}

func (m *Manager) ensureCosineIndex(ctx context.Context) error {
	indexName := m.cfg.Name + "_embedding_cosine_idx"

	var indexdef string
	err := m.db.WithContext(ctx).
		Raw("SELECT indexdef FROM pg_indexes WHERE schemaname = current_schema() AND tablename = ? AND indexname = ?", m.cfg.Name, indexName).
		Scan(&indexdef).Error
	if err != nil {
		return apperror.Wrap(apperror.KindIndex, err, "checking similarity index on %q", m.cfg.Name)
	}

	if indexdef != "" {
		if !strings.Contains(indexdef, "vector_cosine_ops") {
			return apperror.New(apperror.KindIndexConfig,
				"index %q exists with a non-cosine opclass: %s", indexName, indexdef)
		}
		return nil
	}

	ddl := fmt.Sprintf("CREATE INDEX %s ON %s USING hnsw (embedding_value vector_cosine_ops)",
		indexName, m.cfg.Name)
	if err := m.db.WithContext(ctx).Exec(ddl).Error; err != nil {
		return apperror.Wrap(apperror.KindIndex, err, "creating cosine index on %q", m.cfg.Name)
	}
	m.log.Info("index", "created cosine similarity index", map[string]interface{}{
		"index": indexName,
	})
	return nil
}
