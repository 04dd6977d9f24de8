package service

import (
	"context"
	"errors"
	"time"

	"ai-docqa-be/internal/model"
	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/pkg/apperror"
	"ai-docqa-be/pkg/chunker"
	"ai-docqa-be/pkg/document"
	"ai-docqa-be/pkg/embedding"

	"golang.org/x/sync/errgroup"
)

// IndexManager is the slice of the index layer ingestion needs. Satisfied
// by index.Manager.
type IndexManager interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, records []*model.ChunkEmbedding) error
}

// IngestionReport summarizes one batch run.
type IngestionReport struct {
	DocumentsProcessed int
	DocumentsFailed    int
	FilesSkipped       int
	ChunksUpserted     int
	Duration           time.Duration
}

type IIngestionService interface {
	// Ingest runs the full batch pipeline over dir: load, chunk, embed,
	// upsert. Per-document failures are logged, counted and skipped;
	// systemic failures (index misconfigured or unreachable, dimension
	// drift) abort the run.
	Ingest(ctx context.Context, dir string) (*IngestionReport, error)
}

type IngestionService struct {
	loader      *document.Loader
	chunker     *chunker.Chunker
	embedder    *embedding.Client
	manager     IndexManager
	concurrency int
	log         logger.ILogger
}

func NewIngestionService(
	loader *document.Loader,
	chk *chunker.Chunker,
	embedder *embedding.Client,
	manager IndexManager,
	concurrency int,
	log logger.ILogger,
) IIngestionService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &IngestionService{
		loader:      loader,
		chunker:     chk,
		embedder:    embedder,
		manager:     manager,
		concurrency: concurrency,
		log:         log,
	}
}

func (s *IngestionService) Ingest(ctx context.Context, dir string) (*IngestionReport, error) {
	start := time.Now()

	if err := s.manager.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	docs, filesSkipped, err := s.loader.Load(dir)
	if err != nil {
		return nil, err
	}

	report := &IngestionReport{FilesSkipped: filesSkipped}

	for _, doc := range docs {
		upserted, err := s.ingestDocument(ctx, doc)
		if err != nil {
			if isSystemic(err) {
				return nil, err
			}
			// Per-document failure: log, count, move on.
			report.DocumentsFailed++
			s.log.Error("ingestion", "document failed, continuing with next", map[string]interface{}{
				"document": doc.ID,
				"error":    err.Error(),
			})
			continue
		}
		report.DocumentsProcessed++
		report.ChunksUpserted += upserted
	}

	report.Duration = time.Since(start)
	s.log.Info("ingestion", "batch complete", map[string]interface{}{
		"documents_processed": report.DocumentsProcessed,
		"documents_failed":    report.DocumentsFailed,
		"files_skipped":       report.FilesSkipped,
		"chunks_upserted":     report.ChunksUpserted,
		"duration":            report.Duration.String(),
	})
	return report, nil
}

func (s *IngestionService) ingestDocument(ctx context.Context, doc document.Document) (int, error) {
	chunks := s.chunker.Split(doc.ID, doc.Text)
	if len(chunks) == 0 {
		return 0, nil
	}

	// Chunks are independent, so embedding fans out across a bounded pool.
	// The limit is the backpressure knob against the embedding service.
	records := make([]*model.ChunkEmbedding, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, ch := range chunks {
		i, ch := i, ch
		g.Go(func() error {
			vec, err := s.embedder.Embed(gctx, ch.Text, embedding.TaskDocument)
			if err != nil {
				return err
			}
			records[i] = model.NewChunkEmbedding(ch, vec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := s.manager.Upsert(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// isSystemic reports whether an ingestion error must abort the whole run
// rather than skip the current document.
func isSystemic(err error) bool {
	return errors.Is(err, apperror.ErrDimensionMismatch) ||
		errors.Is(err, apperror.ErrIndexConfig) ||
		errors.Is(err, apperror.ErrIndex)
}
