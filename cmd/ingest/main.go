package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"ai-docqa-be/internal/bootstrap"
	"ai-docqa-be/internal/config"
	"ai-docqa-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	cfg := config.Load()

	corpusDir := flag.String("dir", cfg.Ingestion.CorpusDir, "Directory containing the document corpus")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	fmt.Printf("Ingesting corpus from %s into index %q...\n", *corpusDir, cfg.Index.Name)

	report, err := container.IngestionService.Ingest(context.Background(), *corpusDir)
	if err != nil {
		color.Red("Ingestion aborted: %v", err)
		os.Exit(1)
	}

	total, err := container.IndexManager.Count(context.Background())
	if err != nil {
		color.Yellow("Warning: could not read index record count: %v", err)
	}

	color.Green("Ingestion complete in %s", report.Duration.Round(time.Millisecond))
	fmt.Printf("  Documents processed: %d\n", report.DocumentsProcessed)
	fmt.Printf("  Documents failed:    %d\n", report.DocumentsFailed)
	fmt.Printf("  Files skipped:       %d\n", report.FilesSkipped)
	fmt.Printf("  Chunks upserted:     %d\n", report.ChunksUpserted)
	if err == nil {
		fmt.Printf("  Index record count:  %d\n", total)
	}

	if report.DocumentsFailed > 0 {
		color.Yellow("Some documents failed; see the log for details.")
	}
}
