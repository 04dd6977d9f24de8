package main

import (
	"context"
	"log"

	"ai-docqa-be/internal/bootstrap"
	"ai-docqa-be/internal/config"
	"ai-docqa-be/pkg/database"
)

// Ensures the pgvector extension, the index table and its cosine index
// exist with the configured dimension. Safe to run repeatedly; fails if an
// existing index disagrees with the configuration.
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	if err := container.IndexManager.EnsureIndex(context.Background()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Printf("Index %q ready (dimension=%d, metric=%s)", cfg.Index.Name, cfg.Index.Dimension, cfg.Index.Metric)
}
