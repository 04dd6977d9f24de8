package bootstrap

import (
	"log"
	"time"

	"ai-docqa-be/internal/config"
	"ai-docqa-be/internal/controller"
	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/internal/repository/implementation"
	"ai-docqa-be/internal/service"
	"ai-docqa-be/pkg/chunker"
	"ai-docqa-be/pkg/document"
	"ai-docqa-be/pkg/embedding"
	"ai-docqa-be/pkg/index"
	"ai-docqa-be/pkg/llm/factory"
	"ai-docqa-be/pkg/rag/answer"
	"ai-docqa-be/pkg/rag/search"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	QueryController controller.IQueryController

	// Services (exposed for the CLI entry points)
	IngestionService service.IIngestionService
	QueryService     service.IQueryService
	IndexManager     *index.Manager

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	timeout := time.Duration(cfg.Ai.RequestTimeoutSec) * time.Second

	// Embedding provider based on config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel, timeout)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey, timeout)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	embedClient := embedding.NewClient(embeddingProvider, cfg.Index.Dimension)

	// LLM provider based on config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceApiKey,
		timeout,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Index layer
	chunkRepo := implementation.NewChunkEmbeddingRepository(db, cfg.Index.Name)
	indexManager := index.NewManager(db, chunkRepo, cfg.Index, sysLogger)

	// Pipeline components
	loader := document.NewLoader(sysLogger)
	chk, err := chunker.New(cfg.Chunking.MaxChunkSize, cfg.Chunking.Overlap)
	if err != nil {
		log.Fatalf("[FATAL] Invalid chunking configuration: %v", err)
	}
	retriever := search.NewRetriever(chunkRepo, sysLogger)
	composer := answer.NewComposer(llmProvider, sysLogger)

	// Services
	ingestionService := service.NewIngestionService(
		loader, chk, embedClient, indexManager,
		cfg.Ingestion.EmbedConcurrency, sysLogger,
	)
	queryService := service.NewQueryService(
		embedClient, retriever, composer,
		cfg.Retrieval.TopK, sysLogger,
	)

	return &Container{
		QueryController:  controller.NewQueryController(queryService),
		IngestionService: ingestionService,
		QueryService:     queryService,
		IndexManager:     indexManager,
		Logger:           sysLogger,
	}
}
