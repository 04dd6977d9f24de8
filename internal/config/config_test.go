package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Port:        "3000",
			Environment: "test",
			LogFilePath: "app.log",
		},
		Database: DatabaseConfig{
			Connection: "host=localhost user=postgres dbname=docqa",
		},
		Index: IndexConfig{
			Name:      "document_chunks",
			Dimension: 768,
			Metric:    "cosine",
		},
		Chunking: ChunkingConfig{
			MaxChunkSize: 500,
			Overlap:      50,
		},
		Retrieval: RetrievalConfig{TopK: 3},
		Ingestion: IngestionConfig{
			CorpusDir:        "./corpus",
			EmbedConcurrency: 4,
		},
		Ai: AIConfig{
			EmbeddingProvider: "ollama",
			OllamaBaseURL:     "http://localhost:11434",
			OllamaModel:       "nomic-embed-text",
			LLMProvider:       "ollama",
			LLMModel:          "llama3",
			RequestTimeoutSec: 120,
		},
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DB_CONNECTION_STRING", "host=localhost user=postgres dbname=docqa")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "document_chunks", cfg.Index.Name)
	assert.Equal(t, 768, cfg.Index.Dimension)
	assert.Equal(t, "cosine", cfg.Index.Metric)
	assert.Equal(t, 500, cfg.Chunking.MaxChunkSize)
	assert.Equal(t, 50, cfg.Chunking.Overlap)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
}

func TestValidateRejectsMissingConnectionString(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Connection = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonCosineMetric(t *testing.T) {
	cfg := validConfig()
	cfg.Index.Metric = "l2"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveDimension(t *testing.T) {
	cfg := validConfig()
	cfg.Index.Dimension = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsOverlapNotSmallerThanChunkSize(t *testing.T) {
	cfg := validConfig()
	cfg.Chunking.Overlap = cfg.Chunking.MaxChunkSize
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHUNK_OVERLAP")
}

func TestValidateRejectsUnknownEmbeddingProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Ai.EmbeddingProvider = "openai"
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresGeminiKeyForGeminiProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Ai.EmbeddingProvider = "gemini"
	cfg.Ai.GeminiApiKey = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_GEMINI_API_KEY")

	cfg.Ai.GeminiApiKey = "key"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRequiresHuggingFaceKeyForHuggingFaceProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Ai.LLMProvider = "huggingface"
	cfg.Ai.HuggingFaceApiKey = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HUGGINGFACE_API_KEY")

	cfg.Ai.HuggingFaceApiKey = "key"
	assert.NoError(t, cfg.Validate())
}
