package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Index     IndexConfig
	Chunking  ChunkingConfig
	Retrieval RetrievalConfig
	Ingestion IngestionConfig
	Ai        AIConfig
}

type AppConfig struct {
	Port               string `validate:"required"`
	Environment        string
	LogFilePath        string `validate:"required"`
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string `validate:"required"`
}

type IndexConfig struct {
	Name      string `validate:"required"`
	Dimension int    `validate:"gt=0"`
	Metric    string `validate:"oneof=cosine"`
}

type ChunkingConfig struct {
	MaxChunkSize int `validate:"gt=0"`
	Overlap      int `validate:"gte=0"`
}

type RetrievalConfig struct {
	TopK int `validate:"gt=0"`
}

type IngestionConfig struct {
	CorpusDir        string
	EmbedConcurrency int `validate:"gt=0"`
}

type AIConfig struct {
	EmbeddingProvider string `validate:"oneof=ollama gemini"`
	OllamaBaseURL     string
	OllamaModel       string
	GeminiApiKey      string
	LLMProvider       string `validate:"oneof=ollama huggingface"`
	LLMModel          string
	HuggingFaceApiKey string
	RequestTimeoutSec int `validate:"gt=0"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Index: IndexConfig{
			Name:      getEnv("INDEX_NAME", "document_chunks"),
			Dimension: getEnvAsInt("EMBEDDING_DIMENSION", 768),
			Metric:    getEnv("INDEX_METRIC", "cosine"),
		},
		Chunking: ChunkingConfig{
			MaxChunkSize: getEnvAsInt("CHUNK_MAX_SIZE", 500),
			Overlap:      getEnvAsInt("CHUNK_OVERLAP", 50),
		},
		Retrieval: RetrievalConfig{
			TopK: getEnvAsInt("RETRIEVAL_TOP_K", 3),
		},
		Ingestion: IngestionConfig{
			CorpusDir:        getEnv("CORPUS_DIR", "./corpus"),
			EmbedConcurrency: getEnvAsInt("EMBED_CONCURRENCY", 4),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GeminiApiKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			HuggingFaceApiKey: getEnv("HUGGINGFACE_API_KEY", ""),
			RequestTimeoutSec: getEnvAsInt("AI_REQUEST_TIMEOUT_SEC", 120),
		},
	}
}

// Validate fails fast on a configuration the pipeline cannot run with.
// Called once at startup, before any component is constructed.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Chunking.Overlap >= c.Chunking.MaxChunkSize {
		return fmt.Errorf("invalid configuration: CHUNK_OVERLAP (%d) must be smaller than CHUNK_MAX_SIZE (%d)",
			c.Chunking.Overlap, c.Chunking.MaxChunkSize)
	}

	// Provider-specific credentials
	if c.Ai.EmbeddingProvider == "gemini" && c.Ai.GeminiApiKey == "" {
		return fmt.Errorf("invalid configuration: GOOGLE_GEMINI_API_KEY is required when EMBEDDING_PROVIDER=gemini")
	}
	if c.Ai.LLMProvider == "huggingface" && c.Ai.HuggingFaceApiKey == "" {
		return fmt.Errorf("invalid configuration: HUGGINGFACE_API_KEY is required when LLM_PROVIDER=huggingface")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
