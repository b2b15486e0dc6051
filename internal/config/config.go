package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	DBPath             string
	QdrantURL          string
	QdrantCollection   string
	QdrantVectorSize   int
	APIPort            string
	LogLevel           slog.Level
	LogFormat          string

	// Retrieval tuning. All of these are folded into the result cache key,
	// so changing any of them invalidates previously cached results.
	Retrieval RetrievalConfig

	// Versions identifies the deployed content and prompts for cache keying.
	Versions VersionConfig

	// ExternalCallTimeout bounds every embedding, search, and LLM round trip.
	ExternalCallTimeout time.Duration

	// CacheTTL is the base TTL for cached retrieval results before jitter.
	CacheTTL time.Duration
}

// RetrievalConfig holds the tuning knobs of the retrieval pipeline.
type RetrievalConfig struct {
	// VectorScoreThreshold is the minimum similarity for vector candidates.
	// Tuned low on purpose: this stage favors recall over precision.
	VectorScoreThreshold float32
	// PerQueryCount is the number of results requested per expanded query.
	PerQueryCount int
	// CandidateTopK caps the merged candidate set before reranking.
	CandidateTopK int
	// SelectTopK caps the final chunk set after reranking.
	SelectTopK int
	// MinChunksSelected is the corroboration floor for the confidence gate.
	MinChunksSelected int
	// RerankThreshold is the minimum best rerank score for a confident answer.
	RerankThreshold float64
	// SimilarityThreshold is the confidence floor when no rerank score exists.
	SimilarityThreshold float64
	// MaxContextTokens bounds the formatted context handed to answer generation.
	MaxContextTokens int
}

// VersionConfig tags the deployment for cache key construction.
type VersionConfig struct {
	Environment    string
	ContentVersion string
	PromptVersion  string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:       getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
		DBPath:             getEnv("DB_PATH", "./data/siteassist.db"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "site_content"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	cfg.LogLevel = parseLogLevel(getEnv("LOG_LEVEL", "info"))

	// Parse QDRANT_VECTOR_SIZE.
	// Note: this must match the output vector size of the embeddings model.
	// If the vector size changes, the Qdrant collection must be recreated.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	cfg.Retrieval, err = loadRetrieval()
	if err != nil {
		return nil, err
	}

	cfg.Versions = VersionConfig{
		Environment:    getEnv("ENVIRONMENT", "development"),
		ContentVersion: getEnv("CONTENT_VERSION", "v1"),
		PromptVersion:  getEnv("PROMPT_VERSION", "v1"),
	}

	timeoutSecs, err := getEnvInt("EXTERNAL_CALL_TIMEOUT_SECONDS", 20)
	if err != nil {
		return nil, err
	}
	cfg.ExternalCallTimeout = time.Duration(timeoutSecs) * time.Second

	ttlHours, err := getEnvInt("CACHE_TTL_HOURS", 48)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = time.Duration(ttlHours) * time.Hour

	// Create ./data directory if it doesn't exist (for future DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

func loadRetrieval() (RetrievalConfig, error) {
	rc := RetrievalConfig{}

	threshold, err := getEnvFloat("VECTOR_SCORE_THRESHOLD", 0.25)
	if err != nil {
		return rc, err
	}
	rc.VectorScoreThreshold = float32(threshold)

	if rc.PerQueryCount, err = getEnvInt("PER_QUERY_COUNT", 10); err != nil {
		return rc, err
	}
	if rc.CandidateTopK, err = getEnvInt("CANDIDATE_TOP_K", 30); err != nil {
		return rc, err
	}
	if rc.SelectTopK, err = getEnvInt("SELECT_TOP_K", 8); err != nil {
		return rc, err
	}
	if rc.MinChunksSelected, err = getEnvInt("MIN_CHUNKS_SELECTED", 2); err != nil {
		return rc, err
	}
	if rc.RerankThreshold, err = getEnvFloat("RERANK_THRESHOLD", 60); err != nil {
		return rc, err
	}
	if rc.SimilarityThreshold, err = getEnvFloat("SIMILARITY_THRESHOLD", 0.55); err != nil {
		return rc, err
	}
	if rc.MaxContextTokens, err = getEnvInt("MAX_CONTEXT_TOKENS", 3000); err != nil {
		return rc, err
	}

	if rc.PerQueryCount <= 0 || rc.CandidateTopK <= 0 || rc.SelectTopK <= 0 {
		return rc, fmt.Errorf("retrieval counts must be greater than 0")
	}
	if rc.SelectTopK > rc.CandidateTopK {
		return rc, fmt.Errorf("SELECT_TOP_K (%d) cannot exceed CANDIDATE_TOP_K (%d)", rc.SelectTopK, rc.CandidateTopK)
	}

	return rc, nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return parsed, nil
}
