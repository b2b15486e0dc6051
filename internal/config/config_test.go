package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

// setRequiredEnv sets the minimum environment for Load to succeed,
// pointing DB_PATH at a temp dir so Load's MkdirAll stays contained.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("QDRANT_VECTOR_SIZE", "1024")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.QdrantVectorSize != 1024 {
		t.Errorf("QdrantVectorSize = %d, want 1024", cfg.QdrantVectorSize)
	}
	if cfg.Retrieval.VectorScoreThreshold != 0.25 {
		t.Errorf("VectorScoreThreshold = %f, want 0.25", cfg.Retrieval.VectorScoreThreshold)
	}
	if cfg.Retrieval.PerQueryCount != 10 {
		t.Errorf("PerQueryCount = %d, want 10", cfg.Retrieval.PerQueryCount)
	}
	if cfg.Retrieval.CandidateTopK != 30 {
		t.Errorf("CandidateTopK = %d, want 30", cfg.Retrieval.CandidateTopK)
	}
	if cfg.CacheTTL != 48*time.Hour {
		t.Errorf("CacheTTL = %v, want 48h", cfg.CacheTTL)
	}
	if cfg.Versions.ContentVersion != "v1" {
		t.Errorf("ContentVersion = %q, want v1", cfg.Versions.ContentVersion)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoadRequiresVectorSize(t *testing.T) {
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
	t.Setenv("QDRANT_VECTOR_SIZE", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error when QDRANT_VECTOR_SIZE is unset")
	}
}

func TestLoadRejectsInvalidVectorSize(t *testing.T) {
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))

	for _, bad := range []string{"abc", "0", "-5"} {
		t.Setenv("QDRANT_VECTOR_SIZE", bad)
		if _, err := Load(); err == nil {
			t.Errorf("Load() expected error for QDRANT_VECTOR_SIZE=%q", bad)
		}
	}
}

func TestLoadRejectsSelectKAboveCandidateK(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SELECT_TOP_K", "50")
	t.Setenv("CANDIDATE_TOP_K", "30")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error when SELECT_TOP_K exceeds CANDIDATE_TOP_K")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RERANK_THRESHOLD", "70")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CACHE_TTL_HOURS", "24")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Retrieval.RerankThreshold != 70 {
		t.Errorf("RerankThreshold = %f, want 70", cfg.Retrieval.RerankThreshold)
	}
	if cfg.Versions.Environment != "production" {
		t.Errorf("Environment = %q, want production", cfg.Versions.Environment)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.CacheTTL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}
