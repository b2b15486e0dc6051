package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"siteassist/internal/config"
	"siteassist/internal/http"
	"siteassist/internal/indexer"
	"siteassist/internal/llm"
	"siteassist/internal/rag"
	"siteassist/internal/storage"
	"siteassist/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// The FTS5 keyword index is optional: without it retrieval runs on the
	// vector leg alone.
	ftsAvailable := true
	if err := storage.MigrateFTS(db); err != nil {
		slog.Warn("Keyword search index unavailable", "error", err)
		ftsAvailable = false
	}
	slog.Info("Database initialized", "path", cfg.DBPath, "keyword_search", ftsAvailable)

	// Create repository instances
	docRepo := storage.NewDocumentRepo(db, ftsAvailable, cfg.QdrantVectorSize)
	cacheRepo := storage.NewCacheRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Create indexing pipeline
	indexerPipeline := indexer.NewPipeline(
		docRepo,
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		cfg.QdrantVectorSize,
		cfg.EmbeddingModelName,
	)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
	if !llmClient.HasCredential() {
		slog.Warn("No LLM credential configured, expansion and reranking run degraded")
	}

	// Build the retrieval engine
	keys := rag.NewKeyBuilder(rag.KeySpec{
		Environment:          cfg.Versions.Environment,
		ContentVersion:       cfg.Versions.ContentVersion,
		EmbeddingModel:       cfg.EmbeddingModelName,
		LLMModel:             cfg.LLMModelName,
		PromptVersion:        cfg.Versions.PromptVersion,
		VectorScoreThreshold: cfg.Retrieval.VectorScoreThreshold,
		PerQueryCount:        cfg.Retrieval.PerQueryCount,
		CandidateTopK:        cfg.Retrieval.CandidateTopK,
		SelectTopK:           cfg.Retrieval.SelectTopK,
		MinChunksSelected:    cfg.Retrieval.MinChunksSelected,
		RerankThreshold:      cfg.Retrieval.RerankThreshold,
		SimilarityThreshold:  cfg.Retrieval.SimilarityThreshold,
	})

	engine := rag.NewEngine(
		rag.NewExpander(llmClient, cfg.ExternalCallTimeout),
		rag.NewRetriever(embedder, vectorStore, cfg.QdrantCollection, docRepo, rag.RetrieverConfig{
			ScoreThreshold: cfg.Retrieval.VectorScoreThreshold,
			PerQueryCount:  cfg.Retrieval.PerQueryCount,
			CandidateTopK:  cfg.Retrieval.CandidateTopK,
		}, cfg.ExternalCallTimeout),
		rag.NewReranker(llmClient, cfg.ExternalCallTimeout),
		rag.NewResultCache(cacheRepo, keys, cfg.CacheTTL),
		rag.EngineConfig{
			SelectTopK:       cfg.Retrieval.SelectTopK,
			MaxContextTokens: cfg.Retrieval.MaxContextTokens,
			Gate: rag.GateConfig{
				RerankThreshold:     cfg.Retrieval.RerankThreshold,
				MinChunks:           cfg.Retrieval.MinChunksSelected,
				SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
			},
		},
	)
	slog.Info("Retrieval engine initialized", "environment", cfg.Versions.Environment, "content_version", cfg.Versions.ContentVersion)

	// Create router with dependencies
	deps := &http.Deps{
		Engine:          engine,
		IndexerPipeline: indexerPipeline,
		CacheStore:      cacheRepo,
		DocumentStore:   docRepo,
		VectorStore:     vectorStore,
		DB:              db,
		CollectionName:  cfg.QdrantCollection,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
