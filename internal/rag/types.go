package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completion_client.go -package=mocks siteassist/internal/rag CompletionClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedding_client.go -package=mocks siteassist/internal/rag EmbeddingClient

import (
	"context"

	"siteassist/internal/storage"
)

// CompletionClient is the LLM capability consumed by expansion and reranking.
// Defined from this package's perspective (consumer-first).
type CompletionClient interface {
	// Complete sends a system+user prompt pair and returns the reply text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// HasCredential reports whether a provider credential is configured.
	HasCredential() bool
}

// EmbeddingClient embeds a single query text.
type EmbeddingClient interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Request is a retrieval request for one user question.
type Request struct {
	// Question is the user's free-text question.
	Question string `json:"question"`
	// PagePath is the site path the user was on when asking, if known.
	// It steers expansion, the cache key, and the low-confidence fallback.
	PagePath string `json:"page_path,omitempty"`
	// ConversationSummary is an optional short summary of prior turns.
	ConversationSummary string `json:"conversation_summary,omitempty"`
}

// RetrievedChunk is a candidate produced by similarity or keyword search,
// before reranking.
type RetrievedChunk struct {
	Document   storage.SiteDocument `json:"document"`
	Similarity float64              `json:"similarity"`
}

// RankedChunk is a candidate after reranking. RerankScore is nil when the
// pipeline degraded past LLM scoring.
type RankedChunk struct {
	RetrievedChunk
	RerankScore *float64 `json:"rerank_score,omitempty"`
}

// FallbackResponse is the structured clarification returned instead of an
// answer when the confidence gate declines. Never an error message.
type FallbackResponse struct {
	Answer    string   `json:"answer"`
	Citations []string `json:"citations"`
	CTA       string   `json:"cta"`
	Options   []string `json:"options,omitempty"`
}

// Result is the produced output handed to the answer-generation stage.
type Result struct {
	ContextText    string            `json:"context_text"`
	CitationURLs   []string          `json:"citation_urls"`
	HighConfidence bool              `json:"high_confidence"`
	Fallback       *FallbackResponse `json:"fallback_response,omitempty"`

	// Chunks is the final ranked chunk set behind ContextText.
	Chunks []RankedChunk `json:"chunks,omitempty"`

	// Retrieval metadata for observability: how the values were produced,
	// so callers and tests can tell degraded outcomes from genuine ones.
	ExpansionStrategy string `json:"expansion_strategy,omitempty"`
	RerankMethod      string `json:"rerank_method,omitempty"`
	CacheHit          bool   `json:"cache_hit"`
}

// Engine runs the retrieval pipeline for one request.
type Engine interface {
	Retrieve(ctx context.Context, req Request) (Result, error)
}
