package rag

import (
	"context"
	"log/slog"
	"strings"

	"siteassist/internal/contextutil"
	"siteassist/internal/service"
)

// EngineConfig holds the selection and gating knobs the pipeline applies
// after reranking.
type EngineConfig struct {
	// SelectTopK is how many ranked chunks survive into the final result.
	SelectTopK int
	// MaxContextTokens bounds the rendered context block.
	MaxContextTokens int
	// Gate holds the confidence thresholds.
	Gate GateConfig
}

// engine wires the pipeline stages together:
// cache -> expand -> retrieve -> rerank -> select -> gate -> format.
type engine struct {
	expander  *Expander
	retriever *Retriever
	reranker  *Reranker
	cache     *ResultCache
	cfg       EngineConfig
}

// NewEngine builds the production Engine. cache may be nil to run without
// result caching.
func NewEngine(expander *Expander, retriever *Retriever, reranker *Reranker, cache *ResultCache, cfg EngineConfig) Engine {
	return &engine{
		expander:  expander,
		retriever: retriever,
		reranker:  reranker,
		cache:     cache,
		cfg:       cfg,
	}
}

// Retrieve runs the full pipeline for one request.
//
// Only configuration errors abort a request. Provider outages, malformed
// LLM output, and cache failures all degrade inside their stages; the
// low-confidence path is a structured fallback, not an error.
func (e *engine) Retrieve(ctx context.Context, req Request) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Result{}, &service.ValidationError{Field: "question", Message: "question must not be empty"}
	}

	if e.cache != nil {
		if chunks, ok := e.cache.Get(ctx, question, req.PagePath); ok {
			logger.Debug("serving cached retrieval result")
			result := e.finalize(chunks, req)
			result.CacheHit = true
			return result, nil
		}
	}

	expansion := e.expander.Expand(ctx, question, req.PagePath, req.ConversationSummary)
	logger.Debug("expanded query",
		slog.Int("queries", len(expansion.Queries)),
		slog.String("strategy", expansion.Strategy))

	candidates, err := e.retriever.Retrieve(ctx, expansion.Queries, question)
	if err != nil {
		return Result{}, err
	}

	if len(candidates) == 0 {
		logger.Info("no retrieval candidates, returning fallback")
		result := e.finalize(nil, req)
		result.ExpansionStrategy = expansion.Strategy
		result.RerankMethod = MethodNone
		return result, nil
	}

	reranked := e.reranker.Rerank(ctx, question, req.PagePath, candidates)
	selected := reranked.Chunks
	if len(selected) > e.cfg.SelectTopK {
		selected = selected[:e.cfg.SelectTopK]
	}

	// Transient empty pools (every leg down) are not cached, so the next
	// request retries the providers instead of being pinned to a fallback.
	if e.cache != nil {
		e.cache.Set(ctx, question, req.PagePath, selected)
	}

	result := e.finalize(selected, req)
	result.ExpansionStrategy = expansion.Strategy
	result.RerankMethod = reranked.Method
	return result, nil
}

// finalize applies the confidence gate and renders the outward-facing
// fields. Shared between the cached and freshly computed paths.
func (e *engine) finalize(chunks []RankedChunk, req Request) Result {
	high := HighConfidence(chunks, e.cfg.Gate)

	result := Result{
		Chunks:         chunks,
		HighConfidence: high,
		CitationURLs:   CitationURLs(chunks),
	}
	if high {
		result.ContextText = BuildContext(chunks, e.cfg.MaxContextTokens)
	} else {
		result.Fallback = buildFallback(req.PagePath)
	}
	return result
}

// buildFallback produces the clarifying response for low-confidence results.
// The suggestions lean on where the visitor currently is on the site.
func buildFallback(pagePath string) *FallbackResponse {
	fb := &FallbackResponse{
		Answer:    "I couldn't find a confident answer to that on this site. Could you rephrase the question, or tell me a bit more about what you're looking for?",
		Citations: []string{},
		CTA:       "If you'd rather talk it through, reach out via the contact page and we'll point you in the right direction.",
	}

	switch {
	case strings.HasPrefix(pagePath, "/services"):
		fb.Options = []string{
			"Which service are you asking about?",
			"Are you asking about scope, process, or pricing?",
		}
	case strings.HasPrefix(pagePath, "/pricing"):
		fb.Options = []string{
			"Which plan are you comparing?",
			"Are you asking about monthly cost or what's included?",
		}
	case strings.HasPrefix(pagePath, "/projects"), strings.HasPrefix(pagePath, "/portfolio"):
		fb.Options = []string{
			"Which project would you like to know more about?",
			"Are you looking for work similar to something you have in mind?",
		}
	default:
		fb.Options = []string{
			"Can you name the product, service, or page this is about?",
			"Are you asking about pricing, availability, or how something works?",
		}
	}
	return fb
}
