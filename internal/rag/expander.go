package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"siteassist/internal/contextutil"
)

const (
	// maxExpandedQueries bounds the vector search fan-out per request.
	maxExpandedQueries = 5

	// Expansion strategies recorded on the result.
	StrategyLLM  = "llm"
	StrategyNone = "none"
)

const expansionSystemPrompt = `You rewrite a website visitor's question into search queries for a semantic search index over the site's own content.

Generate 3 to 5 short queries that cover different phrasings and sub-topics of the question. Keep each query under 15 words. Do not answer the question.

Respond with JSON only, in this exact shape:
{"queries": ["...", "..."]}`

// Expansion is the set of queries the retriever fans out over, plus how
// they were produced.
type Expansion struct {
	Queries  []string
	Strategy string
}

// Expander turns one user question into multiple search queries via the LLM.
// It never fails a request: any provider or parse problem degrades to the
// original question alone.
type Expander struct {
	llm     CompletionClient
	timeout time.Duration
}

func NewExpander(llm CompletionClient, timeout time.Duration) *Expander {
	return &Expander{llm: llm, timeout: timeout}
}

// Expand produces search queries for question. The original question is
// always the first query so recall never drops below single-query retrieval.
func (e *Expander) Expand(ctx context.Context, question, pagePath, conversationSummary string) Expansion {
	logger := contextutil.LoggerFromContext(ctx)
	degraded := Expansion{Queries: []string{question}, Strategy: StrategyNone}

	if !e.llm.HasCredential() {
		logger.Debug("query expansion skipped, no LLM credential")
		return degraded
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.llm.Complete(callCtx, expansionSystemPrompt, buildExpansionPrompt(question, pagePath, conversationSummary))
	if err != nil {
		logger.Warn("query expansion failed, using original question", slog.String("error", err.Error()))
		return degraded
	}

	queries := parseExpandedQueries(raw)
	if len(queries) == 0 {
		logger.Warn("query expansion returned no usable queries")
		return degraded
	}

	return Expansion{
		Queries:  mergeQueries(question, queries),
		Strategy: StrategyLLM,
	}
}

func buildExpansionPrompt(question, pagePath, conversationSummary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", question)
	if pagePath != "" {
		fmt.Fprintf(&b, "The visitor is currently on the page: %s\n", pagePath)
	}
	if conversationSummary != "" {
		fmt.Fprintf(&b, "Conversation so far: %s\n", conversationSummary)
	}
	return b.String()
}

// parseExpandedQueries accepts either the documented object shape or a bare
// JSON array, with or without a markdown code fence around it.
func parseExpandedQueries(raw string) []string {
	block := extractJSONBlock(raw)
	if block == "" {
		return nil
	}

	var wrapped struct {
		Queries []string `json:"queries"`
	}
	if err := json.Unmarshal([]byte(block), &wrapped); err == nil && len(wrapped.Queries) > 0 {
		return wrapped.Queries
	}

	var bare []string
	if err := json.Unmarshal([]byte(block), &bare); err == nil {
		return bare
	}
	return nil
}

// mergeQueries prepends the original question, trims and dedupes
// case-insensitively, and caps the result at maxExpandedQueries.
func mergeQueries(question string, expanded []string) []string {
	merged := make([]string, 0, maxExpandedQueries)
	seen := make(map[string]bool)
	for _, q := range append([]string{question}, expanded...) {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, q)
		if len(merged) == maxExpandedQueries {
			break
		}
	}
	return merged
}

// extractJSONBlock returns the outermost JSON object or array in raw,
// tolerating surrounding prose and markdown fences.
func extractJSONBlock(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(raw, pair[0])
		end := strings.LastIndex(raw, pair[1])
		if start >= 0 && end > start {
			return raw[start : end+1]
		}
	}
	return ""
}
