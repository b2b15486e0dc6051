package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"siteassist/internal/contextutil"
)

const (
	// rerankSnippetRunes is how much of each chunk the scoring prompt sees.
	rerankSnippetRunes = 200

	// Rerank methods recorded on the result, most to least trustworthy.
	MethodLLM        = "llm"
	MethodSimilarity = "similarity"
	MethodRankOrder  = "rank_order"
	MethodNone       = "none"
)

const rerankSystemPrompt = `You score how relevant each content snippet is to a website visitor's question.

Score each snippet from 0 to 100:
- 90-100: directly answers the question
- 60-89: substantially on-topic, answers part of the question
- 30-59: related topic, does not answer the question
- 0-29: unrelated

Respond with JSON only, in this exact shape, one entry per snippet index:
{"scores": {"0": 85, "1": 10}}`

// RerankResult carries the rescored chunks and which scoring tier produced
// them, so callers can tell a genuine LLM ranking from a degraded one.
type RerankResult struct {
	Chunks []RankedChunk
	Method string
}

// Reranker rescores retrieval candidates against the original question with
// a single batch LLM call. It never fails a request: every provider or parse
// problem degrades to a cheaper scoring method.
type Reranker struct {
	llm     CompletionClient
	timeout time.Duration
}

func NewReranker(llm CompletionClient, timeout time.Duration) *Reranker {
	return &Reranker{llm: llm, timeout: timeout}
}

// Rerank orders candidates by relevance to question. Candidates must arrive
// sorted by similarity descending; the degraded tiers rely on that order.
func (r *Reranker) Rerank(ctx context.Context, question, pagePath string, candidates []RetrievedChunk) RerankResult {
	logger := contextutil.LoggerFromContext(ctx)

	if len(candidates) == 0 {
		return RerankResult{Chunks: []RankedChunk{}, Method: MethodNone}
	}
	if !r.llm.HasCredential() {
		logger.Debug("rerank skipped, no LLM credential")
		return RerankResult{Chunks: scoreByRankOrder(candidates), Method: MethodNone}
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.llm.Complete(callCtx, rerankSystemPrompt, buildRerankPrompt(question, pagePath, candidates))
	if err != nil {
		logger.Warn("rerank call failed, falling back to similarity scores",
			slog.String("error", err.Error()))
		return RerankResult{Chunks: scoreBySimilarity(candidates), Method: MethodSimilarity}
	}

	scores, ok := parseRerankScores(raw)
	if !ok {
		logger.Warn("rerank response unparseable, falling back to rank order")
		return RerankResult{Chunks: scoreByRankOrder(candidates), Method: MethodRankOrder}
	}

	ranked := make([]RankedChunk, len(candidates))
	for i, cand := range candidates {
		// A snippet the model did not score counts as irrelevant.
		score := clampScore(scores[strconv.Itoa(i)])
		ranked[i] = RankedChunk{RetrievedChunk: cand, RerankScore: &score}
	}
	sortRanked(ranked)
	return RerankResult{Chunks: ranked, Method: MethodLLM}
}

func buildRerankPrompt(question, pagePath string, candidates []RetrievedChunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", question)
	if pagePath != "" {
		fmt.Fprintf(&b, "The visitor is on page: %s\n", pagePath)
	}
	b.WriteString("\nSnippets:\n")
	for i, cand := range candidates {
		doc := cand.Document
		label := doc.Title
		if doc.Section != "" {
			label += " / " + doc.Section
		}
		fmt.Fprintf(&b, "[%d] %s (%s): %s\n", i, label, doc.URL, snippet(doc.Content, rerankSnippetRunes))
	}
	return b.String()
}

func snippet(content string, maxRunes int) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= maxRunes {
		return content
	}
	return string(runes[:maxRunes]) + "..."
}

// parseRerankScores accepts the documented wrapper shape or a bare
// index-to-score map.
func parseRerankScores(raw string) (map[string]float64, bool) {
	block := extractJSONBlock(raw)
	if block == "" {
		return nil, false
	}

	var wrapped struct {
		Scores map[string]float64 `json:"scores"`
	}
	if err := json.Unmarshal([]byte(block), &wrapped); err == nil && len(wrapped.Scores) > 0 {
		return wrapped.Scores, true
	}

	var bare map[string]float64
	if err := json.Unmarshal([]byte(block), &bare); err == nil && len(bare) > 0 {
		return bare, true
	}
	return nil, false
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// scoreBySimilarity maps cosine similarity onto the 0-100 scale.
func scoreBySimilarity(candidates []RetrievedChunk) []RankedChunk {
	ranked := make([]RankedChunk, len(candidates))
	for i, cand := range candidates {
		score := clampScore(cand.Similarity * 100)
		ranked[i] = RankedChunk{RetrievedChunk: cand, RerankScore: &score}
	}
	sortRanked(ranked)
	return ranked
}

// scoreByRankOrder preserves the incoming order without claiming any score.
func scoreByRankOrder(candidates []RetrievedChunk) []RankedChunk {
	ranked := make([]RankedChunk, len(candidates))
	for i, cand := range candidates {
		ranked[i] = RankedChunk{RetrievedChunk: cand}
	}
	return ranked
}

// sortRanked orders by rerank score descending, similarity as tiebreak.
func sortRanked(ranked []RankedChunk) {
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := ranked[i].RerankScore, ranked[j].RerankScore
		if si != nil && sj != nil && *si != *sj {
			return *si > *sj
		}
		return ranked[i].Similarity > ranked[j].Similarity
	})
}
