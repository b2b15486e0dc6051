package rag

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// cacheProtocolVersion versions the cached value layout. Bump it whenever
// the serialized chunk shape changes; old entries then simply stop matching.
const cacheProtocolVersion = "v2"

// KeySpec pins every input that makes cached results comparable. Two
// requests share a cache entry only when all of these match, so a config
// tweak, model swap, or content reindex can never serve stale results.
type KeySpec struct {
	Environment    string
	ContentVersion string

	EmbeddingModel string
	LLMModel       string
	PromptVersion  string

	VectorScoreThreshold float32
	PerQueryCount        int
	CandidateTopK        int
	SelectTopK           int
	MinChunksSelected    int
	RerankThreshold      float64
	SimilarityThreshold  float64
}

// KeyBuilder produces versioned cache keys. The config and model hashes are
// computed once at construction since they are fixed for a process lifetime.
type KeyBuilder struct {
	env            string
	contentVersion string
	configHash     string
	modelHash      string
}

func NewKeyBuilder(spec KeySpec) *KeyBuilder {
	configHash := shortHash(fmt.Sprintf("%g|%d|%d|%d|%d|%g|%g",
		spec.VectorScoreThreshold,
		spec.PerQueryCount,
		spec.CandidateTopK,
		spec.SelectTopK,
		spec.MinChunksSelected,
		spec.RerankThreshold,
		spec.SimilarityThreshold,
	), 12)
	modelHash := shortHash(spec.EmbeddingModel+"|"+spec.LLMModel+"|"+spec.PromptVersion, 12)

	return &KeyBuilder{
		env:            spec.Environment,
		contentVersion: spec.ContentVersion,
		configHash:     configHash,
		modelHash:      modelHash,
	}
}

// BuildKey returns the cache key for one (query, page) pair.
func (b *KeyBuilder) BuildKey(query, pagePath string) string {
	queryHash := shortHash(NormalizeQuery(query)+"|"+pagePath, 16)
	return strings.Join([]string{
		"rag", cacheProtocolVersion, b.env, b.contentVersion, b.configHash, b.modelHash, queryHash,
	}, ":")
}

// NormalizeQuery canonicalizes a question so trivial variants ("What's your
// pricing?" vs "whats your pricing") share a cache entry: Unicode
// compatibility normalization, lowercasing, punctuation stripped, whitespace
// collapsed.
func NormalizeQuery(query string) string {
	query = strings.ToLower(norm.NFKC.String(query))

	var b strings.Builder
	b.Grow(len(query))
	for _, r := range query {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func shortHash(input string, length int) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:length]
}
