package rag

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"siteassist/internal/contextutil"
	"siteassist/internal/service"
	"siteassist/internal/storage"
)

// ttlJitterFraction spreads expiry ±10% around the base TTL so entries
// written together do not all expire in the same instant.
const ttlJitterFraction = 0.10

// ResultCache stores final ranked chunk sets keyed by KeyBuilder keys.
//
// It fails open in both directions: a backend error on read is a miss, a
// backend error on write is dropped. The cache can make requests cheaper,
// never make them fail.
type ResultCache struct {
	store storage.CacheStore
	keys  *KeyBuilder
	ttl   time.Duration
}

func NewResultCache(store storage.CacheStore, keys *KeyBuilder, ttl time.Duration) *ResultCache {
	return &ResultCache{store: store, keys: keys, ttl: ttl}
}

// cachedChunk is the serialized form of a RankedChunk. A dedicated type so
// the wire shape is explicit and validated independently of the domain type.
type cachedChunk struct {
	Document   cachedDocument `json:"document"`
	Similarity float64        `json:"similarity"`
	Score      *float64       `json:"score,omitempty"`
}

type cachedDocument struct {
	ID      string   `json:"id"`
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	Section string   `json:"section,omitempty"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// Get returns the cached chunk set for (query, pagePath), or ok=false on any
// miss, expiry, backend failure, or structural anomaly in the stored value.
func (c *ResultCache) Get(ctx context.Context, query, pagePath string) ([]RankedChunk, bool) {
	logger := contextutil.LoggerFromContext(ctx)

	key := c.keys.BuildKey(query, pagePath)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			logger.Warn("cache read failed, treating as miss",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return nil, false
	}

	chunks, ok := decodeCachedChunks(data)
	if !ok {
		logger.Warn("discarding structurally invalid cache entry", slog.String("key", key))
		return nil, false
	}
	return chunks, true
}

// Set stores the chunk set with a jittered TTL. Failures are logged, never
// returned.
func (c *ResultCache) Set(ctx context.Context, query, pagePath string, chunks []RankedChunk) {
	logger := contextutil.LoggerFromContext(ctx)

	encoded := make([]cachedChunk, len(chunks))
	for i, chunk := range chunks {
		doc := chunk.Document
		encoded[i] = cachedChunk{
			Document: cachedDocument{
				ID:      doc.ID,
				URL:     doc.URL,
				Title:   doc.Title,
				Section: doc.Section,
				Content: doc.Content,
				Tags:    doc.Tags,
			},
			Similarity: chunk.Similarity,
			Score:      chunk.RerankScore,
		}
	}

	data, err := json.Marshal(encoded)
	if err != nil {
		logger.Warn("failed to encode cache entry", slog.String("error", err.Error()))
		return
	}

	key := c.keys.BuildKey(query, pagePath)
	if err := c.store.Set(ctx, key, data, jitterTTL(c.ttl)); err != nil {
		logger.Warn("cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// decodeCachedChunks validates the stored value strictly: it must be an
// array of chunks whose documents carry an ID, URL, and content. Anything
// else is treated as a miss rather than propagated.
func decodeCachedChunks(data []byte) ([]RankedChunk, bool) {
	var encoded []cachedChunk
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, false
	}

	chunks := make([]RankedChunk, len(encoded))
	for i, entry := range encoded {
		if entry.Document.ID == "" || entry.Document.URL == "" || entry.Document.Content == "" {
			return nil, false
		}
		chunks[i] = RankedChunk{
			RetrievedChunk: RetrievedChunk{
				Document: storage.SiteDocument{
					ID:      entry.Document.ID,
					URL:     entry.Document.URL,
					Title:   entry.Document.Title,
					Section: entry.Document.Section,
					Content: entry.Document.Content,
					Tags:    entry.Document.Tags,
				},
				Similarity: entry.Similarity,
			},
			RerankScore: entry.Score,
		}
	}
	return chunks, true
}

// jitterTTL returns base scaled by a uniform factor in [0.9, 1.1].
func jitterTTL(base time.Duration) time.Duration {
	factor := 1 - ttlJitterFraction + 2*ttlJitterFraction*rand.Float64()
	return time.Duration(float64(base) * factor)
}
