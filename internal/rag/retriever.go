package rag

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"siteassist/internal/contextutil"
	"siteassist/internal/service"
	"siteassist/internal/storage"
	"siteassist/internal/vectorstore"
)

// RetrieverConfig carries the tuning knobs for candidate collection.
type RetrieverConfig struct {
	// ScoreThreshold is the minimum cosine similarity for vector hits.
	ScoreThreshold float32
	// PerQueryCount is how many hits each expanded query may contribute.
	PerQueryCount int
	// CandidateTopK caps the merged candidate pool handed to reranking.
	CandidateTopK int
}

// Retriever collects candidate chunks for a question by fanning the expanded
// queries out over the vector store concurrently, plus one keyword search leg
// when full-text search is available.
type Retriever struct {
	embedder   EmbeddingClient
	vectors    vectorstore.VectorStore
	collection string
	docs       storage.DocumentStore
	cfg        RetrieverConfig
	timeout    time.Duration
}

func NewRetriever(embedder EmbeddingClient, vectors vectorstore.VectorStore, collection string, docs storage.DocumentStore, cfg RetrieverConfig, timeout time.Duration) *Retriever {
	return &Retriever{
		embedder:   embedder,
		vectors:    vectors,
		collection: collection,
		docs:       docs,
		cfg:        cfg,
		timeout:    timeout,
	}
}

// candidate is one merged hit keyed by document ID. Keyword hits arrive with
// the document already loaded; vector hits are hydrated after the merge.
type candidate struct {
	id         string
	similarity float64
	doc        *storage.SiteDocument
}

// Retrieve runs all search legs and returns the merged, deduplicated
// candidate pool sorted by similarity, at most CandidateTopK entries.
//
// Individual leg failures are logged and dropped so one bad query cannot
// sink the request. The only error returned is a configuration error, which
// no retry or degradation can fix.
func (r *Retriever) Retrieve(ctx context.Context, queries []string, originalQuery string) ([]RetrievedChunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	perQuery := make([][]candidate, len(queries))
	var keywordHits []candidate

	g, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		g.Go(func() error {
			hits, err := r.searchVector(gctx, query)
			if err != nil {
				if errors.Is(err, service.ErrConfig) {
					return err
				}
				logger.Warn("vector search leg failed",
					slog.String("query", query),
					slog.String("error", err.Error()))
				return nil
			}
			perQuery[i] = hits
			return nil
		})
	}
	g.Go(func() error {
		hits, err := r.searchKeyword(gctx, originalQuery)
		if err != nil {
			logger.Warn("keyword search leg failed", slog.String("error", err.Error()))
			return nil
		}
		keywordHits = hits
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]candidate)
	for _, hits := range perQuery {
		mergeCandidates(merged, hits)
	}
	mergeCandidates(merged, keywordHits)

	chunks := r.hydrate(ctx, merged)
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Similarity > chunks[j].Similarity
	})
	if len(chunks) > r.cfg.CandidateTopK {
		chunks = chunks[:r.cfg.CandidateTopK]
	}
	return chunks, nil
}

func (r *Retriever) searchVector(ctx context.Context, query string) ([]candidate, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	vector, err := r.embedder.EmbedText(callCtx, query)
	if err != nil {
		return nil, err
	}
	results, err := r.vectors.Search(callCtx, r.collection, vector, r.cfg.PerQueryCount, r.cfg.ScoreThreshold)
	if err != nil {
		return nil, err
	}

	hits := make([]candidate, 0, len(results))
	for _, res := range results {
		hits = append(hits, candidate{id: res.PointID, similarity: float64(res.Score)})
	}
	return hits, nil
}

// searchKeyword is the lexical leg. It is skipped, not failed, when the
// database was built without full-text support.
func (r *Retriever) searchKeyword(ctx context.Context, query string) ([]candidate, error) {
	if !r.docs.KeywordSearchAvailable() {
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	docs, err := r.docs.KeywordSearch(callCtx, query, r.cfg.PerQueryCount)
	if err != nil {
		return nil, err
	}

	hits := make([]candidate, 0, len(docs))
	for _, doc := range docs {
		hits = append(hits, candidate{id: doc.ID, similarity: storage.KeywordDefaultSimilarity, doc: &doc})
	}
	return hits, nil
}

// mergeCandidates keeps the maximum similarity per document ID, so a chunk
// matched by several queries keeps its best score without double-counting.
func mergeCandidates(merged map[string]candidate, hits []candidate) {
	for _, hit := range hits {
		existing, ok := merged[hit.id]
		if !ok {
			merged[hit.id] = hit
			continue
		}
		if hit.similarity > existing.similarity {
			existing.similarity = hit.similarity
		}
		if existing.doc == nil {
			existing.doc = hit.doc
		}
		merged[hit.id] = existing
	}
}

// hydrate loads document rows for candidates that only have a point ID.
// Candidates whose row has vanished (reindex race) are dropped.
func (r *Retriever) hydrate(ctx context.Context, merged map[string]candidate) []RetrievedChunk {
	logger := contextutil.LoggerFromContext(ctx)

	chunks := make([]RetrievedChunk, 0, len(merged))
	for id, cand := range merged {
		if cand.doc == nil {
			doc, err := r.docs.GetByID(ctx, id)
			if err != nil {
				if !errors.Is(err, service.ErrNotFound) {
					logger.Warn("failed to load candidate document",
						slog.String("document_id", id),
						slog.String("error", err.Error()))
				}
				continue
			}
			cand.doc = doc
		}
		chunks = append(chunks, RetrievedChunk{Document: *cand.doc, Similarity: cand.similarity})
	}
	return chunks
}
