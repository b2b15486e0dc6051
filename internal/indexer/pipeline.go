package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks siteassist/internal/indexer Embedder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"siteassist/internal/contextutil"
	"siteassist/internal/storage"
	"siteassist/internal/vectorstore"
)

// Embedder turns a batch of texts into fixed-dimension vectors.
// Defined from this package's perspective (consumer-first).
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline orchestrates indexing of content sources into SQLite and the
// vector store. Indexing runs as a batch job, separate from query traffic:
// unlike the retrieval pipeline it fails loudly instead of degrading.
type Pipeline struct {
	docRepo     storage.DocumentStore
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	vectorSize  int
	modelName   string
	chunker     *SentenceChunker
	logger      *slog.Logger
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(
	docRepo storage.DocumentStore,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	vectorSize int,
	modelName string,
) *Pipeline {
	return &Pipeline{
		docRepo:     docRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		vectorSize:  vectorSize,
		modelName:   modelName,
		chunker:     NewSentenceChunker(),
		logger:      slog.Default(),
	}
}

// IndexSource chunks, embeds, and stores one content source.
// Existing documents for the source URL are replaced wholesale.
// Returns the chunks indexed; zero chunks is a skip, not an error.
func (p *Pipeline) IndexSource(ctx context.Context, src ContentSource) ([]DocumentChunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	chunks := p.chunker.ChunkSource(src)
	if len(chunks) == 0 {
		logger.InfoContext(ctx, "source produced no chunks, skipping", "url", src.URL)
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks for %s: %w", src.URL, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch for %s: %d chunks, %d vectors", src.URL, len(chunks), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != p.vectorSize {
			return nil, fmt.Errorf("embedding %d for %s has dimension %d, expected %d", i, src.URL, len(vec), p.vectorSize)
		}
	}

	// Replace any previous index entries for this URL wholesale.
	oldIDs, err := p.docRepo.ListIDsByURL(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing documents for %s: %w", src.URL, err)
	}
	if len(oldIDs) > 0 {
		if err := p.vectorStore.Delete(ctx, p.collection, oldIDs); err != nil {
			return nil, fmt.Errorf("failed to delete old vectors for %s: %w", src.URL, err)
		}
		if err := p.docRepo.DeleteByURL(ctx, src.URL); err != nil {
			return nil, fmt.Errorf("failed to delete old documents for %s: %w", src.URL, err)
		}
	}

	points := make([]vectorstore.Point, 0, len(chunks))
	for i, chunk := range chunks {
		doc := &storage.SiteDocument{
			ID:      uuid.NewString(),
			URL:     chunk.URL,
			Title:   chunk.Title,
			Section: chunk.Section,
			Content: chunk.Content,
			Tags:    src.Tags,
		}
		if err := p.docRepo.Insert(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to insert document for %s: %w", src.URL, err)
		}

		emb := &storage.SiteEmbedding{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Dimension:  len(vectors[i]),
			Metadata:   map[string]any{"model": p.modelName, "chunker": ChunkerVersion},
		}
		if err := p.docRepo.InsertEmbedding(ctx, emb); err != nil {
			return nil, fmt.Errorf("failed to insert embedding for %s: %w", src.URL, err)
		}

		points = append(points, vectorstore.Point{
			ID:  doc.ID,
			Vec: vectors[i],
			Meta: map[string]any{
				"url":     chunk.URL,
				"title":   chunk.Title,
				"section": chunk.Section,
			},
		})
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return nil, fmt.Errorf("failed to upsert vectors for %s: %w", src.URL, err)
	}

	logger.InfoContext(ctx, "source indexed", "url", src.URL, "chunks", len(chunks))
	return chunks, nil
}

// IndexAll indexes a batch of content sources, continuing past per-source
// failures so one bad page cannot block a reindex.
func (p *Pipeline) IndexAll(ctx context.Context, sources []ContentSource) IndexStats {
	logger := contextutil.LoggerFromContext(ctx)

	stats := IndexStats{ChunkerVersion: ChunkerVersion}
	var allChunks []DocumentChunk

	for _, src := range sources {
		chunks, err := p.IndexSource(ctx, src)
		stats.SourcesProcessed++
		switch {
		case err != nil:
			stats.SourcesFailed++
			logger.ErrorContext(ctx, "failed to index source", "url", src.URL, "error", err)
		case len(chunks) == 0:
			stats.SourcesSkipped++
		default:
			stats.ChunksIndexed += len(chunks)
			allChunks = append(allChunks, chunks...)
		}
	}

	stats.TokenStats = computeTokenStats(allChunks)
	return stats
}
