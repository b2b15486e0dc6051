package handlers

import (
	"encoding/json"
	"net/http"

	"siteassist/internal/contextutil"
	"siteassist/internal/indexer"
)

// IndexHandler handles HTTP requests for indexing site content.
type IndexHandler struct {
	pipeline *indexer.Pipeline
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(pipeline *indexer.Pipeline) *IndexHandler {
	return &IndexHandler{pipeline: pipeline}
}

// IndexRequest carries the content sources to (re)index. Each source
// replaces whatever was previously indexed under its URL.
type IndexRequest struct {
	Sources []IndexSource `json:"sources"`
}

// IndexSource is one page or content item to index.
type IndexSource struct {
	URL      string         `json:"url"`
	Title    string         `json:"title"`
	Content  string         `json:"content,omitempty"`
	Sections []IndexSection `json:"sections,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
}

// IndexSection is an explicit section of a source.
type IndexSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// IndexResponse reports what the indexing run did.
type IndexResponse struct {
	SourcesProcessed int     `json:"sources_processed"`
	SourcesSkipped   int     `json:"sources_skipped"`
	SourcesFailed    int     `json:"sources_failed"`
	ChunksIndexed    int     `json:"chunks_indexed"`
	TokenMin         int     `json:"token_min"`
	TokenMax         int     `json:"token_max"`
	TokenMean        float64 `json:"token_mean"`
	ChunkerVersion   string  `json:"chunker_version"`
}

// ServeHTTP handles HTTP requests for indexing. The run is synchronous:
// callers supply the content and get the resulting stats back.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req IndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Sources) == 0 {
		writeError(w, http.StatusBadRequest, "At least one source is required")
		return
	}
	for _, src := range req.Sources {
		if src.URL == "" {
			writeError(w, http.StatusBadRequest, "Every source needs a url")
			return
		}
	}

	sources := make([]indexer.ContentSource, len(req.Sources))
	for i, src := range req.Sources {
		sections := make([]indexer.Section, len(src.Sections))
		for j, sec := range src.Sections {
			sections[j] = indexer.Section{Title: sec.Title, Content: sec.Content}
		}
		sources[i] = indexer.ContentSource{
			URL:      src.URL,
			Title:    src.Title,
			Content:  src.Content,
			Sections: sections,
			Tags:     src.Tags,
		}
	}

	logger.InfoContext(ctx, "indexing triggered via API", "sources", len(sources))
	stats := h.pipeline.IndexAll(ctx, sources)

	status := http.StatusOK
	if stats.SourcesFailed > 0 && stats.ChunksIndexed == 0 {
		status = http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(IndexResponse{
		SourcesProcessed: stats.SourcesProcessed,
		SourcesSkipped:   stats.SourcesSkipped,
		SourcesFailed:    stats.SourcesFailed,
		ChunksIndexed:    stats.ChunksIndexed,
		TokenMin:         stats.TokenStats.Min,
		TokenMax:         stats.TokenStats.Max,
		TokenMean:        stats.TokenStats.Mean,
		ChunkerVersion:   stats.ChunkerVersion,
	})
}
