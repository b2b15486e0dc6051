package handlers

import (
	"encoding/json"
	"net/http"

	"siteassist/internal/contextutil"
	"siteassist/internal/storage"
)

// defaultFlushPattern matches every retrieval cache entry.
const defaultFlushPattern = "rag:*"

// CacheHandler handles HTTP requests for flushing the result cache.
type CacheHandler struct {
	cache storage.CacheStore
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(cache storage.CacheStore) *CacheHandler {
	return &CacheHandler{cache: cache}
}

// CacheFlushRequest optionally narrows the flush to a key glob, for example
// "rag:v2:prod:*" after a production content update.
type CacheFlushRequest struct {
	Pattern string `json:"pattern,omitempty"`
}

// CacheFlushResponse reports how many entries were removed.
type CacheFlushResponse struct {
	Deleted int64  `json:"deleted"`
	Pattern string `json:"pattern"`
}

// ServeHTTP handles HTTP requests for cache flushes.
func (h *CacheHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	pattern := defaultFlushPattern
	if r.Body != nil && r.ContentLength != 0 {
		var req CacheFlushRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WarnContext(ctx, "invalid request body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Pattern != "" {
			pattern = req.Pattern
		}
	}

	deleted, err := h.cache.DeleteByPattern(ctx, pattern)
	if err != nil {
		logger.ErrorContext(ctx, "cache flush failed", "pattern", pattern, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to flush cache")
		return
	}

	logger.InfoContext(ctx, "cache flushed", "pattern", pattern, "deleted", deleted)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(CacheFlushResponse{Deleted: deleted, Pattern: pattern})
}
