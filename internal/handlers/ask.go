package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks siteassist/internal/rag Engine

import (
	"encoding/json"
	"errors"
	"net/http"

	"siteassist/internal/contextutil"
	"siteassist/internal/rag"
	"siteassist/internal/service"
)

// AskHandler handles HTTP requests for retrieval queries.
type AskHandler struct {
	engine rag.Engine
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(engine rag.Engine) *AskHandler {
	return &AskHandler{engine: engine}
}

// AskRequest represents the HTTP request payload for retrieval queries.
// This mirrors rag.Request but is defined here for HTTP layer separation.
type AskRequest struct {
	Question            string `json:"question"`
	PagePath            string `json:"page_path,omitempty"`
	ConversationSummary string `json:"conversation_summary,omitempty"`
}

// AskResponse represents the HTTP response payload for retrieval queries.
type AskResponse struct {
	// ContextText is the formatted context block, empty on low confidence.
	ContextText string `json:"context_text"`

	// CitationURLs lists the source pages behind the context, in rank order.
	CitationURLs []string `json:"citation_urls"`

	// HighConfidence reports whether the retrieval cleared the gate.
	HighConfidence bool `json:"high_confidence"`

	// Fallback carries the clarifying response on low confidence.
	Fallback *FallbackResponse `json:"fallback_response,omitempty"`

	// How the result was produced, for clients and dashboards.
	ExpansionStrategy string `json:"expansion_strategy,omitempty"`
	RerankMethod      string `json:"rerank_method,omitempty"`
	CacheHit          bool   `json:"cache_hit"`
}

// FallbackResponse mirrors rag.FallbackResponse for the HTTP layer.
type FallbackResponse struct {
	Answer    string   `json:"answer"`
	Citations []string `json:"citations"`
	CTA       string   `json:"cta"`
	Options   []string `json:"options,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for retrieval queries.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	result, err := h.engine.Retrieve(ctx, rag.Request{
		Question:            req.Question,
		PagePath:            req.PagePath,
		ConversationSummary: req.ConversationSummary,
	})
	if err != nil {
		handleEngineError(w, r, err)
		return
	}

	resp := AskResponse{
		ContextText:       result.ContextText,
		CitationURLs:      result.CitationURLs,
		HighConfidence:    result.HighConfidence,
		ExpansionStrategy: result.ExpansionStrategy,
		RerankMethod:      result.RerankMethod,
		CacheHit:          result.CacheHit,
	}
	if result.Fallback != nil {
		resp.Fallback = &FallbackResponse{
			Answer:    result.Fallback.Answer,
			Citations: result.Fallback.Citations,
			CTA:       result.Fallback.CTA,
			Options:   result.Fallback.Options,
		}
	}
	if resp.CitationURLs == nil {
		resp.CitationURLs = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// handleEngineError maps pipeline errors to HTTP status codes.
func handleEngineError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		logger.WarnContext(ctx, "invalid retrieval request", "error", err)
		writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, service.ErrConfig):
		logger.ErrorContext(ctx, "retrieval aborted by configuration error", "error", err)
		writeError(w, http.StatusInternalServerError, "Service misconfigured")
	case errors.Is(err, service.ErrProvider):
		logger.ErrorContext(ctx, "external provider error", "error", err)
		writeError(w, http.StatusBadGateway, "External service error")
	default:
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process query")
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
