package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"siteassist/internal/handlers/mocks"
	"siteassist/internal/rag"
	"siteassist/internal/service"
)

func postAsk(t *testing.T, handler http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(encoded))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestAskHandlerConfidentResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockEngine(ctrl)
	mockEngine.EXPECT().
		Retrieve(gomock.Any(), rag.Request{Question: "What do you charge?", PagePath: "/pricing"}).
		Return(rag.Result{
			ContextText:       "Source: Pricing (https://example.com/pricing)\nPlans start at $99.",
			CitationURLs:      []string{"https://example.com/pricing"},
			HighConfidence:    true,
			ExpansionStrategy: rag.StrategyLLM,
			RerankMethod:      rag.MethodLLM,
		}, nil)

	w := postAsk(t, NewAskHandler(mockEngine), AskRequest{
		Question: "What do you charge?",
		PagePath: "/pricing",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp AskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.HighConfidence {
		t.Error("expected a high-confidence response")
	}
	if resp.Fallback != nil {
		t.Error("confident response should carry no fallback")
	}
	if len(resp.CitationURLs) != 1 || resp.CitationURLs[0] != "https://example.com/pricing" {
		t.Errorf("CitationURLs = %v", resp.CitationURLs)
	}
}

func TestAskHandlerLowConfidenceCarriesFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockEngine(ctrl)
	mockEngine.EXPECT().
		Retrieve(gomock.Any(), gomock.Any()).
		Return(rag.Result{
			HighConfidence: false,
			Fallback: &rag.FallbackResponse{
				Answer:    "I couldn't find that.",
				Citations: []string{},
				CTA:       "Reach out via the contact page.",
			},
		}, nil)

	w := postAsk(t, NewAskHandler(mockEngine), AskRequest{Question: "Do you sell llamas?"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp AskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Fallback == nil || resp.Fallback.CTA == "" {
		t.Errorf("expected a fallback with CTA, got %+v", resp.Fallback)
	}
	// Low confidence is still a 200 with an empty citation list, not an error.
	if resp.CitationURLs == nil {
		t.Error("citation_urls should encode as [] rather than null")
	}
}

func TestAskHandlerRejectsBadRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewAskHandler(mocks.NewMockEngine(ctrl))

	w := postAsk(t, handler, AskRequest{Question: ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty question: status = %d, want 400", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader("{not json"))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/ask", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET: status = %d, want 405", w.Code)
	}
}

func TestAskHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation error", &service.ValidationError{Field: "question", Message: "question must not be empty"}, http.StatusBadRequest},
		{"config error", service.WrapError(service.ErrConfig, "embedding credential missing"), http.StatusInternalServerError},
		{"provider error", service.WrapError(service.ErrProvider, "qdrant unreachable"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockEngine := mocks.NewMockEngine(ctrl)
			mockEngine.EXPECT().Retrieve(gomock.Any(), gomock.Any()).Return(rag.Result{}, tt.err)

			w := postAsk(t, NewAskHandler(mockEngine), AskRequest{Question: "anything"})
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
