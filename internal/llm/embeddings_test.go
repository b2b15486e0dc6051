package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"siteassist/internal/service"
)

func embeddingsServer(t *testing.T, dims []int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req EmbeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		resp := EmbeddingsResponse{}
		for i := range req.Input {
			dim := dims[i%len(dims)]
			vec := make([]float64, dim)
			for j := range vec {
				vec[j] = 0.1
			}
			resp.Data = append(resp.Data, EmbeddingData{Embedding: vec})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestEmbedTextsValidatesDimension(t *testing.T) {
	server := embeddingsServer(t, []int{4})
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 4)
	vectors, err := client.EmbedTexts(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("EmbedTexts() unexpected error: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != 4 {
			t.Errorf("vector %d has size %d, want 4", i, len(vec))
		}
	}
}

func TestEmbedTextsRejectsDimensionMismatch(t *testing.T) {
	server := embeddingsServer(t, []int{8})
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 4)
	_, err := client.EmbedTexts(context.Background(), []string{"a"})
	if !errors.Is(err, service.ErrProvider) {
		t.Fatalf("expected ErrProvider on dimension mismatch, got %v", err)
	}
}

func TestEmbedTextsRejectsEmptyVector(t *testing.T) {
	server := embeddingsServer(t, []int{0})
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 4)
	_, err := client.EmbedTexts(context.Background(), []string{"a"})
	if !errors.Is(err, service.ErrProvider) {
		t.Fatalf("expected ErrProvider on empty vector, got %v", err)
	}
}

func TestEmbedTextsWithoutCredentialIsConfigError(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:1", "", "test-model", 4)
	_, err := client.EmbedTexts(context.Background(), []string{"a"})
	if !errors.Is(err, service.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestEmbedTextsEmptyInput(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:1", "key", "test-model", 4)
	if _, err := client.EmbedTexts(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestEmbedTextCountMismatchIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(EmbeddingsResponse{})
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 4)
	_, err := client.EmbedText(context.Background(), "a")
	if !errors.Is(err, service.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}
