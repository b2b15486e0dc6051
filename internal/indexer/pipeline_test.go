package indexer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	indexer_mocks "siteassist/internal/indexer/mocks"
	storage_mocks "siteassist/internal/storage/mocks"
	"siteassist/internal/vectorstore"
	vectorstore_mocks "siteassist/internal/vectorstore/mocks"
)

func testSource() ContentSource {
	return ContentSource{
		URL:     "https://example.com/pricing",
		Title:   "Pricing",
		Content: "Chatbot plans start at $99 per month. Enterprise plans are custom.",
	}
}

func TestIndexSourceStoresChunksAndVectors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDocs := storage_mocks.NewMockDocumentStore(ctrl)
	mockEmbedder := indexer_mocks.NewMockEmbedder(ctrl)
	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)

	pipeline := NewPipeline(mockDocs, mockEmbedder, mockVectorStore, "site_content", 4, "test-model")
	ctx := context.Background()

	mockEmbedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{0.1, 0.2, 0.3, 0.4}
			}
			return vectors, nil
		})

	mockDocs.EXPECT().ListIDsByURL(gomock.Any(), "https://example.com/pricing").Return(nil, nil)
	mockDocs.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil).MinTimes(1)
	mockDocs.EXPECT().InsertEmbedding(gomock.Any(), gomock.Any()).Return(nil).MinTimes(1)
	mockVectorStore.EXPECT().
		Upsert(gomock.Any(), "site_content", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, points []vectorstore.Point) error {
			if len(points) == 0 {
				t.Error("expected at least one point")
			}
			for _, p := range points {
				if p.Meta["url"] != "https://example.com/pricing" {
					t.Errorf("point url = %v", p.Meta["url"])
				}
			}
			return nil
		})

	chunks, err := pipeline.IndexSource(ctx, testSource())
	if err != nil {
		t.Fatalf("IndexSource() unexpected error: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected chunks to be indexed")
	}
}

func TestIndexSourceReplacesExistingDocuments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDocs := storage_mocks.NewMockDocumentStore(ctrl)
	mockEmbedder := indexer_mocks.NewMockEmbedder(ctrl)
	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)

	pipeline := NewPipeline(mockDocs, mockEmbedder, mockVectorStore, "site_content", 4, "test-model")
	ctx := context.Background()

	mockEmbedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{0.1, 0.2, 0.3, 0.4}
			}
			return vectors, nil
		})

	oldIDs := []string{"old-1", "old-2"}
	mockDocs.EXPECT().ListIDsByURL(gomock.Any(), gomock.Any()).Return(oldIDs, nil)
	mockVectorStore.EXPECT().Delete(gomock.Any(), "site_content", oldIDs).Return(nil)
	mockDocs.EXPECT().DeleteByURL(gomock.Any(), "https://example.com/pricing").Return(nil)
	mockDocs.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil).MinTimes(1)
	mockDocs.EXPECT().InsertEmbedding(gomock.Any(), gomock.Any()).Return(nil).MinTimes(1)
	mockVectorStore.EXPECT().Upsert(gomock.Any(), "site_content", gomock.Any()).Return(nil)

	if _, err := pipeline.IndexSource(ctx, testSource()); err != nil {
		t.Fatalf("IndexSource() unexpected error: %v", err)
	}
}

func TestIndexSourceRejectsWrongDimension(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDocs := storage_mocks.NewMockDocumentStore(ctrl)
	mockEmbedder := indexer_mocks.NewMockEmbedder(ctrl)
	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)

	pipeline := NewPipeline(mockDocs, mockEmbedder, mockVectorStore, "site_content", 4, "test-model")

	mockEmbedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{0.1, 0.2} // wrong dimension
			}
			return vectors, nil
		})

	_, err := pipeline.IndexSource(context.Background(), testSource())
	if err == nil || !strings.Contains(err.Error(), "dimension") {
		t.Fatalf("expected dimension error, got %v", err)
	}
}

func TestIndexSourceEmptyContentIsSkip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDocs := storage_mocks.NewMockDocumentStore(ctrl)
	mockEmbedder := indexer_mocks.NewMockEmbedder(ctrl)
	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)

	pipeline := NewPipeline(mockDocs, mockEmbedder, mockVectorStore, "site_content", 4, "test-model")

	chunks, err := pipeline.IndexSource(context.Background(), ContentSource{URL: "https://example.com/empty"})
	if err != nil {
		t.Fatalf("IndexSource() unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected zero chunks, got %d", len(chunks))
	}
}

func TestIndexAllContinuesPastFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDocs := storage_mocks.NewMockDocumentStore(ctrl)
	mockEmbedder := indexer_mocks.NewMockEmbedder(ctrl)
	mockVectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)

	pipeline := NewPipeline(mockDocs, mockEmbedder, mockVectorStore, "site_content", 4, "test-model")
	ctx := context.Background()

	// First source fails at embedding; second succeeds.
	first := mockEmbedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("provider down"))
	mockEmbedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		After(first).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{0.1, 0.2, 0.3, 0.4}
			}
			return vectors, nil
		})

	mockDocs.EXPECT().ListIDsByURL(gomock.Any(), gomock.Any()).Return(nil, nil)
	mockDocs.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil).MinTimes(1)
	mockDocs.EXPECT().InsertEmbedding(gomock.Any(), gomock.Any()).Return(nil).MinTimes(1)
	mockVectorStore.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	sources := []ContentSource{
		{URL: "https://example.com/bad", Title: "Bad", Content: "Content that will fail to embed."},
		{URL: "https://example.com/good", Title: "Good", Content: "Content that embeds fine."},
	}

	stats := pipeline.IndexAll(ctx, sources)
	if stats.SourcesProcessed != 2 {
		t.Errorf("SourcesProcessed = %d, want 2", stats.SourcesProcessed)
	}
	if stats.SourcesFailed != 1 {
		t.Errorf("SourcesFailed = %d, want 1", stats.SourcesFailed)
	}
	if stats.ChunksIndexed == 0 {
		t.Error("expected chunks indexed from the good source")
	}
}
