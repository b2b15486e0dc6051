package http

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"

	handlers_mocks "siteassist/internal/handlers/mocks"
	"siteassist/internal/indexer"
	indexer_mocks "siteassist/internal/indexer/mocks"
	"siteassist/internal/storage"
	storage_mocks "siteassist/internal/storage/mocks"
	vectorstore_mocks "siteassist/internal/vectorstore/mocks"
)

func testDeps(t *testing.T, ctrl *gomock.Controller) *Deps {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "router.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	mockDocs := storage_mocks.NewMockDocumentStore(ctrl)
	mockDocs.EXPECT().KeywordSearchAvailable().Return(false).AnyTimes()
	mockVectors := vectorstore_mocks.NewMockVectorStore(ctrl)
	mockVectors.EXPECT().CollectionExists(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()

	return &Deps{
		Engine:          handlers_mocks.NewMockEngine(ctrl),
		IndexerPipeline: indexer.NewPipeline(mockDocs, indexer_mocks.NewMockEmbedder(ctrl), mockVectors, "site_content", 4, "test-model"),
		CacheStore:      storage_mocks.NewMockCacheStore(ctrl),
		DocumentStore:   mockDocs,
		VectorStore:     mockVectors,
		DB:              db,
		CollectionName:  "site_content",
	}
}

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	if router := NewRouter(testDeps(t, ctrl)); router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouterRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(testDeps(t, ctrl))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "GET /health exists",
			method:     http.MethodGet,
			path:       "/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/ask exists",
			method:     http.MethodPost,
			path:       "/api/ask",
			wantStatus: http.StatusBadRequest, // Bad request due to empty body, but route exists
		},
		{
			name:       "POST /api/index exists",
			method:     http.MethodPost,
			path:       "/api/index",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/ask method not allowed",
			method:     http.MethodGet,
			path:       "/api/ask",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}
