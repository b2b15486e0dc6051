package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"siteassist/internal/handlers"
	"siteassist/internal/indexer"
	"siteassist/internal/rag"
	"siteassist/internal/storage"
	"siteassist/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine          rag.Engine
	IndexerPipeline *indexer.Pipeline
	CacheStore      storage.CacheStore
	DocumentStore   storage.DocumentStore
	VectorStore     vectorstore.VectorStore
	DB              *sql.DB
	CollectionName  string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.Engine)
	indexHandler := handlers.NewIndexHandler(deps.IndexerPipeline)
	cacheHandler := handlers.NewCacheHandler(deps.CacheStore)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.VectorStore, deps.DocumentStore, deps.CollectionName)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodPost, "/index", indexHandler)
		r.Method(http.MethodPost, "/cache/flush", cacheHandler)
	})
	r.Method(http.MethodGet, "/health", healthHandler)

	return r
}
