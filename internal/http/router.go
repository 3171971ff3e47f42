package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"scheme-sahayak/internal/handlers"
	"scheme-sahayak/internal/rag"
	"scheme-sahayak/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	DB             *sql.DB
	Documents      storage.DocumentStore
	Chunks         storage.ChunkStore
	Engine         rag.Engine
	Pipeline       handlers.IngestPipeline
	GenerationKeys int
	ScraperReady   bool
}

// NewRouter creates the HTTP router with all API routes registered.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	chatHandler := handlers.NewChatHandler(deps.Engine)
	documentsHandler := handlers.NewDocumentsHandler(deps.Documents, deps.Chunks)
	ingestHandler := handlers.NewIngestHandler(deps.Pipeline)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.GenerationKeys, deps.ScraperReady)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodGet, "/documents", documentsHandler)
		r.Method(http.MethodDelete, "/documents", documentsHandler)
		r.Method(http.MethodPost, "/ingest", ingestHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
