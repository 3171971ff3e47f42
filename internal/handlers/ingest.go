package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"scheme-sahayak/internal/contextutil"
	"scheme-sahayak/internal/indexer"
	"scheme-sahayak/internal/scrape"
)

// IngestPipeline is the slice of the indexing pipeline the admin
// endpoint drives.
type IngestPipeline interface {
	IngestText(ctx context.Context, title, sourceURL, content string) (int, error)
	IngestURL(ctx context.Context, pageURL string) (int, error)
	SearchAndIngest(ctx context.Context, query string) (indexer.SearchIngestReport, error)
}

// IngestHandler handles HTTP requests for manual ingestion.
type IngestHandler struct {
	pipeline IngestPipeline
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(pipeline IngestPipeline) *IngestHandler {
	return &IngestHandler{pipeline: pipeline}
}

// IngestRequest represents the HTTP request payload for ingestion.
// Action selects the mode: "ingest_text", "ingest_url", or
// "search_and_ingest".
type IngestRequest struct {
	Action  string `json:"action"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Query   string `json:"query"`
}

// IngestResponse represents the HTTP response payload for ingestion.
// Chunks reports single-source ingestion; Indexed and Results report a
// search-and-ingest run.
type IngestResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Chunks  int                 `json:"chunksIndexed,omitempty"`
	Indexed int                 `json:"indexed,omitempty"`
	Results []indexer.URLStatus `json:"results,omitempty"`
}

// ServeHTTP handles POST /api/ingest.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Action {
	case "ingest_text":
		if req.Content == "" {
			writeError(ctx, w, http.StatusBadRequest, "content is required")
			return
		}
		chunks, err := h.pipeline.IngestText(ctx, req.Title, req.URL, req.Content)
		h.respond(ctx, w, IngestResponse{
			Message: fmt.Sprintf("Indexed %d chunks", chunks),
			Chunks:  chunks,
		}, err)

	case "ingest_url":
		if req.URL == "" {
			writeError(ctx, w, http.StatusBadRequest, "url is required")
			return
		}
		chunks, err := h.pipeline.IngestURL(ctx, req.URL)
		h.respond(ctx, w, IngestResponse{
			Message: fmt.Sprintf("Indexed %d chunks", chunks),
			Chunks:  chunks,
		}, err)

	case "search_and_ingest":
		if req.Query == "" {
			writeError(ctx, w, http.StatusBadRequest, "query is required")
			return
		}
		report, err := h.pipeline.SearchAndIngest(ctx, req.Query)
		h.respond(ctx, w, IngestResponse{
			Message: fmt.Sprintf("Indexed %d documents", report.Indexed),
			Indexed: report.Indexed,
			Results: report.Results,
		}, err)

	default:
		logger.WarnContext(ctx, "unknown ingest action", "action", req.Action)
		writeError(ctx, w, http.StatusBadRequest, "Unknown action")
	}
}

// respond maps pipeline outcomes to HTTP. Duplicates are a successful
// no-op from the client's point of view, not an error status.
func (h *IngestHandler) respond(ctx context.Context, w http.ResponseWriter, resp IngestResponse, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	switch {
	case err == nil:
		resp.Success = true
		writeJSON(ctx, w, http.StatusOK, resp)
	case errors.Is(err, indexer.ErrAlreadyIndexed):
		writeJSON(ctx, w, http.StatusOK, IngestResponse{
			Success: false,
			Message: "Content already indexed",
		})
	case errors.Is(err, indexer.ErrContentTooShort):
		writeError(ctx, w, http.StatusBadRequest, "Content too short or empty after cleaning")
	case errors.Is(err, scrape.ErrDisallowedDomain):
		writeError(ctx, w, http.StatusBadRequest, "URL is not on an allowed government domain")
	case errors.Is(err, indexer.ErrScraperNotConfigured):
		writeError(ctx, w, http.StatusInternalServerError, "Scraping service not configured")
	default:
		logger.ErrorContext(ctx, "ingestion failed", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Ingestion failed")
	}
}
