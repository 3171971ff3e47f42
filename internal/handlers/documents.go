package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"scheme-sahayak/internal/contextutil"
	"scheme-sahayak/internal/storage"
)

// maxCountWorkers bounds concurrent chunk-count queries during listing.
const maxCountWorkers = 8

// DocumentsHandler handles HTTP requests for the document inventory.
type DocumentsHandler struct {
	docs   storage.DocumentStore
	chunks storage.ChunkStore
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(docs storage.DocumentStore, chunks storage.ChunkStore) *DocumentsHandler {
	return &DocumentsHandler{docs: docs, chunks: chunks}
}

// DocumentInfo is one entry of the document listing.
type DocumentInfo struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	SourceURL  string `json:"sourceUrl"`
	SourceType string `json:"sourceType"`
	Category   string `json:"category"`
	Domain     string `json:"domain"`
	ChunkCount int    `json:"chunkCount"`
	CreatedAt  string `json:"createdAt"`
}

// ListResponse is the document listing payload.
type ListResponse struct {
	Documents []DocumentInfo `json:"documents"`
	Stats     storage.Stats  `json:"stats"`
}

// DeleteRequest identifies the document to remove.
type DeleteRequest struct {
	DocumentID string `json:"documentId"`
}

// ServeHTTP handles GET and DELETE on /api/documents.
func (h *DocumentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		writeError(r.Context(), w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// list returns every document with its chunk count. Counts are always
// computed from the chunks table; the fan-out is bounded so a large
// knowledge base cannot exhaust the connection pool.
func (h *DocumentsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := h.docs.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	infos := make([]DocumentInfo, len(docs))
	sem := make(chan struct{}, maxCountWorkers)
	var wg sync.WaitGroup
	for i, doc := range docs {
		infos[i] = DocumentInfo{
			ID:         doc.ID,
			Title:      doc.Title,
			SourceURL:  doc.SourceURL,
			SourceType: doc.SourceType,
			Category:   doc.Category,
			Domain:     doc.Domain,
			CreatedAt:  doc.CreatedAt.Format(time.RFC3339),
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()

			count, err := h.chunks.CountByDocument(ctx, id)
			if err != nil {
				logger.WarnContext(ctx, "failed to count chunks", "document_id", id, "error", err)
				return
			}
			infos[i].ChunkCount = count
		}(i, doc.ID)
	}
	wg.Wait()

	stats, err := h.docs.Stats(ctx)
	if err != nil {
		logger.WarnContext(ctx, "failed to load stats", "error", err)
	}

	writeJSON(ctx, w, http.StatusOK, ListResponse{Documents: infos, Stats: stats})
}

// delete removes a document; its chunks cascade away with it.
func (h *DocumentsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DocumentID == "" {
		writeError(ctx, w, http.StatusBadRequest, "documentId is required")
		return
	}

	if err := h.docs.Delete(ctx, req.DocumentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(ctx, w, http.StatusNotFound, "Document not found")
			return
		}
		logger.ErrorContext(ctx, "failed to delete document", "document_id", req.DocumentID, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	logger.InfoContext(ctx, "deleted document", "document_id", req.DocumentID)
	writeJSON(ctx, w, http.StatusOK, map[string]bool{"success": true})
}
