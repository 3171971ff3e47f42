package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"scheme-sahayak/internal/storage"
	"scheme-sahayak/internal/storage/mocks"
)

func TestDocumentsHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docs := mocks.NewMockDocumentStore(ctrl)
	chunks := mocks.NewMockChunkStore(ctrl)

	now := time.Now().UTC()
	docs.EXPECT().List(gomock.Any()).Return([]*storage.DocumentRecord{
		{ID: "d1", Title: "PM Kisan", SourceType: "web", Category: "Agriculture", Domain: "pmkisan.gov.in", CreatedAt: now},
		{ID: "d2", Title: "Scholarship FAQ", SourceType: "pdf", Category: "Education", Domain: "local-upload", CreatedAt: now},
	}, nil)
	chunks.EXPECT().CountByDocument(gomock.Any(), "d1").Return(4, nil)
	chunks.EXPECT().CountByDocument(gomock.Any(), "d2").Return(2, nil)
	docs.EXPECT().Stats(gomock.Any()).Return(storage.Stats{Documents: 2, Chunks: 6, Web: 1}, nil)

	handler := NewDocumentsHandler(docs, chunks)
	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp ListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Documents) != 2 {
		t.Fatalf("Documents length = %d, want 2", len(resp.Documents))
	}

	counts := map[string]int{}
	for _, d := range resp.Documents {
		counts[d.ID] = d.ChunkCount
	}
	if counts["d1"] != 4 || counts["d2"] != 2 {
		t.Errorf("chunk counts = %v", counts)
	}
	if resp.Stats.Chunks != 6 {
		t.Errorf("Stats.Chunks = %d, want 6", resp.Stats.Chunks)
	}
}

func TestDocumentsHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mockSetup  func(*mocks.MockDocumentStore)
		wantStatus int
	}{
		{
			name: "successful delete",
			body: `{"documentId":"d1"}`,
			mockSetup: func(m *mocks.MockDocumentStore) {
				m.EXPECT().Delete(gomock.Any(), "d1").Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "missing document",
			body: `{"documentId":"ghost"}`,
			mockSetup: func(m *mocks.MockDocumentStore) {
				m.EXPECT().Delete(gomock.Any(), "ghost").Return(storage.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing documentId",
			body:       `{}`,
			mockSetup:  func(m *mocks.MockDocumentStore) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			docs := mocks.NewMockDocumentStore(ctrl)
			chunks := mocks.NewMockChunkStore(ctrl)
			tt.mockSetup(docs)

			handler := NewDocumentsHandler(docs, chunks)
			req := httptest.NewRequest(http.MethodDelete, "/api/documents", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestDocumentsHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewDocumentsHandler(mocks.NewMockDocumentStore(ctrl), mocks.NewMockChunkStore(ctrl))
	req := httptest.NewRequest(http.MethodPut, "/api/documents", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
