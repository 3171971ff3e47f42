package storage

import "time"

// DocumentRecord represents one indexed source in the database.
// Documents are created only by the ingestion path and never mutated
// in place; chunk counts are computed at read time.
type DocumentRecord struct {
	ID          string // UUID
	Title       string
	SourceURL   string // URL or file:// pseudo-URL for uploads
	SourceType  string // "pdf" or "web"
	Category    string // one of the six welfare domains, or "General"
	Domain      string // hostname, or "local-upload"
	ContentHash string // SHA-256 hex of source URL + content prefix, unique
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChunkRecord represents one paragraph-bounded segment of a document.
type ChunkRecord struct {
	ID           string    // UUID
	DocumentID   string    // Foreign key to documents.id
	ChunkIndex   int       // Zero-based position within the document
	Content      string    // Chunk text (≤ ~1000 characters)
	Embedding    []float32 // Fixed 1536-dimensional vector
	Category     string    // Optional metadata copied from the document
	IngestSource string    // Optional tag ("admin_ingest", "auto_ingest", ...)
}

// SearchResult is a chunk joined with the identifying fields of its
// owning document, as returned by retrieval queries.
type SearchResult struct {
	ChunkID       string
	DocumentID    string
	Content       string
	DocTitle      string
	DocSourceURL  string
	DocSourceType string
	DocCategory   string
}

// Stats holds knowledge-base counters surfaced to the prompt builder
// and the documents listing.
type Stats struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
	Web       int `json:"web"` // documents with source_type = "web"
}
