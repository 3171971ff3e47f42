package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks scheme-sahayak/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates the content hash
	// uniqueness constraint. Callers treat it as "already indexed".
	ErrDuplicate = errors.New("duplicate content hash")
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// Insert inserts a new document. The record's ID and ContentHash must
	// be set. Returns ErrDuplicate if a document with the same content
	// hash already exists.
	Insert(ctx context.Context, doc *DocumentRecord) error
	// GetByHash looks a document up by content hash. Returns ErrNotFound
	// if no document matches.
	GetByHash(ctx context.Context, hash string) (*DocumentRecord, error)
	// List returns all documents, newest first.
	List(ctx context.Context) ([]*DocumentRecord, error)
	// Delete removes a document; its chunks cascade.
	Delete(ctx context.Context, id string) error
	// Stats returns knowledge-base counters.
	Stats(ctx context.Context) (Stats, error)
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Insert inserts a new document row.
func (r *DocumentRepo) Insert(ctx context.Context, doc *DocumentRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, source_url, source_type, category, domain, content_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.SourceURL, doc.SourceType, doc.Category, doc.Domain, doc.ContentHash,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetByHash looks a document up by content hash.
func (r *DocumentRepo) GetByHash(ctx context.Context, hash string) (*DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, source_url, source_type, category, domain, content_hash, created_at, updated_at
		 FROM documents WHERE content_hash = ?`,
		hash,
	)
	return scanDocument(row)
}

// List returns all documents ordered by creation time, newest first.
func (r *DocumentRepo) List(ctx context.Context) ([]*DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, source_url, source_type, category, domain, content_hash, created_at, updated_at
		 FROM documents ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*DocumentRecord
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return docs, nil
}

// Delete removes a document by ID. Returns ErrNotFound if no row matched.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats returns document, chunk, and web-document counts.
func (r *DocumentRepo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&s.Documents); err != nil {
		return Stats{}, fmt.Errorf("failed to count documents: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&s.Chunks); err != nil {
		return Stats{}, fmt.Errorf("failed to count chunks: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE source_type = 'web'").Scan(&s.Web); err != nil {
		return Stats{}, fmt.Errorf("failed to count web documents: %w", err)
	}
	return s, nil
}

// rowScanner abstracts sql.Row and sql.Rows for scanDocument.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*DocumentRecord, error) {
	var doc DocumentRecord
	var createdAtStr, updatedAtStr string

	err := row.Scan(&doc.ID, &doc.Title, &doc.SourceURL, &doc.SourceType,
		&doc.Category, &doc.Domain, &doc.ContentHash, &createdAtStr, &updatedAtStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	if doc.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
		return nil, err
	}
	return &doc, nil
}

// parseTimestamp parses a SQLite DATETIME string.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	// SQLite may also emit RFC3339 depending on how the value was written.
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
