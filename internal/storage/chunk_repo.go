package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks scheme-sahayak/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ChunkStore defines the interface for chunk storage operations.
type ChunkStore interface {
	// Insert inserts a single chunk into the database.
	// The chunk.ID must be set (UUID) before calling this method.
	Insert(ctx context.Context, chunk *ChunkRecord) error
	// SearchByTerms returns chunks whose content contains any of the
	// given terms (case-insensitive substring, OR-combined), joined with
	// their owning documents, capped at limit.
	SearchByTerms(ctx context.Context, terms []string, limit int) ([]SearchResult, error)
	// ListByCategory returns chunks from documents in the given
	// category, capped at limit.
	ListByCategory(ctx context.Context, category string, limit int) ([]SearchResult, error)
	// CountByDocument returns the number of chunks for a document.
	CountByDocument(ctx context.Context, documentID string) (int, error)
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// Insert inserts a single chunk into the database.
func (r *ChunkRepo) Insert(ctx context.Context, chunk *ChunkRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chunks (id, document_id, chunk_index, content, embedding, category, ingest_source)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		chunk.ID, chunk.DocumentID, chunk.ChunkIndex, chunk.Content,
		encodeEmbedding(chunk.Embedding), chunk.Category, chunk.IngestSource,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

const searchSelect = `SELECT c.id, c.document_id, c.content, d.title, d.source_url, d.source_type, d.category
	 FROM chunks c JOIN documents d ON d.id = c.document_id`

// SearchByTerms performs the keyword retrieval query. Terms are matched
// with lower() + LIKE so non-ASCII terms still compare case-insensitively
// enough for our lowercased inputs. A single round-trip with a fixed limit.
func (r *ChunkRepo) SearchByTerms(ctx context.Context, terms []string, limit int) ([]SearchResult, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	conditions := make([]string, len(terms))
	args := make([]any, 0, len(terms)+1)
	for i, term := range terms {
		conditions[i] = "lower(c.content) LIKE '%' || ? || '%'"
		args = append(args, strings.ToLower(term))
	}
	args = append(args, limit)

	query := fmt.Sprintf("%s WHERE %s LIMIT ?", searchSelect, strings.Join(conditions, " OR "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	return collectSearchResults(rows)
}

// ListByCategory returns chunks belonging to documents of a category.
// Used as the retrieval fallback when no term matches anything.
func (r *ChunkRepo) ListByCategory(ctx context.Context, category string, limit int) ([]SearchResult, error) {
	query := searchSelect + " WHERE d.category = ? LIMIT ?"
	rows, err := r.db.QueryContext(ctx, query, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks by category: %w", err)
	}
	return collectSearchResults(rows)
}

// CountByDocument returns the number of chunks for a document.
// Chunk counts are always computed, never stored.
func (r *ChunkRepo) CountByDocument(ctx context.Context, documentID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE document_id = ?", documentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

func collectSearchResults(rows *sql.Rows) ([]SearchResult, error) {
	defer func() {
		_ = rows.Close()
	}()

	var results []SearchResult
	for rows.Next() {
		var res SearchResult
		if err := rows.Scan(&res.ChunkID, &res.DocumentID, &res.Content,
			&res.DocTitle, &res.DocSourceURL, &res.DocSourceType, &res.DocCategory); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return results, nil
}
