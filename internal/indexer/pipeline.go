package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"scheme-sahayak/internal/contextutil"
	"scheme-sahayak/internal/llm"
	"scheme-sahayak/internal/scrape"
	"scheme-sahayak/internal/storage"
)

var (
	// ErrContentTooShort is returned when a source yields less than
	// minContentLength characters after cleaning. Short pages are
	// navigation shells, not scheme content.
	ErrContentTooShort = errors.New("content too short or empty after cleaning")
	// ErrAlreadyIndexed is returned when a source's content hash is
	// already present. The existing document wins; nothing is merged.
	ErrAlreadyIndexed = errors.New("content already indexed")
	// ErrScraperNotConfigured is returned when a scrape-dependent action
	// runs without a rendering-service token.
	ErrScraperNotConfigured = errors.New("scraping service not configured")
)

const minContentLength = 100

// Scraper is the subset of the rendering service the pipeline needs.
type Scraper interface {
	Configured() bool
	RenderPage(ctx context.Context, pageURL string) (*scrape.Page, error)
	SearchLinks(ctx context.Context, query string) ([]scrape.Link, error)
}

// URLStatus reports the outcome for one candidate URL of a
// search-and-ingest run.
type URLStatus struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// SearchIngestReport summarizes a search-and-ingest run.
type SearchIngestReport struct {
	Indexed int
	Results []URLStatus
}

// Pipeline orchestrates ingestion: clean, deduplicate, categorize,
// chunk, embed, store. It is the only code path that creates documents.
type Pipeline struct {
	docs           storage.DocumentStore
	chunks         storage.ChunkStore
	embedder       llm.Embedder
	scraper        Scraper
	allowedDomains []string
	maxChunkSize   int
	logger         *slog.Logger
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	docs storage.DocumentStore,
	chunks storage.ChunkStore,
	embedder llm.Embedder,
	scraper Scraper,
	allowedDomains []string,
) *Pipeline {
	return &Pipeline{
		docs:           docs,
		chunks:         chunks,
		embedder:       embedder,
		scraper:        scraper,
		allowedDomains: allowedDomains,
		maxChunkSize:   DefaultMaxChunkSize,
		logger:         slog.Default(),
	}
}

// contentInput is one source ready for indexing.
type contentInput struct {
	Title        string
	SourceURL    string
	SourceType   string // "pdf" or "web"
	Domain       string
	Content      string
	IngestSource string // metadata tag, e.g. "admin_ingest"
}

// IngestText indexes raw text (typically extracted from an uploaded
// PDF). Markdown-looking uploads are reduced to plain text first.
// Returns the number of chunks indexed.
func (p *Pipeline) IngestText(ctx context.Context, title, sourceURL, content string) (int, error) {
	if LooksLikeMarkdown(content) {
		content = MarkdownToText([]byte(content))
	}
	if title == "" {
		title = "Uploaded Document"
	}
	return p.indexContent(ctx, contentInput{
		Title:        title,
		SourceURL:    sourceURL,
		SourceType:   "pdf",
		Domain:       "local-upload",
		Content:      content,
		IngestSource: "admin_ingest",
	})
}

// IngestURL renders an allow-listed page and indexes its visible text.
func (p *Pipeline) IngestURL(ctx context.Context, pageURL string) (int, error) {
	if !scrape.IsAllowedDomain(pageURL, p.allowedDomains) {
		return 0, scrape.ErrDisallowedDomain
	}
	if !p.scraper.Configured() {
		return 0, ErrScraperNotConfigured
	}

	page, err := p.scraper.RenderPage(ctx, pageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to render page: %w", err)
	}

	title := page.Title
	if title == "" {
		title = TitleFromURL(pageURL)
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse URL: %w", err)
	}

	return p.indexContent(ctx, contentInput{
		Title:        title,
		SourceURL:    pageURL,
		SourceType:   "web",
		Domain:       parsed.Hostname(),
		Content:      page.Content,
		IngestSource: "auto_ingest",
	})
}

// SearchAndIngest searches the web for the query (restricted to
// government domains), then ingests every allow-listed result. Failures
// on individual URLs are recorded per URL and never abort the run.
func (p *Pipeline) SearchAndIngest(ctx context.Context, query string) (SearchIngestReport, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if !p.scraper.Configured() {
		return SearchIngestReport{}, ErrScraperNotConfigured
	}

	links, err := p.scraper.SearchLinks(ctx, query)
	if err != nil {
		return SearchIngestReport{}, fmt.Errorf("failed to search: %w", err)
	}

	var report SearchIngestReport
	for _, link := range links {
		if !scrape.IsAllowedDomain(link.URL, p.allowedDomains) {
			logger.DebugContext(ctx, "skipping disallowed search result", "url", link.URL)
			continue
		}

		status := "indexed"
		if _, err := p.IngestURL(ctx, link.URL); err != nil {
			status = err.Error()
			logger.WarnContext(ctx, "failed to ingest search result", "url", link.URL, "error", err)
		} else {
			report.Indexed++
		}

		report.Results = append(report.Results, URLStatus{
			URL:    link.URL,
			Title:  link.Title,
			Status: status,
		})
	}

	logger.InfoContext(ctx, "search and ingest completed",
		"query", query, "candidates", len(report.Results), "indexed", report.Indexed)
	return report, nil
}

// indexContent runs the shared clean → dedupe → categorize → chunk →
// embed → store sequence for one source.
func (p *Pipeline) indexContent(ctx context.Context, in contentInput) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	cleaned := CleanContent(in.Content)
	if len(cleaned) < minContentLength {
		return 0, ErrContentTooShort
	}

	hash := ContentHash(in.SourceURL, cleaned)
	if _, err := p.docs.GetByHash(ctx, hash); err == nil {
		return 0, ErrAlreadyIndexed
	} else if !errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("failed to check existing document: %w", err)
	}

	category := DetectDocumentCategory(cleaned)

	doc := &storage.DocumentRecord{
		ID:          uuid.New().String(),
		Title:       in.Title,
		SourceURL:   in.SourceURL,
		SourceType:  in.SourceType,
		Category:    category,
		Domain:      in.Domain,
		ContentHash: hash,
	}
	if err := p.docs.Insert(ctx, doc); err != nil {
		// A concurrent ingest of the same content may win the insert
		// race; the constraint violation is the duplicate outcome, not
		// an error.
		if errors.Is(err, storage.ErrDuplicate) {
			return 0, ErrAlreadyIndexed
		}
		return 0, fmt.Errorf("failed to insert document: %w", err)
	}

	chunkTexts := ChunkContent(cleaned, p.maxChunkSize)
	for i, text := range chunkTexts {
		embedding, err := p.embedder.EmbedText(ctx, text)
		if err != nil {
			return i, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		record := &storage.ChunkRecord{
			ID:           uuid.New().String(),
			DocumentID:   doc.ID,
			ChunkIndex:   i,
			Content:      text,
			Embedding:    embedding,
			Category:     category,
			IngestSource: in.IngestSource,
		}
		if err := p.chunks.Insert(ctx, record); err != nil {
			return i, fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	logger.InfoContext(ctx, "indexed document",
		"title", in.Title, "source", in.SourceURL, "category", category, "chunks", len(chunkTexts))
	return len(chunkTexts), nil
}

// TitleFromURL derives a human-readable title from the last URL path
// segment ("/schemes/pm-kisan.html" → "Pm Kisan").
func TitleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "Government Document"
	}

	parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(parts) == 0 {
		return "Government Document"
	}

	name := parts[len(parts)-1]
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	if len(words) == 0 {
		return "Government Document"
	}
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
