package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"scheme-sahayak/internal/indexer"
	"scheme-sahayak/internal/llm"
	llmmocks "scheme-sahayak/internal/llm/mocks"
	"scheme-sahayak/internal/scrape"
	"scheme-sahayak/internal/storage"
)

const portalText = "The Kalaignar Magalir Urimai Thogai scheme pays Rs 1000 every month " +
	"to eligible women heads of families in Tamil Nadu. Applications are verified " +
	"against ration card records before the first payment is released."

type cannedScraper struct {
	links []scrape.Link
	pages map[string]*scrape.Page
}

func (c *cannedScraper) Configured() bool { return true }

func (c *cannedScraper) RenderPage(ctx context.Context, pageURL string) (*scrape.Page, error) {
	if page, ok := c.pages[pageURL]; ok {
		return page, nil
	}
	return nil, errors.New("render failed")
}

func (c *cannedScraper) SearchLinks(ctx context.Context, query string) ([]scrape.Link, error) {
	return c.links, nil
}

// TestChat_AutoIngestionEndToEnd drives the full miss path against a
// real database: empty knowledge base, web search, scrape, index, retry
// retrieval, generate.
func TestChat_AutoIngestionEndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db, err := storage.New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}

	docs := storage.NewDocumentRepo(db)
	chunks := storage.NewChunkRepo(db)
	embedder := llm.NewGeminiEmbedder("http://localhost:1", "") // hash fallback only
	scraper := &cannedScraper{
		links: []scrape.Link{
			{Title: "Magalir Urimai Thogai", URL: "https://tn.gov.in/magalir-urimai-thogai"},
			{Title: "Blog Spam", URL: "https://schemes-blog.example.com/post"},
		},
		pages: map[string]*scrape.Page{
			"https://tn.gov.in/magalir-urimai-thogai": {Content: portalText, Title: "Magalir Urimai Thogai"},
		},
	}
	pipeline := indexer.NewPipeline(docs, chunks, embedder, scraper, []string{".gov.in", ".nic.in"})

	generator := llmmocks.NewMockGenerator(ctrl)
	var gotPrompt string
	generator.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, systemPrompt string, history []llm.Message, userMessage string) (string, error) {
			gotPrompt = systemPrompt
			return "Scheme Name: Kalaignar Magalir Urimai Thogai", nil
		})

	engine := NewEngine(docs, chunks, pipeline, generator)
	ctx := context.Background()

	resp, err := engine.Chat(ctx, ChatRequest{Message: "magalir urimai thogai monthly amount", Language: "english"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if !resp.NewKnowledgeIndexed {
		t.Error("NewKnowledgeIndexed = false, want true")
	}
	if resp.SourceLabel != "Based on verified government documents" {
		t.Errorf("SourceLabel = %q", resp.SourceLabel)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].URL != "https://tn.gov.in/magalir-urimai-thogai" {
		t.Errorf("Sources = %+v", resp.Sources)
	}
	if !strings.Contains(gotPrompt, "Rs 1000 every month") {
		t.Error("prompt missing freshly indexed content")
	}

	// Only the allow-listed page was stored
	stats, err := docs.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Documents != 1 {
		t.Errorf("Documents = %d, want 1", stats.Documents)
	}

	// A repeat ingestion of the same page is a dedupe no-op
	if _, err := pipeline.IngestURL(ctx, "https://tn.gov.in/magalir-urimai-thogai"); !errors.Is(err, indexer.ErrAlreadyIndexed) {
		t.Errorf("repeat IngestURL() error = %v, want ErrAlreadyIndexed", err)
	}
}
