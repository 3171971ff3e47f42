package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks scheme-sahayak/internal/rag Engine,Ingester

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scheme-sahayak/internal/contextutil"
	"scheme-sahayak/internal/indexer"
	"scheme-sahayak/internal/llm"
	"scheme-sahayak/internal/storage"
)

const (
	// searchLimit caps keyword retrieval.
	searchLimit = 5
	// categoryFallbackLimit caps the category fallback query.
	categoryFallbackLimit = 3
	// minIngestQueryLen gates auto-ingestion; shorter messages are
	// greetings, not scheme queries worth a web search.
	minIngestQueryLen = 5

	chunkSeparator = "\n\n---\n\n"

	errorSourceLabel = "System Error (Response could not be generated)"
)

// Engine answers chat turns: retrieve, gate for relevance, optionally
// ingest fresh knowledge from the web, then generate.
type Engine interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// Ingester is the slice of the ingestion pipeline the engine invokes on
// a retrieval miss.
type Ingester interface {
	SearchAndIngest(ctx context.Context, query string) (indexer.SearchIngestReport, error)
}

type engine struct {
	docs      storage.DocumentStore
	chunks    storage.ChunkStore
	ingester  Ingester
	generator llm.Generator
}

// NewEngine creates a chat engine.
func NewEngine(docs storage.DocumentStore, chunks storage.ChunkStore, ingester Ingester, generator llm.Generator) Engine {
	return &engine{
		docs:      docs,
		chunks:    chunks,
		ingester:  ingester,
		generator: generator,
	}
}

// Chat runs one conversational turn. Every internal failure past
// request validation degrades into a populated response rather than an
// error: a chat turn must always say something.
func (e *engine) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Message) == "" {
		return ChatResponse{}, &ValidationError{Field: "message", Message: "message is required"}
	}

	terms := ExtractSearchTerms(req.Message)
	category := indexer.DetectCategory(req.Message)

	results, err := e.attemptRetrieve(ctx, terms, category)
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		results = nil
	}

	newKnowledge := false
	if len(results) == 0 && len([]rune(strings.TrimSpace(req.Message))) > minIngestQueryLen {
		results, newKnowledge = e.ingestThenRetry(ctx, req.Message, terms, category)
	}

	if len(results) > 0 && !isRelevant(results, category, terms) {
		logger.InfoContext(ctx, "retrieved chunks judged irrelevant", "category", category, "terms", len(terms))
		results = nil
	}

	ragContext, sources := buildContext(results)
	hasContext := ragContext != ""

	stats, err := e.docs.Stats(ctx)
	if err != nil {
		logger.WarnContext(ctx, "failed to load knowledge base stats", "error", err)
		stats = storage.Stats{}
	}

	history := req.History
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	systemPrompt := buildSystemPrompt(ragContext, hasContext, stats, req.Language)
	content, err := e.generator.Generate(ctx, systemPrompt, history, req.Message)
	if err != nil {
		return ChatResponse{
			Content:             generationFailureMessage(err),
			Sources:             sources,
			SourceLabel:         errorSourceLabel,
			NewKnowledgeIndexed: newKnowledge,
		}, nil
	}

	return ChatResponse{
		Content:             content,
		Sources:             sources,
		SourceLabel:         sourceLabel(req.Language, hasContext),
		NewKnowledgeIndexed: newKnowledge,
	}, nil
}

// attemptRetrieve runs keyword retrieval, falling back to a small
// category sample when no term matches anything.
func (e *engine) attemptRetrieve(ctx context.Context, terms []string, category string) ([]storage.SearchResult, error) {
	results, err := e.chunks.SearchByTerms(ctx, terms, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search by terms: %w", err)
	}
	if len(results) > 0 {
		return results, nil
	}

	if category == "" {
		return nil, nil
	}
	results, err = e.chunks.ListByCategory(ctx, category, categoryFallbackLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list by category: %w", err)
	}
	return results, nil
}

// ingestThenRetry searches the web for the user's question, ingests
// what it finds, and retries retrieval once. Every failure along the
// way degrades to "no context" so the chat turn still completes.
func (e *engine) ingestThenRetry(ctx context.Context, message string, terms []string, category string) ([]storage.SearchResult, bool) {
	logger := contextutil.LoggerFromContext(ctx)

	report, err := e.ingester.SearchAndIngest(ctx, message)
	if err != nil {
		if !errors.Is(err, indexer.ErrScraperNotConfigured) {
			logger.WarnContext(ctx, "auto-ingestion failed", "error", err)
		}
		return nil, false
	}
	if report.Indexed == 0 {
		return nil, false
	}

	logger.InfoContext(ctx, "auto-ingested new knowledge", "documents", report.Indexed)
	results, err := e.attemptRetrieve(ctx, terms, category)
	if err != nil {
		logger.ErrorContext(ctx, "retrieval retry failed", "error", err)
		return nil, true
	}
	return results, true
}

// isRelevant gates retrieved chunks before they reach the prompt. A
// batch is relevant when a chunk's document category matches the
// query's category, or when the combined chunk text contains any
// search term. Substring retrieval can match on filler words; this
// keeps off-topic chunks out of the model's context.
func isRelevant(results []storage.SearchResult, category string, terms []string) bool {
	if category != "" {
		for _, res := range results {
			if res.DocCategory == category {
				return true
			}
		}
	}

	var combined strings.Builder
	for _, res := range results {
		combined.WriteString(strings.ToLower(res.Content))
		combined.WriteByte('\n')
	}
	text := combined.String()
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// buildContext assembles the prompt context block and the deduplicated
// source list from retrieved chunks.
func buildContext(results []storage.SearchResult) (string, []Source) {
	if len(results) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(results))
	var sources []Source
	seen := make(map[string]struct{})
	for _, res := range results {
		parts = append(parts, indexer.CleanContent(res.Content))

		key := res.DocSourceURL
		if key == "" {
			key = res.DocumentID
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		sources = append(sources, Source{
			Name: res.DocTitle,
			Type: res.DocSourceType,
			URL:  res.DocSourceURL,
		})
	}

	return truncateContext(strings.Join(parts, chunkSeparator)), sources
}

// generationFailureMessage maps a generation error to the user-facing
// message body. The chat response still carries HTTP 200; the failure
// is conveyed in content and source label.
func generationFailureMessage(err error) string {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return "Rate Limit Exceeded: All available keys and models are currently busy. Please try again in 1 hour."
	case errors.Is(err, llm.ErrNoAPIKeys):
		return "System Configuration Error: GROQ_API_KEY is missing."
	default:
		return fmt.Sprintf("I encountered an internal error while generating the response. (Details: %s)", err)
	}
}
