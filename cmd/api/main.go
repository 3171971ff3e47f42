package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"scheme-sahayak/internal/config"
	"scheme-sahayak/internal/http"
	"scheme-sahayak/internal/indexer"
	"scheme-sahayak/internal/llm"
	"scheme-sahayak/internal/rag"
	"scheme-sahayak/internal/scrape"
	"scheme-sahayak/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	documentRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	// Embeddings fall back to deterministic hash vectors when no key is set
	embedder := llm.NewGeminiEmbedder(cfg.GeminiBaseURL, cfg.GeminiAPIKey)
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, embeddings will use hash fallback")
	}

	// Scraping is optional; without a token only text ingestion works
	scraper := scrape.NewClient(cfg.BrowserlessBaseURL, cfg.BrowserlessToken)
	if !scraper.Configured() {
		slog.Warn("BROWSERLESS_TOKEN not set, URL and search ingestion disabled")
	}

	pipeline := indexer.NewPipeline(documentRepo, chunkRepo, embedder, scraper, cfg.AllowedDomains)

	// Generation keys are a request-time concern: the server starts
	// without them and chat reports the configuration error per turn
	generator := llm.NewGenerationClient(cfg.GroqBaseURL, cfg.GroqAPIKeys, cfg.GroqModels)
	if len(cfg.GroqAPIKeys) == 0 {
		slog.Warn("No GROQ_API_KEY configured, chat will return a configuration error")
	}

	engine := rag.NewEngine(documentRepo, chunkRepo, pipeline, generator)

	router := http.NewRouter(&http.Deps{
		DB:             db,
		Documents:      documentRepo,
		Chunks:         chunkRepo,
		Engine:         engine,
		Pipeline:       pipeline,
		GenerationKeys: len(cfg.GroqAPIKeys),
		ScraperReady:   scraper.Configured(),
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
