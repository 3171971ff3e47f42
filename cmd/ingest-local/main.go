// Command ingest-local seeds the knowledge base from a directory of
// .txt and .md files, one document per file. Useful for loading scheme
// descriptions without a running server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"scheme-sahayak/internal/config"
	"scheme-sahayak/internal/indexer"
	"scheme-sahayak/internal/llm"
	"scheme-sahayak/internal/scrape"
	"scheme-sahayak/internal/storage"
)

func main() {
	dir := flag.String("dir", "./seed", "directory of .txt/.md files to ingest")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

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

	documentRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)
	embedder := llm.NewGeminiEmbedder(cfg.GeminiBaseURL, cfg.GeminiAPIKey)
	scraper := scrape.NewClient(cfg.BrowserlessBaseURL, cfg.BrowserlessToken)
	pipeline := indexer.NewPipeline(documentRepo, chunkRepo, embedder, scraper, cfg.AllowedDomains)

	ctx := context.Background()
	var ingested, skipped, failed int

	err = filepath.WalkDir(*dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".md" {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			slog.Error("Failed to read file", "path", path, "error", err)
			failed++
			return nil
		}

		title := indexer.TitleFromURL("file:///" + filepath.ToSlash(path))
		chunks, err := pipeline.IngestText(ctx, title, "local://"+filepath.Base(path), string(content))
		switch {
		case err == nil:
			slog.Info("Ingested file", "path", path, "chunks", chunks)
			ingested++
		case errors.Is(err, indexer.ErrAlreadyIndexed):
			slog.Info("Skipping already indexed file", "path", path)
			skipped++
		case errors.Is(err, indexer.ErrContentTooShort):
			slog.Warn("Skipping file with too little content", "path", path)
			skipped++
		default:
			slog.Error("Failed to ingest file", "path", path, "error", err)
			failed++
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to walk directory: %v", err)
	}

	fmt.Printf("Done: %d ingested, %d skipped, %d failed\n", ingested, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
