package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Default government domains accepted by the ingestion allow-list.
// Suffix match on the hostname; the bare ".gov.in"/".nic.in" entries
// cover everything under those zones.
var defaultAllowedDomains = []string{
	"india.gov.in",
	"pmindia.gov.in",
	"scholarships.gov.in",
	"umang.gov.in",
	"tn.gov.in",
	"up.gov.in",
	"mha.gov.in",
	"niti.gov.in",
	"pmkisan.gov.in",
	"pmfby.gov.in",
	"nrega.nic.in",
	"uidai.gov.in",
	"epfindia.gov.in",
	"labour.gov.in",
	"rural.gov.in",
	"moes.gov.in",
	"education.gov.in",
	"agricoop.nic.in",
	"nhm.gov.in",
	"pmjay.gov.in",
	".gov.in",
	".nic.in",
}

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	DBPath    string
	LogLevel  slog.Level
	LogFormat string

	// Generation (Groq, OpenAI-compatible). Keys are tried in order
	// during failover; an empty list is a request-time config error,
	// not a startup failure.
	GroqAPIKeys []string
	GroqBaseURL string
	GroqModels  []string

	// Embeddings (Gemini). Empty key means every embedding falls back
	// to the deterministic hash vector.
	GeminiAPIKey  string
	GeminiBaseURL string

	// Scraping (browserless). Empty token disables URL and
	// search-and-ingest actions.
	BrowserlessToken   string
	BrowserlessBaseURL string

	AllowedDomains []string
}

// Load reads configuration from environment variables and returns a Config struct.
// If a .env file exists in the current directory or project root, it is loaded
// automatically; environment variables already set take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up to find a project-root .env (where go.mod lives).
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "9000"),
		DBPath:             getEnv("DB_PATH", "./data/scheme-sahayak.db"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		GroqBaseURL:        getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		BrowserlessToken:   os.Getenv("BROWSERLESS_TOKEN"),
		BrowserlessBaseURL: getEnv("BROWSERLESS_BASE_URL", "https://chrome.browserless.io"),
	}

	cfg.LogLevel = parseLogLevel(getEnv("LOG_LEVEL", "info"))

	// Collect generation keys in rotation order. Missing keys are
	// skipped so GROQ_API_KEY_3 without _2 still works.
	for _, name := range []string{"GROQ_API_KEY", "GROQ_API_KEY_2", "GROQ_API_KEY_3"} {
		if key := os.Getenv(name); key != "" {
			cfg.GroqAPIKeys = append(cfg.GroqAPIKeys, key)
		}
	}

	// Primary model is configurable; the smaller instant model is a
	// fixed fallback with separate quotas.
	cfg.GroqModels = []string{
		getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		"llama-3.1-8b-instant",
	}

	if extra := os.Getenv("ALLOWED_DOMAINS"); extra != "" {
		for _, d := range strings.Split(extra, ",") {
			if d = strings.TrimSpace(d); d != "" {
				cfg.AllowedDomains = append(cfg.AllowedDomains, strings.ToLower(d))
			}
		}
	}
	cfg.AllowedDomains = append(cfg.AllowedDomains, defaultAllowedDomains...)

	// Create the data directory if it doesn't exist (for the DB file).
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
