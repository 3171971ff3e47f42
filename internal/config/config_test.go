package config

import (
	"log/slog"
	"slices"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PATH", t.TempDir()+"/test.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIPort != "9000" {
		t.Errorf("APIPort = %q, want 9000", cfg.APIPort)
	}
	if cfg.GroqBaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("GroqBaseURL = %q", cfg.GroqBaseURL)
	}
	if len(cfg.GroqModels) != 2 || cfg.GroqModels[0] != "llama-3.3-70b-versatile" {
		t.Errorf("GroqModels = %v", cfg.GroqModels)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if !slices.Contains(cfg.AllowedDomains, "pmkisan.gov.in") {
		t.Error("default allow-list missing pmkisan.gov.in")
	}
	if !slices.Contains(cfg.AllowedDomains, ".gov.in") {
		t.Error("default allow-list missing .gov.in zone")
	}
}

func TestLoad_KeyRotationOrder(t *testing.T) {
	t.Setenv("DB_PATH", t.TempDir()+"/test.db")
	t.Setenv("GROQ_API_KEY", "key-primary")
	t.Setenv("GROQ_API_KEY_2", "key-secondary")
	t.Setenv("GROQ_API_KEY_3", "key-tertiary")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"key-primary", "key-secondary", "key-tertiary"}
	if !slices.Equal(cfg.GroqAPIKeys, want) {
		t.Errorf("GroqAPIKeys = %v, want %v", cfg.GroqAPIKeys, want)
	}
}

func TestLoad_SkipsMissingKeySlots(t *testing.T) {
	t.Setenv("DB_PATH", t.TempDir()+"/test.db")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("GROQ_API_KEY_2", "")
	t.Setenv("GROQ_API_KEY_3", "only-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(cfg.GroqAPIKeys, []string{"only-key"}) {
		t.Errorf("GroqAPIKeys = %v, want [only-key]", cfg.GroqAPIKeys)
	}
}

func TestLoad_ExtraAllowedDomains(t *testing.T) {
	t.Setenv("DB_PATH", t.TempDir()+"/test.db")
	t.Setenv("ALLOWED_DOMAINS", "Example.gov.in , other.nic.in")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Contains(cfg.AllowedDomains, "example.gov.in") {
		t.Error("extra domain not lowercased and added")
	}
	if !slices.Contains(cfg.AllowedDomains, "other.nic.in") {
		t.Error("second extra domain missing")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"garbage", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
