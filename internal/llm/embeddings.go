package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"scheme-sahayak/internal/contextutil"
)

// maxEmbedInput caps the text submitted to the embedding API to bound
// request cost; chunks are already ≤ ~1000 characters.
const maxEmbedInput = 2048

// embeddingModel is the Gemini embedding model identifier.
const embeddingModel = "text-embedding-004"

// Embedder generates one fixed-size vector per text.
type Embedder interface {
	// EmbedText returns an EmbeddingDim-sized vector for the text. It
	// never fails soft-path: on any provider error it falls back to the
	// deterministic hash embedding.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// GeminiEmbedder is a client for the Gemini embedContent API with a
// deterministic hash-embedding fallback. The fallback triggers on
// network failure, non-success status, malformed response, or a
// dimension mismatch, so callers always get a valid vector.
type GeminiEmbedder struct {
	BaseURL string
	APIKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewGeminiEmbedder creates a new embeddings client.
func NewGeminiEmbedder(baseURL, apiKey string) *GeminiEmbedder {
	return &GeminiEmbedder{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
	}
}

type embedContentRequest struct {
	Model   string       `json:"model"`
	Content embedContent `json:"content"`
}

type embedContent struct {
	Parts []embedPart `json:"parts"`
}

type embedPart struct {
	Text string `json:"text"`
}

type embedContentResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// EmbedText generates an embedding for the given text.
func (e *GeminiEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if e.APIKey == "" {
		logger.DebugContext(ctx, "embedding API key not configured, using hash embedding")
		return HashEmbedding(text), nil
	}

	vec, err := e.callAPI(ctx, text)
	if err != nil {
		logger.WarnContext(ctx, "embedding API failed, using hash embedding", "error", err)
		return HashEmbedding(text), nil
	}
	return vec, nil
}

func (e *GeminiEmbedder) callAPI(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbedInput {
		text = text[:maxEmbedInput]
	}

	reqURL := fmt.Sprintf("%s/models/%s:embedContent?key=%s",
		e.BaseURL, embeddingModel, url.QueryEscape(e.APIKey))

	payload := embedContentRequest{
		Model:   "models/" + embeddingModel,
		Content: embedContent{Parts: []embedPart{{Text: text}}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var embedResp embedContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Validate dimensionality before accepting the vector.
	if len(embedResp.Embedding.Values) != EmbeddingDim {
		return nil, fmt.Errorf("embedding has size %d, expected %d",
			len(embedResp.Embedding.Values), EmbeddingDim)
	}

	vec := make([]float32, EmbeddingDim)
	for i, v := range embedResp.Embedding.Values {
		vec[i] = float32(v)
	}
	return vec, nil
}
