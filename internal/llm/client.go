package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks scheme-sahayak/internal/llm Generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"scheme-sahayak/internal/contextutil"
)

var (
	// ErrNoAPIKeys is returned when no generation credential is configured.
	ErrNoAPIKeys = errors.New("no generation API keys configured")
	// ErrRateLimited is returned when every model/key combination was
	// rejected for rate-limit or quota reasons.
	ErrRateLimited = errors.New("all generation keys rate limited")
)

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces an answer for a prompt plus conversation history.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, history []Message, userMessage string) (string, error)
}

// GenerationClient calls an OpenAI-compatible chat completions API with
// multi-key, multi-model failover. Models are iterated in the outer
// loop and keys in the inner loop; the first success wins. Any failure
// advances to the next combination, since rate limits and quotas are
// scoped per key and per model.
type GenerationClient struct {
	clients     []keyedClient
	models      []string
	maxTokens   int
	temperature float32
	logger      *slog.Logger
}

type keyedClient struct {
	client *openai.Client
	suffix string // last characters of the key, for logs
}

// NewGenerationClient creates a generation client with one underlying
// API client per credential key.
func NewGenerationClient(baseURL string, apiKeys []string, models []string) *GenerationClient {
	httpClient := &http.Client{Timeout: 60 * time.Second}

	clients := make([]keyedClient, 0, len(apiKeys))
	for _, key := range apiKeys {
		cfg := openai.DefaultConfig(key)
		cfg.BaseURL = baseURL
		cfg.HTTPClient = httpClient
		clients = append(clients, keyedClient{
			client: openai.NewClientWithConfig(cfg),
			suffix: keySuffix(key),
		})
	}

	return &GenerationClient{
		clients:     clients,
		models:      models,
		maxTokens:   512,
		temperature: 0.1,
		logger:      slog.Default(),
	}
}

// Generate runs the failover matrix until one (model, key) pair
// succeeds. On exhaustion it reports rate limiting if the last failure
// was a rate limit, so callers can distinguish "busy" from "broken".
func (c *GenerationClient) Generate(ctx context.Context, systemPrompt string, history []Message, userMessage string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(c.clients) == 0 {
		return "", ErrNoAPIKeys
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	var lastErr error
	for _, model := range c.models {
		for _, kc := range c.clients {
			logger.DebugContext(ctx, "attempting generation", "model", model, "key_suffix", kc.suffix)

			resp, err := kc.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:       model,
				Messages:    messages,
				Temperature: c.temperature,
				MaxTokens:   c.maxTokens,
			})
			if err != nil {
				logger.WarnContext(ctx, "generation attempt failed",
					"model", model, "key_suffix", kc.suffix, "error", err)
				lastErr = err
				continue
			}
			if len(resp.Choices) == 0 {
				lastErr = errors.New("no choices returned")
				continue
			}
			return resp.Choices[0].Message.Content, nil
		}
	}

	logger.ErrorContext(ctx, "all models and keys exhausted", "error", lastErr)
	if isRateLimitError(lastErr) {
		return "", fmt.Errorf("%w: %v", ErrRateLimited, lastErr)
	}
	return "", fmt.Errorf("generation failed after trying all models and keys: %w", lastErr)
}

// isRateLimitError reports whether an error looks like rate limiting,
// quota exhaustion, or transient overload.
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode == http.StatusServiceUnavailable {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "overloaded")
}

func keySuffix(key string) string {
	if len(key) <= 4 {
		return key
	}
	return key[len(key)-4:]
}
