package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type recordedAttempt struct {
	model string
	auth  string
}

// newCompletionServer fails the first failCount requests with the given
// status, then answers successfully, recording every attempt.
func newCompletionServer(t *testing.T, failCount int, failStatus int) (*httptest.Server, *[]recordedAttempt) {
	t.Helper()

	var mu sync.Mutex
	var attempts []recordedAttempt

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		mu.Lock()
		attempts = append(attempts, recordedAttempt{
			model: req.Model,
			auth:  r.Header.Get("Authorization"),
		})
		n := len(attempts)
		mu.Unlock()

		if n <= failCount {
			w.WriteHeader(failStatus)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limit reached","type":"tokens"}}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"scheme answer"}}]}`))
	}))
	t.Cleanup(server.Close)
	return server, &attempts
}

func TestGenerationClient_Failover(t *testing.T) {
	server, attempts := newCompletionServer(t, 3, http.StatusTooManyRequests)

	client := NewGenerationClient(server.URL, []string{"key-one", "key-two"}, []string{"model-a", "model-b"})
	got, err := client.Generate(context.Background(), "system", nil, "question")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "scheme answer" {
		t.Errorf("Generate() = %q, want %q", got, "scheme answer")
	}

	if len(*attempts) != 4 {
		t.Fatalf("Generate() made %d attempts, want 4", len(*attempts))
	}

	// Models rotate in the outer loop, keys in the inner loop
	wantOrder := []recordedAttempt{
		{"model-a", "Bearer key-one"},
		{"model-a", "Bearer key-two"},
		{"model-b", "Bearer key-one"},
		{"model-b", "Bearer key-two"},
	}
	for i, want := range wantOrder {
		if (*attempts)[i] != want {
			t.Errorf("attempt %d = %+v, want %+v", i, (*attempts)[i], want)
		}
	}
}

func TestGenerationClient_FirstAttemptSucceeds(t *testing.T) {
	server, attempts := newCompletionServer(t, 0, http.StatusTooManyRequests)

	client := NewGenerationClient(server.URL, []string{"key-one", "key-two"}, []string{"model-a", "model-b"})
	if _, err := client.Generate(context.Background(), "system", nil, "question"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(*attempts) != 1 {
		t.Errorf("Generate() made %d attempts, want 1", len(*attempts))
	}
}

func TestGenerationClient_AllRateLimited(t *testing.T) {
	server, attempts := newCompletionServer(t, 100, http.StatusTooManyRequests)

	client := NewGenerationClient(server.URL, []string{"key-one", "key-two"}, []string{"model-a", "model-b"})
	_, err := client.Generate(context.Background(), "system", nil, "question")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Generate() error = %v, want ErrRateLimited", err)
	}
	if len(*attempts) != 4 {
		t.Errorf("Generate() made %d attempts, want 4", len(*attempts))
	}
}

func TestGenerationClient_NoKeys(t *testing.T) {
	client := NewGenerationClient("http://localhost:1", nil, []string{"model-a"})
	_, err := client.Generate(context.Background(), "system", nil, "question")
	if !errors.Is(err, ErrNoAPIKeys) {
		t.Errorf("Generate() error = %v, want ErrNoAPIKeys", err)
	}
}

func TestGenerationClient_ForwardsHistory(t *testing.T) {
	var gotMessages []map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []map[string]string `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotMessages = req.Messages
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewGenerationClient(server.URL, []string{"key"}, []string{"model-a"})
	history := []Message{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	if _, err := client.Generate(context.Background(), "system prompt", history, "new question"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(gotMessages) != 4 {
		t.Fatalf("forwarded %d messages, want 4", len(gotMessages))
	}
	if gotMessages[0]["role"] != "system" || gotMessages[0]["content"] != "system prompt" {
		t.Errorf("first message = %v, want system prompt", gotMessages[0])
	}
	if gotMessages[1]["content"] != "earlier question" || gotMessages[2]["content"] != "earlier answer" {
		t.Errorf("history not forwarded in order: %v", gotMessages)
	}
	if gotMessages[3]["role"] != "user" || gotMessages[3]["content"] != "new question" {
		t.Errorf("last message = %v, want user question", gotMessages[3])
	}
}
