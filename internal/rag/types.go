package rag

import "scheme-sahayak/internal/llm"

// ChatRequest represents one user turn in the domain layer.
type ChatRequest struct {
	// Message is the user's question.
	Message string
	// History is the prior conversation; only the last few turns are
	// forwarded to the model.
	History []llm.Message
	// Language selects the answer language: "english", "tamil", "hindi".
	Language string
}

// Source identifies a document that contributed context to the answer.
type Source struct {
	Name string `json:"name"`
	Type string `json:"type"` // "pdf" or "web"
	URL  string `json:"url"`
}

// ChatResponse is the best-effort answer for a chat turn. It is always
// populated, even when generation or retrieval failed internally.
type ChatResponse struct {
	Content             string   `json:"content"`
	Sources             []Source `json:"sources"`
	SourceLabel         string   `json:"sourceLabel"`
	NewKnowledgeIndexed bool     `json:"newKnowledgeIndexed"`
}
