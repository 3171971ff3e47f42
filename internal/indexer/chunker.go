package indexer

import (
	"regexp"
	"strings"
)

// DefaultMaxChunkSize bounds chunk content so each chunk stays well
// inside the embedding input cap.
const DefaultMaxChunkSize = 1000

var paragraphSplit = regexp.MustCompile(`\n\n+`)

// ChunkContent splits cleaned text into paragraph-aligned chunks of at
// most maxChunkSize characters. Paragraphs are accumulated greedily; a
// paragraph that would overflow a non-empty buffer flushes it first.
// Non-empty input always yields at least one chunk: a single oversized
// paragraph is truncated to the limit rather than dropped.
func ChunkContent(content string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	if strings.TrimSpace(content) == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder

	for _, para := range paragraphSplit.Split(content, -1) {
		if current.Len()+len(para) > maxChunkSize && current.Len() > 0 {
			if text := strings.TrimSpace(current.String()); text != "" {
				chunks = append(chunks, text)
			}
			current.Reset()
		}
		current.WriteString(para)
		current.WriteString("\n\n")
	}

	if text := strings.TrimSpace(current.String()); text != "" {
		chunks = append(chunks, text)
	}

	if len(chunks) == 0 {
		if len(content) > maxChunkSize {
			content = content[:maxChunkSize]
		}
		return []string{content}
	}
	return chunks
}
