package indexer

import (
	"strings"
	"testing"
)

func TestChunkContent(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		maxChunkSize int
		wantChunks   int
	}{
		{
			name:         "empty input yields no chunks",
			content:      "",
			maxChunkSize: 100,
			wantChunks:   0,
		},
		{
			name:         "whitespace only yields no chunks",
			content:      "  \n\n  \t ",
			maxChunkSize: 100,
			wantChunks:   0,
		},
		{
			name:         "short text is one chunk",
			content:      "PM-KISAN provides income support to farmers.",
			maxChunkSize: 100,
			wantChunks:   1,
		},
		{
			name:         "paragraphs accumulate until the limit",
			content:      "first paragraph here\n\nsecond paragraph here\n\nthird paragraph here",
			maxChunkSize: 45,
			wantChunks:   2,
		},
		{
			name:         "each paragraph its own chunk when limit is tight",
			content:      "aaaa aaaa aaaa\n\nbbbb bbbb bbbb\n\ncccc cccc cccc",
			maxChunkSize: 15,
			wantChunks:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ChunkContent(tt.content, tt.maxChunkSize)
			if len(chunks) != tt.wantChunks {
				t.Fatalf("ChunkContent() returned %d chunks, want %d: %q", len(chunks), tt.wantChunks, chunks)
			}
		})
	}
}

func TestChunkContent_PreservesAllText(t *testing.T) {
	paras := []string{
		"Eligibility: all landholding farmer families.",
		"Benefit: Rs 6000 per year in three installments.",
		"Application: register on the PM-KISAN portal with Aadhaar.",
		"Verification: state governments validate land records.",
	}
	content := strings.Join(paras, "\n\n")

	chunks := ChunkContent(content, 100)
	joined := strings.Join(chunks, "\n\n")
	for _, para := range paras {
		if !strings.Contains(joined, para) {
			t.Errorf("paragraph %q missing from chunk output", para)
		}
	}
}

func TestChunkContent_RespectsSizeBound(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("A paragraph about welfare scheme eligibility and benefits.\n\n")
	}

	for _, chunk := range ChunkContent(b.String(), 200) {
		if len(chunk) > 200 {
			t.Errorf("chunk length %d exceeds max 200", len(chunk))
		}
	}
}

func TestChunkContent_OversizedSingleParagraph(t *testing.T) {
	content := strings.Repeat("x", 1500)

	chunks := ChunkContent(content, 1000)
	if len(chunks) != 1 {
		t.Fatalf("ChunkContent() returned %d chunks, want 1", len(chunks))
	}
	if len(chunks[0]) != 1000 {
		t.Errorf("oversized paragraph truncated to %d, want 1000", len(chunks[0]))
	}
}

func TestChunkContent_DefaultSize(t *testing.T) {
	chunks := ChunkContent("some text", 0)
	if len(chunks) != 1 {
		t.Fatalf("ChunkContent() with zero max returned %d chunks, want 1", len(chunks))
	}
}
