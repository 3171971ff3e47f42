package indexer

import (
	"strings"
	"testing"
)

func TestMarkdownToText(t *testing.T) {
	md := "# PM Kisan\n\nIncome support for **farmer** families.\n\n- Rs 6000 per year\n- Three installments\n"

	got := MarkdownToText([]byte(md))

	for _, want := range []string{"PM Kisan", "farmer", "Rs 6000 per year", "Three installments"} {
		if !strings.Contains(got, want) {
			t.Errorf("MarkdownToText() missing %q in %q", want, got)
		}
	}
	for _, marker := range []string{"#", "**", "- "} {
		if strings.Contains(got, marker) {
			t.Errorf("MarkdownToText() kept markup %q in %q", marker, got)
		}
	}
}

func TestMarkdownToText_ParagraphBoundaries(t *testing.T) {
	md := "First paragraph.\n\nSecond paragraph."

	got := MarkdownToText([]byte(md))
	if !strings.Contains(got, "\n") {
		t.Errorf("MarkdownToText() lost block boundary: %q", got)
	}
}

func TestLooksLikeMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"heading", "# Title\ntext", true},
		{"bullet list", "some intro\n- item one", true},
		{"fenced code", "```\ncode\n```", true},
		{"plain text", "Just a scheme description.\nAnother line.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeMarkdown(tt.content); got != tt.want {
				t.Errorf("LooksLikeMarkdown() = %v, want %v", got, tt.want)
			}
		})
	}
}
