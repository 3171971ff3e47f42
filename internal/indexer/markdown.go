package indexer

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// MarkdownToText reduces markdown to plain text by walking the parsed
// AST and collecting text segments, one block per line. Uploaded
// documents often arrive as markdown exports; feeding raw markup to the
// cleaner would leave heading hashes and link syntax in the chunks.
func MarkdownToText(content []byte) string {
	reader := text.NewReader(content)
	doc := markdownParser.Parser().Parse(reader)

	var builder strings.Builder

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			builder.Write(node.Segment.Value(content))
		case *ast.String:
			builder.Write(node.Value)
		case *ast.CodeBlock:
			writeSegmentLines(&builder, node.Lines(), content)
		case *ast.FencedCodeBlock:
			writeSegmentLines(&builder, node.Lines(), content)
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if builder.Len() > 0 && !strings.HasSuffix(builder.String(), "\n") {
				builder.WriteString("\n")
			}
			// A blank line between blocks keeps paragraph boundaries
			// visible to the chunker.
			if _, ok := n.(*ast.Paragraph); ok {
				builder.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(builder.String())
}

func writeSegmentLines(builder *strings.Builder, lines *text.Segments, content []byte) {
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		builder.Write(line.Value(content))
	}
}

// LooksLikeMarkdown reports whether uploaded text is worth running
// through the markdown parser before cleaning.
func LooksLikeMarkdown(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "- ") ||
			strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "```") {
			return true
		}
	}
	return false
}
