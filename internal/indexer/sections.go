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

// ExtractSections derives sections from markdown content by heading.
// Text before the first heading becomes an untitled leading section.
// Returns nil if the content has no headings, so callers can treat it as
// plain unsectioned text.
func ExtractSections(content string) []Section {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	source := []byte(content)
	doc := markdownParser.Parser().Parse(text.NewReader(source))

	var sections []Section
	var builder strings.Builder
	currentTitle := ""
	seenHeading := false

	flush := func() {
		body := strings.TrimSpace(builder.String())
		builder.Reset()
		if body != "" || currentTitle != "" {
			sections = append(sections, Section{Title: currentTitle, Content: body})
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			flush()
			currentTitle = nodeText(node, source)
			seenHeading = true
			return ast.WalkSkipChildren, nil

		case *ast.Text:
			builder.Write(node.Segment.Value(source))
			return ast.WalkContinue, nil

		case *ast.String:
			builder.Write(node.Value)
			return ast.WalkContinue, nil

		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				builder.Write(line.Value(source))
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.List, *ast.ListItem:
			if builder.Len() > 0 && !strings.HasSuffix(builder.String(), "\n") {
				builder.WriteString("\n")
			}
			return ast.WalkContinue, nil

		default:
			return ast.WalkContinue, nil
		}
	})
	flush()

	if !seenHeading {
		return nil
	}
	return sections
}

// nodeText extracts plain text from a node and its children.
func nodeText(n ast.Node, source []byte) string {
	var builder strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			builder.Write(v.Segment.Value(source))
		case *ast.String:
			builder.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(builder.String())
}
