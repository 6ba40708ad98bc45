// Package readme extracts a short summary from a pattern's README.md.
package readme

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FileName is the README looked up in each pattern directory.
const FileName = "README.md"

// Summary is the title and lead paragraph of a markdown document.
type Summary struct {
	Title       string
	Description string
}

// IsEmpty reports whether neither a title nor a description was found.
func (s Summary) IsEmpty() bool {
	return s.Title == "" && s.Description == ""
}

// Line returns "Title: Description", or whichever part is present.
func (s Summary) Line() string {
	switch {
	case s.Title != "" && s.Description != "":
		return s.Title + ": " + s.Description
	case s.Title != "":
		return s.Title
	default:
		return s.Description
	}
}

// Parser summarises markdown documents.
type Parser struct {
	markdown goldmark.Markdown
}

// NewParser creates a Parser using goldmark's CommonMark parser.
func NewParser() *Parser {
	return &Parser{
		markdown: goldmark.New(),
	}
}

// Summarize returns the first heading and the first paragraph of src.
// Inline markup is flattened to plain text and soft line breaks become spaces.
func (p *Parser) Summarize(src []byte) Summary {
	doc := p.markdown.Parser().Parse(text.NewReader(src))

	var summary Summary
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if summary.Title == "" {
				summary.Title = inlineText(node, src)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if summary.Description == "" {
				summary.Description = inlineText(node, src)
			}
			return ast.WalkSkipChildren, nil
		}

		if summary.Title != "" && summary.Description != "" {
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	return summary
}

// Summarize is a convenience wrapper around a default Parser.
func Summarize(src []byte) Summary {
	return NewParser().Summarize(src)
}

// inlineText concatenates the text content of n's inline descendants.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	collectText(&b, n, src)
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(b *strings.Builder, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(src))
		case *ast.RawHTML:
			// dropped
		default:
			collectText(b, c, src)
		}
	}
}
