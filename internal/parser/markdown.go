package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading represents a parsed heading.
type Heading struct {
	Level int
	Text  string
}

// ExtractHeadings extracts ATX ("#"-prefixed) headings from markdown
// content using goldmark. Headings inside code blocks are not returned, nor
// are setext headings: a label line followed by "---" stays prose.
func ExtractHeadings(content string) []Heading {
	var headings []Heading

	source := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if !isATX(heading, source) {
			return ast.WalkSkipChildren, nil
		}

		var textBuilder strings.Builder
		writeInlineText(&textBuilder, heading, source)

		headingText := strings.TrimSpace(textBuilder.String())
		if headingText != "" {
			headings = append(headings, Heading{
				Level: heading.Level,
				Text:  headingText,
			})
		}

		// Headings hold inline content only.
		return ast.WalkSkipChildren, nil
	})

	return headings
}

// isATX reports whether the heading's source line starts with one to six
// "#" characters followed by a space, a tab or the end of the line.
func isATX(h *ast.Heading, source []byte) bool {
	if h.Lines().Len() == 0 {
		return true
	}
	start := h.Lines().At(0).Start
	lineStart := bytes.LastIndexByte(source[:start], '\n') + 1
	line := bytes.TrimLeft(source[lineStart:], " \t")

	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return false
	}
	return n == len(line) || line[n] == ' ' || line[n] == '\t' || line[n] == '\n' || line[n] == '\r'
}

// writeInlineText appends the literal text of n's descendants, so emphasis,
// links and code spans inside a heading keep their words.
func writeInlineText(b *strings.Builder, n ast.Node, source []byte) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		default:
			writeInlineText(b, child, source)
		}
	}
}

// Title returns the text of the first level-1 heading.
func Title(headings []Heading) (string, bool) {
	for _, h := range headings {
		if h.Level == 1 {
			return h.Text, true
		}
	}
	return "", false
}

// SectionTitles returns level-2 heading texts in document order.
func SectionTitles(headings []Heading) []string {
	sections := []string{}
	for _, h := range headings {
		if h.Level == 2 {
			sections = append(sections, h.Text)
		}
	}
	return sections
}
