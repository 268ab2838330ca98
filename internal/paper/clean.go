package paper

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// CleanText converts markdown note content into plain text suitable for
// segmentation: headings become bare lines, block elements are separated by
// blank lines, inline markup and wiki links are dropped.
func CleanText(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}

	src := []byte(markdown)
	doc := markdownParser.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph:
			b.WriteString(nodeText(n, src))
			b.WriteString("\n\n")
			return ast.WalkSkipChildren, nil

		case *ast.ListItem:
			b.WriteString(nodeText(node, src))
			b.WriteString("\n")
			return ast.WalkSkipChildren, nil

		case *ast.List:
			return ast.WalkContinue, nil

		case *ast.CodeBlock:
			writeCodeLines(&b, node.Lines(), src)
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			writeCodeLines(&b, node.Lines(), src)
			return ast.WalkSkipChildren, nil
		}

		// Table rows and other container nodes fall through to their
		// text children via nodeText when reached as blocks.
		kindName := n.Kind().String()
		if strings.Contains(kindName, "TableRow") || strings.Contains(kindName, "TableHeader") {
			b.WriteString(nodeText(n, src))
			b.WriteString("\n")
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	cleaned := StripWikiLinks(b.String())
	return strings.TrimSpace(collapseBlankLines(cleaned))
}

// nodeText extracts the plain text content of a node and its children.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteString(" ")
			}
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func writeCodeLines(b *strings.Builder, lines *text.Segments, src []byte) {
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(src))
	}
	b.WriteString("\n")
}

var blankRunPattern = regexp.MustCompile(`\n{3,}`)

func collapseBlankLines(s string) string {
	return blankRunPattern.ReplaceAllString(s, "\n\n")
}

// fullTextHeadingPattern matches a markdown heading introducing the embedded
// full-text section of an imported paper note.
var fullTextHeadingPattern = regexp.MustCompile(`(?im)^(#{1,6})\s+full\s*text\s*$`)

// ExtractFullText returns the embedded full-text section of a note when one is
// present, else the note body unchanged. The section runs from its heading to
// the next heading of the same or a higher level.
func ExtractFullText(body string) string {
	loc := fullTextHeadingPattern.FindStringSubmatchIndex(body)
	if loc == nil {
		return body
	}

	level := loc[3] - loc[2] // number of '#' characters
	section := body[loc[1]:]

	// Scan line by line for the terminating heading.
	lines := strings.Split(section, "\n")
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			hashes := 0
			for hashes < len(trimmed) && trimmed[hashes] == '#' {
				hashes++
			}
			if hashes <= level && hashes < len(trimmed) && trimmed[hashes] == ' ' {
				break
			}
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
