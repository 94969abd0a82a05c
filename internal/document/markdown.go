package document

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser parses markdown statements into plain prose
type MarkdownParser struct{}

// CanParse returns true if this parser can handle the file
func (p *MarkdownParser) CanParse(path string) bool {
	return GetFormat(path) == FormatMarkdown
}

// Parse renders the markdown body to plain text. Headings become sections
// and are left out of the prose; code blocks and raw HTML are dropped.
func (p *MarkdownParser) Parse(path string, content []byte) (*Document, error) {
	fm, body := ParseFrontmatter(content)

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(body))

	var sections []Section
	var blocks []string

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			line := 1
			if node.Lines().Len() > 0 {
				seg := node.Lines().At(0)
				line = bytes.Count(body[:seg.Start], []byte("\n")) + 1
			}
			sections = append(sections, Section{
				Title: strings.TrimSpace(inlineText(node, body)),
				Level: node.Level,
				Line:  line,
			})
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.TextBlock:
			if s := strings.TrimSpace(inlineText(node, body)); s != "" {
				blocks = append(blocks, s)
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return &Document{
		Path:        path,
		Raw:         content,
		Format:      FormatMarkdown,
		Text:        strings.Join(blocks, "\n\n"),
		Sections:    sections,
		Frontmatter: fm,
	}, nil
}

// inlineText concatenates the text of n's inline descendants, turning line
// breaks into spaces.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder

	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Text:
				b.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte(' ')
				}
			case *ast.String:
				b.Write(node.Value)
			case *ast.AutoLink:
				b.Write(node.Label(source))
			case *ast.RawHTML:
				// dropped
			default:
				walk(c)
			}
		}
	}
	walk(n)

	return b.String()
}
