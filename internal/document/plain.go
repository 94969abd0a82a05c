package document

import (
	"strings"
)

// PlainParser parses plain text statements
type PlainParser struct{}

// CanParse returns true (fallback parser)
func (p *PlainParser) CanParse(path string) bool {
	return true
}

// Parse parses a plain text statement. Frontmatter is honoured so that the
// same header works for .txt and .md files.
func (p *PlainParser) Parse(path string, content []byte) (*Document, error) {
	fm, body := ParseFrontmatter(content)
	text := strings.ReplaceAll(string(body), "\r\n", "\n")

	return &Document{
		Path:        path,
		Raw:         content,
		Format:      FormatPlain,
		Text:        strings.TrimSpace(text),
		Frontmatter: fm,
	}, nil
}
