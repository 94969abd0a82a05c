package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a statement loaded from disk or memory
type Document struct {
	Path        string
	Raw         []byte
	Format      Format
	Text        string // plain prose, paragraphs separated by blank lines
	Sections    []Section
	Frontmatter Frontmatter
}

// Format represents the source format of a statement
type Format int

const (
	FormatPlain Format = iota
	FormatMarkdown
)

func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	default:
		return "plain"
	}
}

// Section is a heading found in a markdown statement
type Section struct {
	Title string
	Level int
	Line  int
}

// Frontmatter is the optional YAML header of a statement file. It names the
// application target and the user the statement belongs to.
type Frontmatter struct {
	University string                 `yaml:"university"`
	Course     string                 `yaml:"course"`
	User       string                 `yaml:"user"`
	Extra      map[string]interface{} `yaml:",inline"`
}

// Parser defines the interface for statement parsers
type Parser interface {
	Parse(path string, content []byte) (*Document, error)
	CanParse(path string) bool
}

// Load reads and parses the statement at path
func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement: %w", err)
	}
	return Parse(path, content)
}

// Parse parses in-memory content using the parser for the path's extension
func Parse(path string, content []byte) (*Document, error) {
	return getParser(path).Parse(path, content)
}

// parsers are tried in order; the plain parser accepts anything
var parsers = []Parser{&MarkdownParser{}, &PlainParser{}}

func getParser(path string) Parser {
	for _, p := range parsers {
		if p.CanParse(path) {
			return p
		}
	}
	return &PlainParser{}
}

// GetFormat returns the Format for a given path
func GetFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatPlain
	}
}

// ParseFrontmatter extracts YAML frontmatter from content between --- delimiters.
// Returns the parsed frontmatter and the remaining content without frontmatter.
// Content without a well-formed header is returned unchanged.
func ParseFrontmatter(content []byte) (Frontmatter, []byte) {
	s := strings.TrimPrefix(string(content), "\ufeff")

	if !strings.HasPrefix(s, "---") {
		return Frontmatter{}, content
	}

	rest := s[3:]
	endIdx := strings.Index(rest, "\n---")
	if endIdx == -1 {
		return Frontmatter{}, content
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(strings.TrimSpace(rest[:endIdx])), &fm); err != nil {
		return Frontmatter{}, content
	}

	remaining := rest[endIdx+4:] // +4 for "\n---"
	remaining = strings.TrimPrefix(remaining, "\r")
	remaining = strings.TrimPrefix(remaining, "\n")

	return fm, []byte(remaining)
}
