package document

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestGetFormat(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"statement.md", FormatMarkdown},
		{"STATEMENT.MARKDOWN", FormatMarkdown},
		{"statement.txt", FormatPlain},
		{"statement", FormatPlain},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := GetFormat(tt.path); got != tt.expected {
				t.Errorf("GetFormat(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestParseFrontmatter(t *testing.T) {
	t.Run("with header", func(t *testing.T) {
		content := []byte("---\nuniversity: University of Oxford\ncourse: Physics\nuser: sam\nterm: 2026\n---\nBody text.")
		fm, rest := ParseFrontmatter(content)
		if fm.University != "University of Oxford" || fm.Course != "Physics" || fm.User != "sam" {
			t.Errorf("ParseFrontmatter() = %+v", fm)
		}
		if fm.Extra["term"] != 2026 {
			t.Errorf("Extra[term] = %v, want 2026", fm.Extra["term"])
		}
		if string(rest) != "Body text." {
			t.Errorf("remaining = %q, want %q", rest, "Body text.")
		}
	})

	t.Run("without header", func(t *testing.T) {
		content := []byte("Just a statement.")
		fm, rest := ParseFrontmatter(content)
		if fm.University != "" || string(rest) != string(content) {
			t.Errorf("ParseFrontmatter() = %+v, %q", fm, rest)
		}
	})

	t.Run("unterminated header", func(t *testing.T) {
		content := []byte("---\nuniversity: x\nno closing line")
		_, rest := ParseFrontmatter(content)
		if string(rest) != string(content) {
			t.Errorf("remaining = %q, want unchanged content", rest)
		}
	})
}

func TestMarkdownParser(t *testing.T) {
	content := "---\nuniversity: Imperial\ncourse: Chemistry\n---\n" +
		"# My Statement\n\n" +
		"The first paragraph\ncontinues here.\n\n" +
		"- item one\n- item two\n\n" +
		"```\nignored code\n```\n\n" +
		"Second *emphasised* paragraph with [a link](http://example.com).\n"

	doc, err := Parse("statement.md", []byte(content))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := "The first paragraph continues here.\n\nitem one\n\nitem two\n\nSecond emphasised paragraph with a link."
	if doc.Text != want {
		t.Errorf("Text = %q, want %q", doc.Text, want)
	}
	if doc.Format != FormatMarkdown {
		t.Errorf("Format = %v, want markdown", doc.Format)
	}
	if doc.Frontmatter.University != "Imperial" || doc.Frontmatter.Course != "Chemistry" {
		t.Errorf("Frontmatter = %+v", doc.Frontmatter)
	}

	wantSections := []Section{{Title: "My Statement", Level: 1, Line: 1}}
	if !reflect.DeepEqual(doc.Sections, wantSections) {
		t.Errorf("Sections = %+v, want %+v", doc.Sections, wantSections)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statement.txt")
	if err := os.WriteFile(path, []byte("---\nuser: alex\n---\r\n  Plain text body.  \n"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if doc.Text != "Plain text body." {
		t.Errorf("Text = %q, want %q", doc.Text, "Plain text body.")
	}
	if doc.Frontmatter.User != "alex" {
		t.Errorf("Frontmatter.User = %q, want alex", doc.Frontmatter.User)
	}

	if _, err := Load(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestSentences(t *testing.T) {
	got := Sentences("Hello world. How are you?! Fine...")
	want := []string{"Hello world", "How are you", "Fine"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sentences() = %q, want %q", got, want)
	}

	if got := Sentences("   "); len(got) != 0 {
		t.Errorf("Sentences(blank) = %q, want none", got)
	}
}

func TestFragments(t *testing.T) {
	got := Fragments("Hello world. How are you?! Fine...", 10)
	want := []string{"Hello world", "How are you"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Fragments() = %q, want %q", got, want)
	}
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs("a\n\n b \n \nc")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Paragraphs() = %q, want %q", got, want)
	}
}

func TestWords(t *testing.T) {
	got := Words("Don't stop, well-known!")
	want := []string{"Don't", "stop", "well-known"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words() = %q, want %q", got, want)
	}

	if got := FirstWord("  I think so"); got != "i" {
		t.Errorf("FirstWord() = %q, want %q", got, "i")
	}
	if got := FirstWord(""); got != "" {
		t.Errorf("FirstWord(\"\") = %q, want empty", got)
	}
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		path string
		want Parser
	}{
		{"statement.md", &MarkdownParser{}},
		{"STATEMENT.Markdown", &MarkdownParser{}},
		{"statement.txt", &PlainParser{}},
		{"statement", &PlainParser{}},
	}
	for _, tt := range tests {
		if got := getParser(tt.path); reflect.TypeOf(got) != reflect.TypeOf(tt.want) {
			t.Errorf("getParser(%q) = %T, want %T", tt.path, got, tt.want)
		}
	}
}
