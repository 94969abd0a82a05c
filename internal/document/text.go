package document

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	terminatorRe = regexp.MustCompile(`[.!?]+`)
	paragraphRe  = regexp.MustCompile(`\n\s*\n`)
)

// Sentences splits text on runs of sentence terminators (. ! ?) and returns
// the trimmed, non-empty fragments in order.
func Sentences(text string) []string {
	var out []string
	for _, s := range terminatorRe.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Fragments is Sentences with fragments shorter than minLen runes dropped.
func Fragments(text string, minLen int) []string {
	var out []string
	for _, s := range Sentences(text) {
		if utf8.RuneCountInString(s) >= minLen {
			out = append(out, s)
		}
	}
	return out
}

// Paragraphs splits text on blank lines.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range paragraphRe.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Words returns the words of text. Apostrophes and hyphens inside a word are
// kept so that "don't" and "well-known" count once.
func Words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’' || r == '-')
	})
}

// FirstWord returns the lowercased first word of s, or "".
func FirstWord(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	return strings.ToLower(strings.Trim(words[0], "'’-"))
}

// Length returns the rune length of the trimmed text.
func Length(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}
