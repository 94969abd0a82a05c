package rubric

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// PhraseList is a family of literal phrases matched case-insensitively on
// word boundaries. Phrases are compiled once, when the list is built or
// decoded.
type PhraseList struct {
	phrases  []string
	compiled []*regexp.Regexp
}

// NewPhraseList compiles a phrase list. Blank phrases are dropped.
func NewPhraseList(phrases ...string) PhraseList {
	var pl PhraseList
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		pl.phrases = append(pl.phrases, p)
		pl.compiled = append(pl.compiled, regexp.MustCompile(phraseExpr(p)))
	}
	return pl
}

// phraseExpr builds a word-bounded, whitespace-tolerant expression for p.
// Boundaries are only added next to word characters so that phrases such
// as "e.g." still match before a space.
func phraseExpr(p string) string {
	expr := strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`)
	first, _ := utf8.DecodeRuneInString(p)
	last, _ := utf8.DecodeLastRuneInString(p)
	if isWordRune(first) {
		expr = `\b` + expr
	}
	if isWordRune(last) {
		expr += `\b`
	}
	return "(?i)" + expr
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// UnmarshalYAML decodes a YAML sequence of strings into a compiled list.
func (pl *PhraseList) UnmarshalYAML(value *yaml.Node) error {
	var phrases []string
	if err := value.Decode(&phrases); err != nil {
		return fmt.Errorf("phrase list at line %d: %w", value.Line, err)
	}
	*pl = NewPhraseList(phrases...)
	return nil
}

// MarshalYAML encodes the list as its phrases.
func (pl PhraseList) MarshalYAML() (interface{}, error) {
	return pl.phrases, nil
}

// Len returns the number of phrases in the list.
func (pl PhraseList) Len() int {
	return len(pl.phrases)
}

// Count returns the total number of occurrences of every phrase in text.
func (pl PhraseList) Count(text string) int {
	n := 0
	for _, re := range pl.compiled {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}

// Distinct returns how many different phrases occur in text.
func (pl PhraseList) Distinct(text string) int {
	n := 0
	for _, re := range pl.compiled {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

// Hits returns the phrases found in text, in table order, at most limit of
// them. A limit of zero or less means no limit.
func (pl PhraseList) Hits(text string, limit int) []string {
	var hits []string
	for i, re := range pl.compiled {
		if limit > 0 && len(hits) >= limit {
			break
		}
		if re.MatchString(text) {
			hits = append(hits, pl.phrases[i])
		}
	}
	return hits
}

// Any reports whether at least one phrase occurs in text.
func (pl PhraseList) Any(text string) bool {
	for _, re := range pl.compiled {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Pattern is a case-insensitive regular expression loaded from a rule table.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

// CompilePattern compiles expr as a case-insensitive pattern.
func CompilePattern(expr string) (Pattern, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{source: expr, re: re}, nil
}

// UnmarshalYAML compiles the pattern while decoding.
func (p *Pattern) UnmarshalYAML(value *yaml.Node) error {
	var expr string
	if err := value.Decode(&expr); err != nil {
		return err
	}
	compiled, err := CompilePattern(expr)
	if err != nil {
		return fmt.Errorf("pattern at line %d: %w", value.Line, err)
	}
	*p = compiled
	return nil
}

// MarshalYAML encodes the pattern source.
func (p Pattern) MarshalYAML() (interface{}, error) {
	return p.source, nil
}

// String returns the pattern source.
func (p Pattern) String() string {
	return p.source
}

// MatchString reports whether s matches. The zero Pattern matches nothing.
func (p Pattern) MatchString(s string) bool {
	return p.re != nil && p.re.MatchString(s)
}

// ContainsTerm reports whether term occurs in text as a whole word or
// phrase, ignoring case.
func ContainsTerm(text, term string) bool {
	text = strings.ToLower(text)
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}

	for i := 0; i < len(text); {
		j := strings.Index(text[i:], term)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		i = start + 1
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}
