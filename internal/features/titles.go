package features

import (
	"regexp"
	"strings"
)

// BookTitleScanner finds likely book titles: quoted title-case phrases and
// capitalised phrases following "read" or "reading".
type BookTitleScanner struct{}

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`["“]([A-Z][^"“”\n]{2,80})["”]`),
	regexp.MustCompile(`\b(?:[Rr]ead|[Rr]eading)\s+((?:[A-Z][\w'’]*)(?:\s+(?:[A-Z][\w'’]*|of|the|and|in|on|for|to|a)\b)*)`),
}

// smallWords may appear inside a title but never end one
var smallWords = map[string]bool{
	"of": true, "the": true, "and": true, "in": true, "on": true, "for": true, "to": true, "a": true,
}

func (s *BookTitleScanner) Name() string {
	return "book-titles"
}

func (s *BookTitleScanner) Scan(text string, fs *FeatureSet) {
	seen := make(map[string]bool)
	var titles []string

	for _, re := range titlePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(titles) >= MaxItems {
				fs.BookTitles = titles
				return
			}
			title := trimTitle(m[1])
			if title == "" || seen[strings.ToLower(title)] {
				continue
			}
			seen[strings.ToLower(title)] = true
			titles = append(titles, title)
		}
	}

	fs.BookTitles = titles
}

// trimTitle drops trailing punctuation and small words. Single pronoun
// captures such as "I" are not titles.
func trimTitle(s string) string {
	words := strings.Fields(strings.TrimRight(strings.TrimSpace(s), ".,;:!?"))
	for len(words) > 0 && smallWords[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	if len(words) == 0 || (len(words) == 1 && len(words[0]) < 2) {
		return ""
	}
	return strings.Join(words, " ")
}
