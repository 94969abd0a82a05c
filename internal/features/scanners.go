package features

import (
	"github.com/pthm/psgrade/internal/document"
	"github.com/pthm/psgrade/internal/rubric"
)

// phraseScanner records the hits of one phrase family. list receives up to
// MaxItems distinct phrases; count, when set, receives total occurrences.
type phraseScanner struct {
	name    string
	phrases rubric.PhraseList
	list    func(*FeatureSet) *[]string
	count   func(*FeatureSet) *int
}

func (s *phraseScanner) Name() string {
	return s.name
}

func (s *phraseScanner) Scan(text string, fs *FeatureSet) {
	if s.list != nil {
		*s.list(fs) = s.phrases.Hits(text, MaxItems)
	}
	if s.count != nil {
		*s.count(fs) = s.phrases.Count(text)
	}
}

// SubjectDomainScanner resolves the subject domain of the text
type SubjectDomainScanner struct {
	rubric *rubric.Rubric
}

func (s *SubjectDomainScanner) Name() string {
	return "subject-domain"
}

func (s *SubjectDomainScanner) Scan(text string, fs *FeatureSet) {
	fs.SubjectDomain = s.rubric.DomainOf(text)
}

// CountsScanner records basic length statistics
type CountsScanner struct{}

func (s *CountsScanner) Name() string {
	return "counts"
}

func (s *CountsScanner) Scan(text string, fs *FeatureSet) {
	fs.Chars = document.Length(text)
	fs.Words = len(document.Words(text))
	fs.Sentences = len(document.Sentences(text))
	fs.Paragraphs = len(document.Paragraphs(text))
}
