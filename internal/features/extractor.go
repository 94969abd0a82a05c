package features

import (
	"strings"

	"github.com/pthm/psgrade/internal/rubric"
)

// Scanner fills one category of features. Scanners are independent of each
// other and must not read fields written by another scanner.
type Scanner interface {
	// Name returns the unique identifier for this scanner
	Name() string

	// Scan inspects text and records its findings in fs
	Scan(text string, fs *FeatureSet)
}

// Extractor runs an ordered list of scanners over statement text
type Extractor struct {
	scanners []Scanner
}

// NewExtractor creates an extractor with no scanners
func NewExtractor() *Extractor {
	return &Extractor{
		scanners: make([]Scanner, 0),
	}
}

// Register adds a scanner to the end of the list
func (e *Extractor) Register(s Scanner) {
	e.scanners = append(e.scanners, s)
}

// Scanners returns the registered scanners in run order
func (e *Extractor) Scanners() []Scanner {
	return e.scanners
}

// Get returns a scanner by name
func (e *Extractor) Get(name string) Scanner {
	for _, s := range e.scanners {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Extract runs every scanner over text. Empty text yields an empty set.
func (e *Extractor) Extract(text string) FeatureSet {
	var fs FeatureSet
	if strings.TrimSpace(text) == "" {
		return fs
	}
	for _, s := range e.scanners {
		s.Scan(text, &fs)
	}
	return fs
}

// New returns an extractor with the default scanners, reading phrase tables
// from r.
func New(r *rubric.Rubric) *Extractor {
	lex := &r.Lexicon
	e := NewExtractor()

	e.Register(&BookTitleScanner{})
	e.Register(&phraseScanner{name: "academic-terms", phrases: lex.AcademicTerms,
		list: func(fs *FeatureSet) *[]string { return &fs.AcademicTerms }})
	e.Register(&phraseScanner{name: "research-mentions", phrases: lex.ResearchMentions,
		list: func(fs *FeatureSet) *[]string { return &fs.ResearchMentions }})
	e.Register(&phraseScanner{name: "progression", phrases: lex.Progression,
		list:  func(fs *FeatureSet) *[]string { return &fs.ProgressionPhrases },
		count: func(fs *FeatureSet) *int { return &fs.ProgressionCount }})
	e.Register(&phraseScanner{name: "listing", phrases: lex.Listing,
		list:  func(fs *FeatureSet) *[]string { return &fs.ListingPhrases },
		count: func(fs *FeatureSet) *int { return &fs.ListingCount }})
	e.Register(&phraseScanner{name: "connectors", phrases: lex.Connectors,
		list:  func(fs *FeatureSet) *[]string { return &fs.Connectors },
		count: func(fs *FeatureSet) *int { return &fs.ConnectorCount }})
	e.Register(&phraseScanner{name: "passion", phrases: lex.Passion,
		list: func(fs *FeatureSet) *[]string { return &fs.PassionPhrases }})
	e.Register(&phraseScanner{name: "cliches", phrases: lex.Cliches,
		list: func(fs *FeatureSet) *[]string { return &fs.Cliches }})
	e.Register(&phraseScanner{name: "vague", phrases: lex.Vague,
		list: func(fs *FeatureSet) *[]string { return &fs.VagueStatements }})
	e.Register(&phraseScanner{name: "examples", phrases: lex.ExampleMarkers,
		list:  func(fs *FeatureSet) *[]string { return &fs.ExampleMarkers },
		count: func(fs *FeatureSet) *int { return &fs.ExampleCount }})
	e.Register(&SubjectDomainScanner{rubric: r})
	e.Register(&phraseScanner{name: "technical-depth", phrases: lex.TechnicalDepth,
		count: func(fs *FeatureSet) *int { return &fs.TechnicalDepth }})
	e.Register(&CountsScanner{})

	return e
}
