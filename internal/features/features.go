package features

// MaxItems bounds every list in a FeatureSet
const MaxItems = 5

// FeatureSet is the structured bag of pattern hits and counts extracted from
// statement text. Lists hold at most MaxItems distinct entries, in the order
// of the underlying phrase table.
type FeatureSet struct {
	BookTitles       []string `json:"bookTitles"`
	AcademicTerms    []string `json:"academicTerms"`
	ResearchMentions []string `json:"researchMentions"`

	ProgressionPhrases []string `json:"progressionPhrases"`
	ProgressionCount   int      `json:"progressionCount"`

	ListingPhrases []string `json:"listingPhrases"`
	ListingCount   int      `json:"listingCount"`

	Connectors     []string `json:"connectors"`
	ConnectorCount int      `json:"connectorCount"`

	PassionPhrases  []string `json:"passionPhrases"`
	Cliches         []string `json:"cliches"`
	VagueStatements []string `json:"vagueStatements"`

	ExampleMarkers []string `json:"exampleMarkers"`
	ExampleCount   int      `json:"exampleCount"`

	SubjectDomain  string `json:"subjectDomain"`
	TechnicalDepth int    `json:"technicalDepth"`

	Chars      int `json:"chars"`
	Words      int `json:"words"`
	Sentences  int `json:"sentences"`
	Paragraphs int `json:"paragraphs"`
}
