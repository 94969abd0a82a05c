package rubric

import (
	"strings"
)

// Rubric holds every table the scoring engine reads. A Rubric is never
// modified after it has been loaded, so one value can serve any number of
// concurrent scoring calls.
type Rubric struct {
	// Lexicon holds the keyword and phrase families matched against free text
	Lexicon Lexicon `yaml:"lexicon"`

	// Filler configures the filler-language penalty detector
	Filler FillerRules `yaml:"filler"`

	// Evidence holds the conjunctive checklists used to score evidence items
	Evidence EvidenceRules `yaml:"evidence"`

	// Institutions is an ordered first-match-wins list of institution tiers.
	// The entry with an empty match list is the fallback.
	Institutions []Institution `yaml:"institutions"`

	// Subjects is an ordered list of subject areas, used both to resolve a
	// target course and to identify the subject domain of a statement.
	Subjects []Subject `yaml:"subjects"`

	// Criteria are the weighted statement criteria in evaluation order
	Criteria []Criterion `yaml:"criteria"`
}

// Lexicon is the set of phrase families shared by the feature extractor,
// the criterion evaluator and the evidence scorer.
type Lexicon struct {
	AcademicTerms       PhraseList `yaml:"academic_terms"`
	ResearchMentions    PhraseList `yaml:"research_mentions"`
	IndependentResearch PhraseList `yaml:"independent_research"`
	CourseEngagement    PhraseList `yaml:"course_engagement"`
	Progression         PhraseList `yaml:"progression"`
	Listing             PhraseList `yaml:"listing"`
	Connectors          PhraseList `yaml:"connectors"`
	Passion             PhraseList `yaml:"passion"`
	Cliches             PhraseList `yaml:"cliches"`
	Vague               PhraseList `yaml:"vague"`
	ExampleMarkers      PhraseList `yaml:"example_markers"`
	TechnicalDepth      PhraseList `yaml:"technical_depth"`
	Analytical          PhraseList `yaml:"analytical"`
	Overconfident       PhraseList `yaml:"overconfident"`
	Humility            PhraseList `yaml:"humility"`
	Curiosity           PhraseList `yaml:"curiosity"`
	Critique            PhraseList `yaml:"critique"`
	Reflection          PhraseList `yaml:"reflection"`
	Growth              PhraseList `yaml:"growth"`
	BeyondCurriculum    PhraseList `yaml:"beyond_curriculum"`
	Skills              PhraseList `yaml:"skills"`
	Absolutes           PhraseList `yaml:"absolutes"`
	Realisation         PhraseList `yaml:"realisation"`
}

// Families returns every lexicon family keyed by its table name.
func (l *Lexicon) Families() map[string]*PhraseList {
	return map[string]*PhraseList{
		"academic_terms":       &l.AcademicTerms,
		"research_mentions":    &l.ResearchMentions,
		"independent_research": &l.IndependentResearch,
		"course_engagement":    &l.CourseEngagement,
		"progression":          &l.Progression,
		"listing":              &l.Listing,
		"connectors":           &l.Connectors,
		"passion":              &l.Passion,
		"cliches":              &l.Cliches,
		"vague":                &l.Vague,
		"example_markers":      &l.ExampleMarkers,
		"technical_depth":      &l.TechnicalDepth,
		"analytical":           &l.Analytical,
		"overconfident":        &l.Overconfident,
		"humility":             &l.Humility,
		"curiosity":            &l.Curiosity,
		"critique":             &l.Critique,
		"reflection":           &l.Reflection,
		"growth":               &l.Growth,
		"beyond_curriculum":    &l.BeyondCurriculum,
		"skills":               &l.Skills,
		"absolutes":            &l.Absolutes,
		"realisation":          &l.Realisation,
	}
}

// FillerRules configures the filler-language penalty detector
type FillerRules struct {
	// MinFragment is the shortest sentence fragment (in characters) that is scanned
	MinFragment int `yaml:"min_fragment"`

	// Cap is the maximum total penalty
	Cap float64 `yaml:"cap"`

	// Families are the sentence-level pattern families
	Families []FillerFamily `yaml:"families"`

	// Whole-text heuristics
	FirstPerson     RatioCheck  `yaml:"first_person"`
	OpenerDiversity RatioCheck  `yaml:"opener_diversity"`
	MissingExamples LengthCheck `yaml:"missing_examples"`
}

// FillerFamily is a named group of patterns sharing one penalty weight.
type FillerFamily struct {
	Name     string    `yaml:"name"`
	Weight   float64   `yaml:"weight"`
	Patterns []Pattern `yaml:"patterns"`
}

// Matches reports whether any pattern of the family matches s.
func (f FillerFamily) Matches(s string) bool {
	for _, p := range f.Patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// RatioCheck fires when a ratio crosses Ratio over at least MinSentences fragments.
type RatioCheck struct {
	Ratio        float64 `yaml:"ratio"`
	MinSentences int     `yaml:"min_sentences"`
	Weight       float64 `yaml:"weight"`
}

// LengthCheck fires on texts longer than MinChars.
type LengthCheck struct {
	MinChars int     `yaml:"min_chars"`
	Weight   float64 `yaml:"weight"`
}

// Institution is one tier of the institution lookup.
type Institution struct {
	Tier     string   `yaml:"tier"`
	Match    []string `yaml:"match"`
	Requires Check    `yaml:"requires"`
	Points   float64  `yaml:"points"`
}

// IsDefault reports whether this is the fallback entry.
func (i Institution) IsDefault() bool {
	return len(i.Match) == 0
}

// Subject is a subject area with the course names that select it and the
// vocabulary that identifies it in free text.
type Subject struct {
	Name     string     `yaml:"name"`
	Aliases  []string   `yaml:"aliases"`
	Keywords PhraseList `yaml:"keywords"`
}

// GeneralDomain is the subject domain reported when no subject table matches.
const GeneralDomain = "general"

// InstitutionFor returns the first institution tier whose match list hits
// the given name as a whole word. A "general" tier worth no points is
// returned when nothing matches and the table has no default entry.
func (r *Rubric) InstitutionFor(name string) Institution {
	for _, inst := range r.Institutions {
		if inst.IsDefault() {
			return inst
		}
		for _, m := range inst.Match {
			if ContainsTerm(name, m) {
				return inst
			}
		}
	}
	return Institution{Tier: GeneralDomain}
}

// SubjectForCourse resolves a target course string to a subject area.
func (r *Rubric) SubjectForCourse(course string) (Subject, bool) {
	if strings.TrimSpace(course) == "" {
		return Subject{}, false
	}
	for _, s := range r.Subjects {
		if ContainsTerm(course, s.Name) {
			return s, true
		}
		for _, alias := range s.Aliases {
			if ContainsTerm(course, alias) {
				return s, true
			}
		}
	}
	return Subject{}, false
}

// Subject returns the subject area with the given name.
func (r *Rubric) Subject(name string) (Subject, bool) {
	for _, s := range r.Subjects {
		if s.Name == name {
			return s, true
		}
	}
	return Subject{}, false
}

// DomainOf returns the name of the first subject with any keyword in text.
func (r *Rubric) DomainOf(text string) string {
	for _, s := range r.Subjects {
		if s.Keywords.Any(text) {
			return s.Name
		}
	}
	return GeneralDomain
}
