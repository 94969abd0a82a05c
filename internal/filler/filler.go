package filler

import (
	"math"

	"github.com/pthm/psgrade/internal/document"
	"github.com/pthm/psgrade/internal/rubric"
)

// Whole-text check names, reported as Match.Family
const (
	FirstPersonFamily     = "first-person-ratio"
	OpenerDiversityFamily = "opener-diversity"
	MissingExamplesFamily = "missing-examples"
)

// Match is one penalty increment. Fragment is empty for whole-text checks.
type Match struct {
	Family   string  `json:"family"`
	Weight   float64 `json:"weight"`
	Fragment string  `json:"fragment,omitempty"`
}

// Result is the outcome of a filler scan
type Result struct {
	// Total is the capped penalty, rounded to two decimals
	Total float64 `json:"total"`

	// Raw is the uncapped sum of all increments
	Raw float64 `json:"raw"`

	Matches   []Match `json:"matches"`
	Fragments int     `json:"fragments"`
}

// Detector scores low-value, clichéd and vague phrasing
type Detector struct {
	rules    rubric.FillerRules
	examples rubric.PhraseList
}

// New creates a detector from the rubric's filler rules
func New(r *rubric.Rubric) *Detector {
	return &Detector{
		rules:    r.Filler,
		examples: r.Lexicon.ExampleMarkers,
	}
}

// Penalty returns the capped filler penalty for text
func (d *Detector) Penalty(text string) float64 {
	return d.Analyze(text).Total
}

// Analyze scans every fragment of text against each pattern family, then
// applies the whole-text checks.
func (d *Detector) Analyze(text string) Result {
	var res Result

	fragments := document.Fragments(text, d.rules.MinFragment)
	res.Fragments = len(fragments)

	for _, frag := range fragments {
		for _, family := range d.rules.Families {
			if family.Matches(frag) {
				res.add(Match{Family: family.Name, Weight: family.Weight, Fragment: frag})
			}
		}
	}

	if d.firstPersonHeavy(fragments) {
		res.add(Match{Family: FirstPersonFamily, Weight: d.rules.FirstPerson.Weight})
	}
	if d.lowOpenerDiversity(fragments) {
		res.add(Match{Family: OpenerDiversityFamily, Weight: d.rules.OpenerDiversity.Weight})
	}
	if d.missingExamples(text) {
		res.add(Match{Family: MissingExamplesFamily, Weight: d.rules.MissingExamples.Weight})
	}

	res.Total = round2(math.Min(res.Raw, d.rules.Cap))
	res.Raw = round2(res.Raw)
	return res
}

func (r *Result) add(m Match) {
	r.Matches = append(r.Matches, m)
	r.Raw += m.Weight
}

// firstPersonHeavy reports whether more than the configured share of
// fragments open with "I".
func (d *Detector) firstPersonHeavy(fragments []string) bool {
	check := d.rules.FirstPerson
	if len(fragments) < check.MinSentences || len(fragments) == 0 {
		return false
	}

	n := 0
	for _, f := range fragments {
		if isFirstPerson(document.FirstWord(f)) {
			n++
		}
	}
	return float64(n)/float64(len(fragments)) > check.Ratio
}

// lowOpenerDiversity reports whether too few fragments start with a
// distinct word.
func (d *Detector) lowOpenerDiversity(fragments []string) bool {
	check := d.rules.OpenerDiversity
	if len(fragments) < check.MinSentences || len(fragments) == 0 {
		return false
	}

	openers := make(map[string]bool)
	for _, f := range fragments {
		openers[document.FirstWord(f)] = true
	}
	return float64(len(openers))/float64(len(fragments)) < check.Ratio
}

func (d *Detector) missingExamples(text string) bool {
	return document.Length(text) > d.rules.MissingExamples.MinChars && !d.examples.Any(text)
}

func isFirstPerson(word string) bool {
	switch word {
	case "i", "i'm", "i've", "i'd", "i'll", "i’m", "i’ve", "i’d", "i’ll":
		return true
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
