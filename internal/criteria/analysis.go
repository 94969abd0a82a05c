package criteria

import (
	"fmt"
	"strings"

	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/features"
	"github.com/pthm/psgrade/internal/rubric"
)

// analysis is the read-only input shared by every sub-check of one
// Evaluate call. Signal values are memoised per call.
type analysis struct {
	text     string
	rubric   *rubric.Rubric
	fs       features.FeatureSet
	items    []evidence.Item
	target   *evidence.Target
	mentions []Mention
	values   map[string]float64
}

// signal returns the value of a named signal. Unknown names read as 0;
// Validate rejects them before a rubric is used.
func (a *analysis) signal(name string) float64 {
	if v, ok := a.values[name]; ok {
		return v
	}
	v := 0.0
	if fn, ok := lookup(a.rubric, name); ok {
		v = fn(a)
	}
	if a.values == nil {
		a.values = make(map[string]float64)
	}
	a.values[name] = v
	return v
}

// signalFunc computes one signal from an analysis
type signalFunc func(*analysis) float64

// signals are the fixed, non-lexicon signals
var signals = map[string]signalFunc{
	"academic_evidence": func(a *analysis) float64 {
		for _, item := range a.items {
			if item.Flag("universityLevel") || item.Flag("academic") {
				return 1
			}
		}
		return 0
	},
	"subject_domain": func(a *analysis) float64 {
		return boolean(a.fs.SubjectDomain != rubric.GeneralDomain)
	},
	"domain_keywords": func(a *analysis) float64 {
		s, ok := a.rubric.Subject(a.fs.SubjectDomain)
		if !ok {
			return 0
		}
		return float64(s.Keywords.Count(a.text))
	},
	"questions":   func(a *analysis) float64 { return boolean(strings.Contains(a.text, "?")) },
	"progression": func(a *analysis) float64 { return float64(a.fs.ProgressionCount) },
	"listing":     func(a *analysis) float64 { return float64(a.fs.ListingCount) },
	"examples":    func(a *analysis) float64 { return float64(a.fs.ExampleCount) },
	"book_titles": func(a *analysis) float64 { return float64(len(a.fs.BookTitles)) },
	"paragraphs":  func(a *analysis) float64 { return float64(a.fs.Paragraphs) },
	"sentences":   func(a *analysis) float64 { return float64(a.fs.Sentences) },
	"words_per_sentence": func(a *analysis) float64 {
		if a.fs.Sentences == 0 {
			return 0
		}
		return float64(a.fs.Words) / float64(a.fs.Sentences)
	},
	"target": func(a *analysis) float64 { return boolean(!a.target.IsZero()) },
	"target_course": func(a *analysis) float64 {
		_, ok := a.targetSubject()
		return boolean(ok)
	},
	"target_keywords": func(a *analysis) float64 {
		s, ok := a.targetSubject()
		if !ok {
			return 0
		}
		return float64(s.Keywords.Count(a.text))
	},
	"course_matches_domain": func(a *analysis) float64 {
		s, ok := a.targetSubject()
		return boolean(ok && s.Name == a.fs.SubjectDomain)
	},
	"evidence": func(a *analysis) float64 { return float64(len(a.items)) },
	"mentioned_evidence": func(a *analysis) float64 {
		n := 0
		for _, m := range a.mentions {
			if m.Mentioned {
				n++
			}
		}
		return float64(n)
	},
	"unlisted_titles": func(a *analysis) float64 {
		return boolean(len(a.items) == 0 && len(a.fs.BookTitles) > 0)
	},
}

// lookup resolves a signal name. Besides the fixed signals it accepts
// count.<family> and distinct.<family> for lexicon families and
// tier.<tier> for institution tiers.
func lookup(r *rubric.Rubric, name string) (signalFunc, bool) {
	if fn, ok := signals[name]; ok {
		return fn, true
	}

	prefix, arg, ok := strings.Cut(name, ".")
	if !ok {
		return nil, false
	}
	switch prefix {
	case "count", "distinct":
		pl, ok := r.Lexicon.Families()[arg]
		if !ok {
			return nil, false
		}
		if prefix == "count" {
			return func(a *analysis) float64 { return float64(pl.Count(a.text)) }, true
		}
		return func(a *analysis) float64 { return float64(pl.Distinct(a.text)) }, true
	case "tier":
		for _, inst := range r.Institutions {
			if inst.Tier == arg {
				return func(a *analysis) float64 {
					return boolean(!a.target.IsZero() && a.rubric.InstitutionFor(a.target.Name).Tier == arg)
				}, true
			}
		}
	}
	return nil, false
}

// targetSubject resolves the target course, if any
func (a *analysis) targetSubject() (rubric.Subject, bool) {
	if a.target.IsZero() {
		return rubric.Subject{}, false
	}
	return a.rubric.SubjectForCourse(a.target.Course)
}

// Mention records whether the statement names an evidence item's title
type Mention struct {
	Index     int           `json:"index"`
	Kind      evidence.Kind `json:"kind"`
	Title     string        `json:"title"`
	Mentioned bool          `json:"mentioned"`
}

// mentionsOf matches every titled evidence item against text as a whole
// phrase. Untitled items are skipped.
func mentionsOf(text string, items []evidence.Item) []Mention {
	var out []Mention
	for i, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		out = append(out, Mention{
			Index:     i,
			Kind:      item.Kind.Normalize(),
			Title:     title,
			Mentioned: rubric.ContainsTerm(text, title),
		})
	}
	return out
}

func boolean(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Validate reports criteria the evaluator cannot run against r: unknown or
// duplicate criterion names, missing criteria and unknown signals.
func Validate(r *rubric.Rubric) error {
	seen := make(map[string]bool, len(r.Criteria))
	for _, c := range r.Criteria {
		if !known(Name(c.Name)) {
			return fmt.Errorf("unknown criterion %q", c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate criterion %q", c.Name)
		}
		seen[c.Name] = true

		for _, s := range c.Signals() {
			if _, ok := lookup(r, s); !ok {
				return fmt.Errorf("criterion %s: unknown signal %q", c.Name, s)
			}
		}
	}
	for _, name := range Names() {
		if !seen[string(name)] {
			return fmt.Errorf("criterion %s missing from rubric", name)
		}
	}
	return nil
}
