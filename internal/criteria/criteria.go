package criteria

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm/psgrade/internal/document"
	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/features"
	"github.com/pthm/psgrade/internal/filler"
	"github.com/pthm/psgrade/internal/rubric"
)

// MinLength is the shortest statement, in characters, that is evaluated
const MinLength = 100

// ErrTooShort is returned for statements below MinLength
var ErrTooShort = errors.New("statement too short to evaluate")

// Name identifies a statement criterion
type Name string

const (
	AcademicCriteria        Name = "academicCriteria"
	IntellectualQualities   Name = "intellectualQualities"
	IntellectualDevelopment Name = "intellectualDevelopment"
	SubjectEngagement       Name = "subjectEngagement"
	CommunicationStructure  Name = "communicationStructure"
	PersonalDevelopment     Name = "personalDevelopment"
	FactualAccuracy         Name = "factualAccuracy"
	UniversitySpecific      Name = "universitySpecific"
)

// CheckScore is one scored sub-check
type CheckScore struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// Score is one scored criterion
type Score struct {
	Name   Name         `json:"name"`
	Label  string       `json:"label"`
	Score  float64      `json:"score"`
	Weight float64      `json:"weight"`
	Checks []CheckScore `json:"checks"`

	// Capped is set when a cap rule limited the score
	Capped bool `json:"capped,omitempty"`
}

// Result is the outcome of evaluating a statement
type Result struct {
	Criteria []Score `json:"criteria"`

	// Weighted is the weighted criterion sum before the filler penalty
	Weighted float64 `json:"weighted"`
	Penalty  float64 `json:"penalty"`
	Overall  float64 `json:"overall"`

	Features features.FeatureSet `json:"features"`
	Filler   filler.Result       `json:"filler"`

	// Mentions lists the titled evidence items and whether the text names them
	Mentions []Mention `json:"mentions,omitempty"`
}

// Unmentioned returns the titles of kind items the text does not name
func (r Result) Unmentioned(kind evidence.Kind) []string {
	var titles []string
	for _, m := range r.Mentions {
		if m.Kind == kind && !m.Mentioned {
			titles = append(titles, m.Title)
		}
	}
	return titles
}

// Get returns the named criterion score
func (r Result) Get(name Name) (Score, bool) {
	for _, c := range r.Criteria {
		if c.Name == name {
			return c, true
		}
	}
	return Score{}, false
}

// Evaluator scores statements against the eight criteria
type Evaluator struct {
	rubric    *rubric.Rubric
	extractor *features.Extractor
	detector  *filler.Detector
}

// New creates an evaluator reading its phrase and criterion tables from r
func New(r *rubric.Rubric) *Evaluator {
	return &Evaluator{
		rubric:    r,
		extractor: features.New(r),
		detector:  filler.New(r),
	}
}

// Evaluate scores text. items and target may be empty; they only feed the
// evidence and university checks.
func (e *Evaluator) Evaluate(text string, items []evidence.Item, target *evidence.Target) (Result, error) {
	if n := document.Length(text); n < MinLength {
		return Result{}, fmt.Errorf("%w: %d characters, need at least %d", ErrTooShort, n, MinLength)
	}

	a := &analysis{
		text:     text,
		rubric:   e.rubric,
		fs:       e.extractor.Extract(text),
		items:    items,
		target:   target,
		mentions: mentionsOf(text, items),
	}

	res := Result{
		Features: a.fs,
		Filler:   e.detector.Analyze(text),
		Mentions: a.mentions,
	}

	weighted := 0.0
	for _, c := range e.rubric.Criteria {
		s := evaluate(c, a)
		weighted += s.Score * s.Weight
		res.Criteria = append(res.Criteria, s)
	}

	res.Weighted = round2(weighted)
	res.Penalty = res.Filler.Total
	res.Overall = round1(math.Max(weighted-res.Penalty, 0.5))
	return res, nil
}

// Names returns the eight criteria in their published order
func Names() []Name {
	return []Name{
		AcademicCriteria,
		IntellectualQualities,
		IntellectualDevelopment,
		SubjectEngagement,
		CommunicationStructure,
		PersonalDevelopment,
		FactualAccuracy,
		UniversitySpecific,
	}
}

func known(name Name) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

func evaluate(c rubric.Criterion, a *analysis) Score {
	s := Score{Name: Name(c.Name), Label: c.Label, Weight: c.Weight}

	total := 0.0
	for _, chk := range c.Checks {
		v := round1(clamp(checkScore(chk, a), 0, 10))
		s.Checks = append(s.Checks, CheckScore{Name: chk.Name, Score: v, Weight: chk.Weight})
		total += v * chk.Weight
	}
	total = clamp(total, 0, 10)

	if c.Cap != nil && all(c.Cap.When, a) && total > c.Cap.Max {
		total = c.Cap.Max
		s.Capped = true
	}

	s.Score = round1(total)
	return s
}

func checkScore(chk rubric.CriterionCheck, a *analysis) float64 {
	for _, o := range chk.Overrides {
		if all(o.When, a) {
			return o.Score
		}
	}
	score := chk.Base
	for _, t := range chk.Terms {
		score += t.Value(a.signal(t.Signal))
	}
	return score
}

// all reports whether every condition holds. An empty list never holds.
func all(conds []rubric.Condition, a *analysis) bool {
	if len(conds) == 0 {
		return false
	}
	for _, c := range conds {
		if !c.Holds(a.signal(c.Signal)) {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
