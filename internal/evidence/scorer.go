package evidence

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pthm/psgrade/internal/rubric"
)

// Sub-score caps
const (
	MaxAcademicDepth       = 4.0
	MaxUniversityRelevance = 3.0
	MaxPersonalEngagement  = 2.0
	MaxUniqueness          = 1.0
	MaxEvidenceQuality     = 2.0
	MaxBonus               = 0.5
)

// NoTargetRelevance is the relevance awarded when no target is given
const NoTargetRelevance = 0.5

// Breakdown holds the five sub-scores and the signed bonus
type Breakdown struct {
	AcademicDepth       float64 `json:"academicDepth"`
	UniversityRelevance float64 `json:"universityRelevance"`
	PersonalEngagement  float64 `json:"personalEngagement"`
	Uniqueness          float64 `json:"uniqueness"`
	EvidenceQuality     float64 `json:"evidenceQuality"`
	Bonus               float64 `json:"bonus"`
}

// Sum adds every component
func (b Breakdown) Sum() float64 {
	return b.AcademicDepth + b.UniversityRelevance + b.PersonalEngagement + b.Uniqueness + b.EvidenceQuality + b.Bonus
}

// values exposes the sub-scores by the names used in bonus checks
func (b Breakdown) values() map[string]float64 {
	return map[string]float64{
		"academicDepth":       b.AcademicDepth,
		"universityRelevance": b.UniversityRelevance,
		"personalEngagement":  b.PersonalEngagement,
		"uniqueness":          b.Uniqueness,
		"evidenceQuality":     b.EvidenceQuality,
	}
}

// Score is the result of scoring one evidence item
type Score struct {
	Composite   float64   `json:"composite"`
	Breakdown   Breakdown `json:"breakdown"`
	Tier        Tier      `json:"tier"`
	Suggestions []string  `json:"suggestions"`

	// Checks names the checklist entries that held, in evaluation order
	Checks []string `json:"checks,omitempty"`
}

// suggestion is emitted when a sub-score falls below its threshold
type suggestion struct {
	below   float64
	value   func(Breakdown) float64
	message string
}

var suggestions = []suggestion{
	{2.0, func(b Breakdown) float64 { return b.AcademicDepth },
		"Strengthen academic depth: choose material at university level, or show how it goes beyond the curriculum."},
	{1.5, func(b Breakdown) float64 { return b.UniversityRelevance },
		"Connect this evidence more clearly to your target course and university."},
	{1.0, func(b Breakdown) float64 { return b.PersonalEngagement },
		"Show personal engagement: explain what you did with it and how it changed your thinking."},
	{1.0, func(b Breakdown) float64 { return b.EvidenceQuality },
		"Add specific, verifiable detail such as names, dates and outcomes."},
}

// Scorer scores evidence items against a rubric. It holds no mutable state.
type Scorer struct {
	rubric *rubric.Rubric
}

// New creates a scorer for r
func New(r *rubric.Rubric) *Scorer {
	return &Scorer{rubric: r}
}

// Score scores one item. target may be nil. Unknown kinds score zero with
// the Invalid tier.
func (s *Scorer) Score(item Item, target *Target) Score {
	item.Kind = item.Kind.Normalize()
	kind, ok := s.rubric.Evidence.Kind(string(item.Kind))
	if !item.Kind.Valid() || !ok {
		return invalidScore(item.Kind)
	}

	sc := &scoring{rubric: s.rubric, item: item, kind: kind}

	b := Breakdown{
		AcademicDepth:       sc.academicDepth(),
		UniversityRelevance: sc.universityRelevance(target),
		PersonalEngagement:  sc.personalEngagement(),
		Uniqueness:          sc.uniqueness(),
		EvidenceQuality:     sc.evidenceQuality(),
	}
	b.Bonus = sc.bonus(b)

	composite := round1(clamp(b.Sum(), 0, 10))

	var hints []string
	for _, sg := range suggestions {
		if sg.value(b) < sg.below {
			hints = append(hints, sg.message)
		}
	}

	return Score{
		Composite:   composite,
		Breakdown:   b,
		Tier:        TierFor(composite),
		Suggestions: hints,
		Checks:      sc.held,
	}
}

// Ranked is a scored item with its position in the input
type Ranked struct {
	Index int   `json:"index"`
	Item  Item  `json:"item"`
	Score Score `json:"score"`
}

// Rank scores items and orders them by composite, highest first. Items with
// equal composites keep their input order.
func (s *Scorer) Rank(items []Item, target *Target) []Ranked {
	return s.RankEach(items, target, nil)
}

// RankEach is Rank with a callback run as each item is scored, in input
// order. scored may be nil.
func (s *Scorer) RankEach(items []Item, target *Target, scored func(Ranked)) []Ranked {
	ranked := make([]Ranked, len(items))
	for i, item := range items {
		ranked[i] = Ranked{Index: i, Item: item, Score: s.Score(item, target)}
		if scored != nil {
			scored(ranked[i])
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Composite > ranked[j].Score.Composite
	})
	return ranked
}

func invalidScore(kind Kind) Score {
	accepted := make([]string, 0, 4)
	for _, k := range Kinds() {
		accepted = append(accepted, string(k))
	}
	return Score{
		Tier: Invalid,
		Suggestions: []string{
			fmt.Sprintf("Evidence type %q is not recognised; use one of %s.", kind, strings.Join(accepted, ", ")),
		},
	}
}

// scoring carries one Score call's inputs
type scoring struct {
	rubric *rubric.Rubric
	item   Item
	kind   rubric.KindRules
	held   []string
}

// tally sums the points of the checks that hold, split into gains and losses
func (sc *scoring) tally(scores map[string]float64, lists ...[]rubric.Check) (gain, loss float64) {
	for _, checks := range lists {
		for _, c := range checks {
			if !c.Holds(sc.item, scores) {
				continue
			}
			sc.held = append(sc.held, c.Name)
			if c.IsPenalty() {
				loss += c.Points
			} else {
				gain += c.Points
			}
		}
	}
	return gain, loss
}

func (sc *scoring) academicDepth() float64 {
	gain, loss := sc.tally(nil, sc.rubric.Evidence.Common.Academic, sc.kind.Academic)
	if sc.item.Kind == Book || sc.item.Kind == Insight {
		gain += sc.noteBonus() + sc.vocabularyBonus()
	}
	return capped(gain, loss, MaxAcademicDepth)
}

// noteBonus rewards attached notes: 0.1 each up to 0.3, plus 0.2 when the
// notes average at least 100 characters.
func (sc *scoring) noteBonus() float64 {
	n, total := 0, 0
	for _, note := range sc.item.Notes {
		if note = strings.TrimSpace(note); note != "" {
			n++
			total += utf8.RuneCountInString(note)
		}
	}
	if n == 0 {
		return 0
	}
	bonus := math.Min(0.1*float64(n), 0.3)
	if total/n >= 100 {
		bonus += 0.2
	}
	return bonus
}

// vocabularyBonus rewards discipline vocabulary in the item's free text
func (sc *scoring) vocabularyBonus() float64 {
	text := sc.item.FreeText()
	hits := sc.rubric.Lexicon.AcademicTerms.Count(text) + sc.rubric.Lexicon.TechnicalDepth.Count(text)
	return math.Min(0.05*float64(hits), 0.3)
}

func (sc *scoring) universityRelevance(target *Target) float64 {
	if target.IsZero() {
		return NoTargetRelevance
	}

	pts := 0.0
	if sc.subjectOverlap(target.Course) {
		if sc.item.Flag("courseConnection") {
			pts += 1.5
			sc.held = append(sc.held, "course-connection")
		} else {
			pts += 1.0
			sc.held = append(sc.held, "subject-overlap")
		}
	}

	inst := sc.rubric.InstitutionFor(target.Name)
	if inst.Requires.Holds(sc.item, nil) {
		pts += inst.Points
		sc.held = append(sc.held, "institution-"+inst.Tier)
	}

	if subject, ok := sc.rubric.SubjectForCourse(target.Course); ok {
		hits := subject.Keywords.Count(sc.item.FreeText())
		pts += math.Min(0.1*float64(hits), 0.5)
	}

	return capped(pts, 0, MaxUniversityRelevance)
}

// subjectOverlap reports whether the item's subject area and the target
// course name the same subject.
func (sc *scoring) subjectOverlap(course string) bool {
	subject := strings.ToLower(strings.TrimSpace(sc.item.Subject))
	course = strings.ToLower(strings.TrimSpace(course))
	if subject == "" || course == "" {
		return false
	}
	if strings.Contains(course, subject) || strings.Contains(subject, course) {
		return true
	}
	a, okA := sc.rubric.SubjectForCourse(subject)
	b, okB := sc.rubric.SubjectForCourse(course)
	return okA && okB && a.Name == b.Name
}

func (sc *scoring) personalEngagement() float64 {
	gain, loss := sc.tally(nil, sc.rubric.Evidence.Common.Engagement, sc.kind.Engagement)
	gain += sc.rubric.Evidence.EngagementBase
	if sc.item.Kind == Book {
		gain += sc.reflectiveNotes()
	}
	return capped(gain, loss, MaxPersonalEngagement)
}

// reflectiveNotes rewards notes written as first-person realisations: 0.2
// each up to 0.4.
func (sc *scoring) reflectiveNotes() float64 {
	n := 0
	for _, note := range sc.item.Notes {
		if sc.rubric.Lexicon.Realisation.Any(note) {
			n++
		}
	}
	return math.Min(0.2*float64(n), 0.4)
}

func (sc *scoring) uniqueness() float64 {
	gain := 0.0
	if strings.TrimSpace(sc.item.Title) != "" && !sc.kind.IsOverused(sc.item.Title) {
		gain += 0.4
		sc.held = append(sc.held, "fresh-title")
	}
	g, loss := sc.tally(nil, sc.rubric.Evidence.Common.Uniqueness, sc.kind.Uniqueness)
	return capped(gain+g, loss, MaxUniqueness)
}

func (sc *scoring) evidenceQuality() float64 {
	gain, loss := sc.tally(nil, sc.rubric.Evidence.Common.Quality, sc.kind.Quality)
	return capped(gain, loss, MaxEvidenceQuality)
}

func (sc *scoring) bonus(b Breakdown) float64 {
	gain, loss := sc.tally(b.values(), sc.rubric.Evidence.Bonus)
	return round2(clamp(gain+loss, -MaxBonus, MaxBonus))
}

// capped limits the gains to max, then applies the losses and floors at zero
func capped(gain, loss, max float64) float64 {
	return round2(math.Max(math.Min(gain, max)+loss, 0))
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
