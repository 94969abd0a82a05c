package criteria

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/features"
	"github.com/pthm/psgrade/internal/rubric"
)

const listingStatement = "I have played the piano for years. I also joined the chess club at school. " +
	"I did a summer job in a shop. I have been a prefect. I also ran a marathon last spring. " +
	"I did the Duke of Edinburgh award."

const strongStatement = "Reading The Selfish Gene made me question how far evolution can be explained at the level of the gene. " +
	"However, a journal article by Noble argued that this view oversimplifies development, and this led me to read further. " +
	"For example, I researched epigenetic inheritance independently and studied how a protein can switch a gene off.\n\n" +
	"Building on this, I completed an extended project on DNA methylation in plants, which taught me to evaluate evidence " +
	"rather than accept it. Specifically, I compared two published studies and found that their methodology differed.\n\n" +
	"Why do some cells respond to stress and others not? I wondered whether the hypothesis of genetic accommodation " +
	"could explain it, and I look forward to exploring such questions in the modules of the degree."

func TestEvaluate_TooShort(t *testing.T) {
	e := New(rubric.Default())

	for _, text := range []string{"", "Too short.", strings.Repeat("a", MinLength-1)} {
		_, err := e.Evaluate(text, nil, nil)
		if !errors.Is(err, ErrTooShort) {
			t.Errorf("Evaluate(%d chars) error = %v, want ErrTooShort", len(text), err)
		}
	}

	if _, err := e.Evaluate(strings.Repeat("a", MinLength), nil, nil); err != nil {
		t.Errorf("Evaluate(%d chars) error = %v, want nil", MinLength, err)
	}
}

func TestEvaluate_ListingCapsDevelopment(t *testing.T) {
	res, err := New(rubric.Default()).Evaluate(listingStatement, nil, nil)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}

	if res.Features.ListingCount != 6 || res.Features.ProgressionCount != 0 {
		t.Fatalf("ListingCount = %d, ProgressionCount = %d, want 6 and 0",
			res.Features.ListingCount, res.Features.ProgressionCount)
	}

	dev, ok := res.Get(IntellectualDevelopment)
	if !ok {
		t.Fatal("intellectualDevelopment missing from result")
	}
	if dev.Score > 2 {
		t.Errorf("intellectualDevelopment = %v, want <= 2", dev.Score)
	}
}

func TestEvaluate_CapRule(t *testing.T) {
	six, zero := 6.0, 0.0
	c := rubric.Criterion{
		Name:   "test",
		Checks: []rubric.CriterionCheck{{Name: "flat", Weight: 1, Base: 8}},
		Cap: &rubric.CriterionCap{
			Max:  2,
			When: []rubric.Condition{{Signal: "listing", Min: &six}, {Signal: "progression", Max: &zero}},
		},
	}

	listing := &analysis{rubric: rubric.Default(), fs: features.FeatureSet{ListingCount: 6}}
	s := evaluate(c, listing)
	if s.Score != 2 || !s.Capped {
		t.Errorf("evaluate() = %v (capped %v), want 2 (capped)", s.Score, s.Capped)
	}

	progressing := &analysis{rubric: rubric.Default(), fs: features.FeatureSet{ListingCount: 6, ProgressionCount: 1}}
	s = evaluate(c, progressing)
	if s.Score != 8 || s.Capped {
		t.Errorf("evaluate() = %v (capped %v), want 8 (not capped)", s.Score, s.Capped)
	}
}

func TestEvaluate_Overrides(t *testing.T) {
	zero := 0.0
	chk := rubric.CriterionCheck{
		Base:      4,
		Overrides: []rubric.Override{{When: []rubric.Condition{{Signal: "subject_domain", Max: &zero}}, Score: 1}},
		Terms:     []rubric.Term{{Signal: "paragraphs", Ladder: []rubric.Step{{Min: 2, Points: 3}}}},
	}

	general := &analysis{rubric: rubric.Default(), fs: features.FeatureSet{SubjectDomain: rubric.GeneralDomain, Paragraphs: 3}}
	if got := checkScore(chk, general); got != 1 {
		t.Errorf("checkScore(general) = %v, want 1", got)
	}

	biology := &analysis{rubric: rubric.Default(), fs: features.FeatureSet{SubjectDomain: "biology", Paragraphs: 3}}
	if got := checkScore(chk, biology); got != 7 {
		t.Errorf("checkScore(biology) = %v, want 7", got)
	}
}

func TestEvaluate_UnquotedTitleIsMentioned(t *testing.T) {
	text := "The Selfish Gene changed how I think about evolution, and I went on to read about kin selection " +
		"and the arguments against gene-centred explanations."
	items := []evidence.Item{
		{Kind: evidence.Book, Title: "The Selfish Gene"},
		{Kind: evidence.Book, Title: "Sapiens"},
		{Kind: evidence.Activity},
	}

	res, err := New(rubric.Default()).Evaluate(text, items, nil)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}

	want := []Mention{
		{Index: 0, Kind: evidence.Book, Title: "The Selfish Gene", Mentioned: true},
		{Index: 1, Kind: evidence.Book, Title: "Sapiens"},
	}
	if !reflect.DeepEqual(res.Mentions, want) {
		t.Errorf("Mentions = %+v, want %+v", res.Mentions, want)
	}
	if got := res.Unmentioned(evidence.Book); !reflect.DeepEqual(got, []string{"Sapiens"}) {
		t.Errorf("Unmentioned(book) = %q, want [Sapiens]", got)
	}

	subject, _ := res.Get(SubjectEngagement)
	for _, c := range subject.Checks {
		if c.Name == "evidenceUse" && c.Score != 6 {
			t.Errorf("evidenceUse = %v, want 6", c.Score)
		}
	}
}

func TestEvaluate_Bounds(t *testing.T) {
	texts := []string{
		listingStatement,
		strongStatement,
		strings.Repeat("I am passionate about science and in conclusion it is a very important subject. ", 30),
		strings.Repeat("word ", 50),
	}
	items := []evidence.Item{{Kind: evidence.Book, Title: "The Selfish Gene", Flags: map[string]bool{"universityLevel": true}}}
	target := &evidence.Target{Name: "University of Cambridge", Course: "Natural Sciences (Biology)"}

	e := New(rubric.Default())
	for i, text := range texts {
		res, err := e.Evaluate(text, items, target)
		if err != nil {
			t.Fatalf("text %d: Evaluate() error: %v", i, err)
		}
		if len(res.Criteria) != 8 {
			t.Errorf("text %d: len(Criteria) = %d, want 8", i, len(res.Criteria))
		}
		for _, c := range res.Criteria {
			if c.Score < 0 || c.Score > 10 {
				t.Errorf("text %d: %s = %v, want within [0, 10]", i, c.Name, c.Score)
			}
			for _, sc := range c.Checks {
				if sc.Score < 0 || sc.Score > 10 {
					t.Errorf("text %d: %s/%s = %v, want within [0, 10]", i, c.Name, sc.Name, sc.Score)
				}
			}
		}
		if res.Overall < 0.5 {
			t.Errorf("text %d: Overall = %v, want >= 0.5", i, res.Overall)
		}
		if res.Penalty < 0 || res.Penalty > 3 {
			t.Errorf("text %d: Penalty = %v, want within [0, 3]", i, res.Penalty)
		}

		want := math.Round(math.Max(res.Weighted-res.Penalty, 0.5)*10) / 10
		if math.Abs(res.Overall-want) > 0.051 {
			t.Errorf("text %d: Overall = %v, want %v", i, res.Overall, want)
		}
	}
}

func TestEvaluate_StrongBeatsListing(t *testing.T) {
	e := New(rubric.Default())
	weak, err := e.Evaluate(listingStatement, nil, nil)
	if err != nil {
		t.Fatalf("Evaluate(listing) error: %v", err)
	}
	strong, err := e.Evaluate(strongStatement, nil, nil)
	if err != nil {
		t.Fatalf("Evaluate(strong) error: %v", err)
	}

	if strong.Overall <= weak.Overall {
		t.Errorf("strong Overall = %v, want > listing Overall = %v", strong.Overall, weak.Overall)
	}
	for _, name := range []Name{AcademicCriteria, IntellectualQualities, IntellectualDevelopment} {
		s, _ := strong.Get(name)
		w, _ := weak.Get(name)
		if s.Score <= w.Score {
			t.Errorf("%s: strong = %v, want > listing = %v", name, s.Score, w.Score)
		}
	}
}

func TestEvaluate_UniversitySpecificHasNoWeight(t *testing.T) {
	e := New(rubric.Default())
	target := &evidence.Target{Name: "Oxford", Course: "Biology"}

	res, err := e.Evaluate(strongStatement, nil, target)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	uni, ok := res.Get(UniversitySpecific)
	if !ok {
		t.Fatal("universitySpecific missing from result")
	}
	if uni.Weight != 0 {
		t.Errorf("universitySpecific weight = %v, want 0", uni.Weight)
	}
	if uni.Score == 0 {
		t.Error("universitySpecific score not computed")
	}

	sum := 0.0
	for _, c := range res.Criteria {
		sum += c.Score * c.Weight
	}
	if math.Abs(sum-res.Weighted) > 0.01 {
		t.Errorf("Weighted = %v, want %v", res.Weighted, sum)
	}
}

func TestWeights(t *testing.T) {
	want := map[Name]float64{
		AcademicCriteria:        0.40,
		IntellectualQualities:   0.25,
		IntellectualDevelopment: 0.15,
		SubjectEngagement:       0.10,
		CommunicationStructure:  0.05,
		PersonalDevelopment:     0.03,
		FactualAccuracy:         0.02,
		UniversitySpecific:      0.00,
	}

	r := rubric.Default()
	sum := 0.0
	for i, c := range r.Criteria {
		if c.Name != string(Names()[i]) {
			t.Errorf("criterion %d = %q, want %q", i, c.Name, Names()[i])
		}
		w, ok := want[Name(c.Name)]
		if !ok {
			t.Errorf("unexpected criterion %q", c.Name)
			continue
		}
		if c.Weight != w {
			t.Errorf("weight of %s = %v, want %v", c.Name, c.Weight, w)
		}
		sum += c.Weight
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("sum of weights = %v, want 1", sum)
	}
	if len(r.Criteria) != len(want) {
		t.Errorf("len(Criteria) = %d, want %d", len(r.Criteria), len(want))
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(rubric.Default()); err != nil {
		t.Fatalf("Validate(default) = %v", err)
	}

	tests := []struct {
		name    string
		overlay string
		want    string
	}{
		{
			name: "unknown signal",
			overlay: `criteria:
  - name: academicCriteria
    weight: 1
    checks:
      - {name: x, weight: 1, terms: [{signal: count.nonsense, ladder: [[1, 1]]}]}
`,
			want: "unknown signal",
		},
		{
			name: "unknown criterion",
			overlay: `criteria:
  - name: charisma
    weight: 1
`,
			want: "unknown criterion",
		},
		{
			name: "missing criteria",
			overlay: `criteria:
  - name: academicCriteria
    weight: 1
    checks:
      - {name: x, weight: 1, base: 5}
`,
			want: "missing from rubric",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := rubric.Parse([]byte(tt.overlay))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			err = Validate(r)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestEvaluate_RubricOverlayRetunesCriteria(t *testing.T) {
	var b strings.Builder
	b.WriteString("criteria:\n")
	for _, name := range Names() {
		fmt.Fprintf(&b, "  - name: %s\n    weight: 0.125\n    checks:\n      - {name: flat, weight: 1, base: 4}\n", name)
	}
	r, err := rubric.Parse([]byte(b.String()))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if err := Validate(r); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	res, err := New(r).Evaluate(strongStatement, nil, nil)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	for _, c := range res.Criteria {
		if c.Score != 4 {
			t.Errorf("%s = %v, want 4", c.Name, c.Score)
		}
	}
	if res.Weighted != 4 {
		t.Errorf("Weighted = %v, want 4", res.Weighted)
	}
}
