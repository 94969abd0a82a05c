package filler

import (
	"strings"
	"testing"

	"github.com/pthm/psgrade/internal/rubric"
)

func hasFamily(res Result, family string) bool {
	for _, m := range res.Matches {
		if m.Family == family {
			return true
		}
	}
	return false
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		total float64
	}{
		{
			name:  "empty",
			text:  "",
			total: 0,
		},
		{
			name:  "vague origin",
			text:  "Ever since I was young I have wanted to be a doctor.",
			total: 0.4,
		},
		{
			name:  "one increment per family per fragment",
			text:  "From a young age, ever since I was little, I wondered about stars.",
			total: 0.4,
		},
		{
			name:  "short fragments ignored",
			text:  "Very good. Very good!",
			total: 0,
		},
		{
			name: "first person ratio",
			text: "I enjoy reading history books. I visited the museum last year. I wrote an essay on trade. " +
				"The essay won a prize at school. My teacher encouraged further study.",
			total: 0.4,
		},
		{
			name: "low opener diversity",
			text: "The cell divides by mitosis. The process is regulated. The checkpoint can fail. " +
				"The result may be cancer. A tumour can then form. A biopsy confirms it.",
			total: 0.3,
		},
		{
			name:  "capped",
			text:  strings.Repeat("I want to make a difference in the world. ", 10),
			total: 3.0,
		},
	}

	d := New(rubric.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Analyze(tt.text)
			if res.Total != tt.total {
				t.Errorf("Analyze(%q).Total = %v, want %v (matches %+v)", tt.text, res.Total, tt.total, res.Matches)
			}
			if got := d.Penalty(tt.text); got != res.Total {
				t.Errorf("Penalty() = %v, want %v", got, res.Total)
			}
		})
	}
}

func TestAnalyze_MissingExamples(t *testing.T) {
	d := New(rubric.Default())
	long := strings.Repeat("The river carved a deep valley through the limestone plateau. ", 20)

	res := d.Analyze(long)
	if !hasFamily(res, MissingExamplesFamily) {
		t.Errorf("expected %s match for long text without examples", MissingExamplesFamily)
	}
	if res.Total < 0.6 {
		t.Errorf("Total = %v, want >= 0.6", res.Total)
	}

	withExample := "For example, " + long
	if hasFamily(d.Analyze(withExample), MissingExamplesFamily) {
		t.Errorf("unexpected %s match when an example marker is present", MissingExamplesFamily)
	}
}

func TestAnalyze_Bounds(t *testing.T) {
	d := New(rubric.Default())
	texts := []string{
		"",
		"short",
		strings.Repeat("I am passionate about science and in conclusion it is a very important subject. ", 40),
	}
	for _, text := range texts {
		res := d.Analyze(text)
		if res.Total < 0 || res.Total > 3 {
			t.Errorf("Total = %v, want within [0, 3]", res.Total)
		}
		if res.Raw < res.Total {
			t.Errorf("Raw = %v is below Total = %v", res.Raw, res.Total)
		}
	}
}

func TestAnalyze_MatchFragments(t *testing.T) {
	d := New(rubric.Default())
	res := d.Analyze("Needless to say, chemistry is a very important subject.")

	want := map[string]bool{
		"redundant-connective":  true,
		"intensifier-adjective": true,
		"empty-claim":           true,
	}
	if len(res.Matches) != len(want) {
		t.Fatalf("len(Matches) = %d, want %d: %+v", len(res.Matches), len(want), res.Matches)
	}
	for _, m := range res.Matches {
		if !want[m.Family] {
			t.Errorf("unexpected family %q", m.Family)
		}
		if m.Fragment == "" {
			t.Errorf("family %q has no fragment", m.Family)
		}
	}
	if res.Total != 0.6 {
		t.Errorf("Total = %v, want 0.6", res.Total)
	}
}
