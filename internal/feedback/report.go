package feedback

import (
	"fmt"
	"strings"

	"github.com/pthm/psgrade/internal/criteria"
	"github.com/pthm/psgrade/internal/features"
	"github.com/pthm/psgrade/internal/filler"
)

// Severity ranks a priority. Higher is more urgent.
type Severity int

const (
	Medium Severity = iota
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	case Critical:
		return "CRITICAL"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "MEDIUM":
		*s = Medium
	case "HIGH":
		*s = High
	case "CRITICAL":
		*s = Critical
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Priority is one actionable issue
type Priority struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
}

// Narrative is the feedback block for one criterion
type Narrative struct {
	Criterion criteria.Name `json:"criterion"`
	Label     string        `json:"label"`
	Score     float64       `json:"score"`
	Weight    float64       `json:"weight"`
	Text      string        `json:"text"`
}

// Report is the composed feedback for one statement
type Report struct {
	// ID is assigned by whoever stores or serves the report
	ID string `json:"id,omitempty"`

	Overall  float64 `json:"overall"`
	Grade    string  `json:"grade"`
	Weighted float64 `json:"weighted"`
	Penalty  float64 `json:"penalty"`

	Criteria         []Narrative    `json:"criteria"`
	Priorities       []Priority     `json:"priorities"`
	Strengths        []string       `json:"strengths"`
	Concerns         []string       `json:"concerns"`
	UniversityAdvice string         `json:"universityAdvice,omitempty"`
	FillerMatches    []filler.Match `json:"fillerMatches,omitempty"`

	Features features.FeatureSet `json:"features"`
}

// HasCritical reports whether any priority is critical
func (r *Report) HasCritical() bool {
	for _, p := range r.Priorities {
		if p.Severity == Critical {
			return true
		}
	}
	return false
}

// gradeBands maps the overall score to a grade, highest band first
var gradeBands = []struct {
	min   float64
	grade string
}{
	{9, "A*"},
	{8, "A"},
	{7, "B"},
	{6, "C"},
	{5, "D"},
	{4, "E"},
	{3, "F"},
}

// Grade returns the letter grade for an overall score
func Grade(overall float64) string {
	for _, b := range gradeBands {
		if overall >= b.min {
			return b.grade
		}
	}
	return "U"
}
