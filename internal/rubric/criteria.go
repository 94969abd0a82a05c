package rubric

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Criterion is one weighted statement criterion
type Criterion struct {
	Name   string           `yaml:"name"`
	Label  string           `yaml:"label"`
	Weight float64          `yaml:"weight"`
	Checks []CriterionCheck `yaml:"checks"`

	// Cap limits the criterion total when every condition holds
	Cap *CriterionCap `yaml:"cap"`
}

// CriterionCheck is one sub-check scored out of 10. The first override whose
// conditions all hold fixes the score; otherwise the score is Base plus the
// value of every term.
type CriterionCheck struct {
	Name      string     `yaml:"name"`
	Weight    float64    `yaml:"weight"`
	Base      float64    `yaml:"base"`
	Overrides []Override `yaml:"overrides"`
	Terms     []Term     `yaml:"terms"`
}

// Override fixes a check's score when every condition holds
type Override struct {
	When  []Condition `yaml:"when"`
	Score float64     `yaml:"score"`
}

// CriterionCap limits a criterion total to Max
type CriterionCap struct {
	Max  float64     `yaml:"max"`
	When []Condition `yaml:"when"`
}

// Condition tests one named signal. With neither bound set it holds for any
// positive value.
type Condition struct {
	Signal string   `yaml:"signal"`
	Min    *float64 `yaml:"min"`
	Max    *float64 `yaml:"max"`
}

// Holds reports whether v satisfies the condition
func (c Condition) Holds(v float64) bool {
	if c.Min == nil && c.Max == nil {
		return v > 0
	}
	if c.Min != nil && v < *c.Min {
		return false
	}
	if c.Max != nil && v > *c.Max {
		return false
	}
	return true
}

// Term turns a signal into points: the first ladder rung the value reaches,
// plus Per points per unit. A positive Limit bounds the Per contribution in
// both directions.
type Term struct {
	Signal string  `yaml:"signal"`
	Ladder []Step  `yaml:"ladder"`
	Per    float64 `yaml:"per"`
	Limit  float64 `yaml:"limit"`
}

// Value returns the term's points for signal value v
func (t Term) Value(v float64) float64 {
	pts := 0.0
	for _, s := range t.Ladder {
		if v >= s.Min {
			pts = s.Points
			break
		}
	}
	if t.Per != 0 {
		rate := t.Per * v
		if t.Limit > 0 {
			rate = math.Max(-t.Limit, math.Min(rate, t.Limit))
		}
		pts += rate
	}
	return pts
}

// Step is one ladder rung, written as [min, points]. Rungs are listed from
// the highest threshold down.
type Step struct {
	Min    float64
	Points float64
}

// UnmarshalYAML decodes a two-element [min, points] sequence
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	var pair []float64
	if err := value.Decode(&pair); err != nil {
		return fmt.Errorf("ladder step at line %d: %w", value.Line, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("ladder step at line %d: want [min, points], got %d values", value.Line, len(pair))
	}
	s.Min, s.Points = pair[0], pair[1]
	return nil
}

// MarshalYAML encodes the step as [min, points]
func (s Step) MarshalYAML() (interface{}, error) {
	return []float64{s.Min, s.Points}, nil
}

// Signals returns every signal name the criterion reads
func (c Criterion) Signals() []string {
	var names []string
	if c.Cap != nil {
		for _, cond := range c.Cap.When {
			names = append(names, cond.Signal)
		}
	}
	for _, chk := range c.Checks {
		for _, o := range chk.Overrides {
			for _, cond := range o.When {
				names = append(names, cond.Signal)
			}
		}
		for _, t := range chk.Terms {
			names = append(names, t.Signal)
		}
	}
	return names
}

// Criterion returns the named criterion
func (r *Rubric) Criterion(name string) (Criterion, bool) {
	for _, c := range r.Criteria {
		if c.Name == name {
			return c, true
		}
	}
	return Criterion{}, false
}
