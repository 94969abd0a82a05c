package rubric

import "strings"

// Signals is the read-only view of an evidence item that checklist entries
// are evaluated against. Absent flags read as false and absent ratings as 0.
type Signals interface {
	Flag(name string) bool
	Rating(name string) float64
}

// Check is one conjunctive checklist entry. It holds only when every flag in
// All is set, at least one flag in Any is set (if Any is non-empty), the
// named rating reaches Min (if Rating is set) and every named sub-score
// reaches its threshold (if Scores is set). A check with no conditions never
// holds.
type Check struct {
	Name   string             `yaml:"name"`
	All    []string           `yaml:"all"`
	Any    []string           `yaml:"any"`
	Rating string             `yaml:"rating"`
	Min    float64            `yaml:"min"`
	Scores map[string]float64 `yaml:"scores"`
	Points float64            `yaml:"points"`
}

// IsPenalty reports whether the check deducts points.
func (c Check) IsPenalty() bool {
	return c.Points < 0
}

// Holds evaluates the check. scores may be nil when the check does not
// reference sub-scores.
func (c Check) Holds(s Signals, scores map[string]float64) bool {
	if len(c.All) == 0 && len(c.Any) == 0 && c.Rating == "" && len(c.Scores) == 0 {
		return false
	}
	for _, flag := range c.All {
		if !s.Flag(flag) {
			return false
		}
	}
	if len(c.Any) > 0 {
		found := false
		for _, flag := range c.Any {
			if s.Flag(flag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c.Rating != "" && s.Rating(c.Rating) < c.Min {
		return false
	}
	for name, min := range c.Scores {
		if scores[name] < min {
			return false
		}
	}
	return true
}

// EvidenceRules holds the evidence checklists. Common applies to every
// evidence kind; Kinds adds the kind-specific entries.
type EvidenceRules struct {
	// EngagementBase is the personal engagement every valid item starts from
	EngagementBase float64 `yaml:"engagement_base"`

	Common KindRules            `yaml:"common"`
	Kinds  map[string]KindRules `yaml:"kinds"`
	Bonus  []Check              `yaml:"bonus"`
}

// KindRules is the checklist set for one evidence kind.
type KindRules struct {
	Academic   []Check  `yaml:"academic"`
	Engagement []Check  `yaml:"engagement"`
	Uniqueness []Check  `yaml:"uniqueness"`
	Quality    []Check  `yaml:"quality"`
	Overused   []string `yaml:"overused"`
}

// IsOverused reports whether title is one of the canonical overused examples.
func (k KindRules) IsOverused(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return false
	}
	for _, o := range k.Overused {
		if t == strings.ToLower(o) || strings.Contains(t, strings.ToLower(o)) {
			return true
		}
	}
	return false
}

// Kind returns the rules for an evidence kind and whether the kind is known.
func (e EvidenceRules) Kind(kind string) (KindRules, bool) {
	k, ok := e.Kinds[kind]
	return k, ok
}
