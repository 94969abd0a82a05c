package feedback

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pthm/psgrade/internal/criteria"
	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/features"
)

// StatementLimit is the character limit of the application form
const StatementLimit = 4000

// Composer turns criterion scores and features into a Report. It performs no
// text analysis of its own.
type Composer struct{}

// New creates a composer
func New() *Composer {
	return &Composer{}
}

// input is what every priority, strength and concern check reads
type input struct {
	res    criteria.Result
	fs     features.FeatureSet
	target *evidence.Target
}

func (in *input) score(name criteria.Name) float64 {
	s, _ := in.res.Get(name)
	return s.Score
}

// unnamedBooks returns the titles of book evidence the statement does not name
func (in *input) unnamedBooks() []string {
	return in.res.Unmentioned(evidence.Book)
}

// Compose builds the report for an evaluated statement. target may be nil.
func (c *Composer) Compose(res criteria.Result, fs features.FeatureSet, target *evidence.Target) *Report {
	in := &input{res: res, fs: fs, target: target}

	report := &Report{
		Overall:       res.Overall,
		Grade:         Grade(res.Overall),
		Weighted:      res.Weighted,
		Penalty:       res.Penalty,
		FillerMatches: res.Filler.Matches,
		Features:      fs,
	}

	for _, cs := range res.Criteria {
		text := ""
		if n, ok := narratives[cs.Name]; ok {
			text = n.render(cs.Score, fs)
		}
		report.Criteria = append(report.Criteria, Narrative{
			Criterion: cs.Name,
			Label:     cs.Label,
			Score:     cs.Score,
			Weight:    cs.Weight,
			Text:      text,
		})
	}

	for _, rule := range priorityRules {
		if rule.applies(in) {
			report.Priorities = append(report.Priorities, Priority{
				Severity: rule.severity,
				Title:    rule.title,
				Detail:   rule.detail(in),
			})
		}
	}
	sort.SliceStable(report.Priorities, func(i, j int) bool {
		return report.Priorities[i].Severity > report.Priorities[j].Severity
	})

	report.Strengths = collect(in, strengthRules)
	report.Concerns = collect(in, concernRules)

	if !target.IsZero() {
		report.UniversityAdvice = universityAdvice(target)
	}

	return report
}

// priorityRule is one independent threshold check
type priorityRule struct {
	severity Severity
	title    string
	applies  func(*input) bool
	detail   func(*input) string
}

var priorityRules = []priorityRule{
	{
		severity: Critical,
		title:    "Activity listing",
		applies: func(in *input) bool {
			return in.fs.ListingCount >= 5 && in.fs.ProgressionCount == 0
		},
		detail: func(in *input) string {
			return fmt.Sprintf("%d listing phrases and no progression phrases: the statement reads as a list of activities. "+
				"Explain how each experience led to the next.", in.fs.ListingCount)
		},
	},
	{
		severity: Critical,
		title:    "Academic depth",
		applies:  func(in *input) bool { return in.score(criteria.AcademicCriteria) < 4 },
		detail: func(in *input) string {
			return fmt.Sprintf("Academic criteria score %.1f/10 and carry 40%% of the grade. "+
				"Discuss specific reading, ideas and sources from your subject.", in.score(criteria.AcademicCriteria))
		},
	},
	{
		severity: High,
		title:    "Filler language",
		applies:  func(in *input) bool { return in.res.Penalty >= 1.0 },
		detail: func(in *input) string {
			return fmt.Sprintf("Filler and clichéd phrasing costs %.2f points. Cut sentences that could appear in anyone's statement.",
				in.res.Penalty)
		},
	},
	{
		severity: High,
		title:    "Intellectual engagement",
		applies:  func(in *input) bool { return in.score(criteria.IntellectualQualities) < 5 },
		detail: func(in *input) string {
			return "Show curiosity and critical thought: a question you pursued, a view you challenged, what you read next."
		},
	},
	{
		severity: High,
		title:    "Concrete examples",
		applies: func(in *input) bool {
			return in.fs.ExampleCount == 0 && in.fs.Chars > 1000
		},
		detail: func(in *input) string {
			return "A long statement with no concrete examples. Support each claim with a specific instance."
		},
	},
	{
		severity: Medium,
		title:    "Clichés",
		applies:  func(in *input) bool { return len(in.fs.Cliches) > 0 },
		detail: func(in *input) string {
			return fmt.Sprintf("Replace stock phrases such as %s.", quoteList(first(in.fs.Cliches, 3)))
		},
	},
	{
		severity: Medium,
		title:    "Wider reading",
		applies: func(in *input) bool {
			return len(in.fs.ResearchMentions) == 0 && len(in.fs.BookTitles) == 0
		},
		detail: func(in *input) string {
			return "No books, articles or lectures are named. Refer to at least one source beyond the curriculum."
		},
	},
	{
		severity: Medium,
		title:    "Structure",
		applies:  func(in *input) bool { return in.score(criteria.CommunicationStructure) < 6 },
		detail: func(in *input) string {
			return fmt.Sprintf("%d paragraphs and %d connectives. Give each idea its own paragraph and link them.",
				in.fs.Paragraphs, in.fs.ConnectorCount)
		},
	},
	{
		severity: Medium,
		title:    "Unused evidence",
		applies:  func(in *input) bool { return len(in.unnamedBooks()) > 0 },
		detail: func(in *input) string {
			return fmt.Sprintf("Selected reading not named in the statement: %s.", quoteList(first(in.unnamedBooks(), 3)))
		},
	},
	{
		severity: Medium,
		title:    "Length",
		applies:  func(in *input) bool { return in.fs.Chars > StatementLimit },
		detail: func(in *input) string {
			return fmt.Sprintf("The statement is %d characters; the limit is %d.", in.fs.Chars, StatementLimit)
		},
	},
}

// listRule adds zero or more lines to the strengths or concerns list
type listRule func(*input) []string

var strengthRules = []listRule{
	func(in *input) []string {
		var out []string
		for _, cs := range in.res.Criteria {
			if cs.Weight > 0 && cs.Score >= 8 {
				out = append(out, fmt.Sprintf("Strong %s (%.1f/10)", strings.ToLower(cs.Label), cs.Score))
			}
		}
		return out
	},
	func(in *input) []string {
		if in.fs.ProgressionCount >= 2 {
			return []string{fmt.Sprintf("Ideas build on each other (%d progression phrases)", in.fs.ProgressionCount)}
		}
		return nil
	},
	func(in *input) []string {
		if in.fs.ExampleCount >= 2 {
			return []string{"Claims are backed by concrete examples"}
		}
		return nil
	},
	func(in *input) []string {
		if len(in.fs.ResearchMentions) >= 2 {
			return []string{"Draws on wider reading: " + strings.Join(first(in.fs.ResearchMentions, 3), ", ")}
		}
		return nil
	},
	func(in *input) []string {
		if in.res.Penalty == 0 {
			return []string{"No filler or clichéd phrasing detected"}
		}
		return nil
	},
}

var concernRules = []listRule{
	func(in *input) []string {
		var out []string
		for _, cs := range in.res.Criteria {
			if cs.Weight > 0 && cs.Score < 5 {
				out = append(out, fmt.Sprintf("%s is under-developed (%.1f/10)", cs.Label, cs.Score))
			}
		}
		return out
	},
	func(in *input) []string {
		if in.res.Penalty >= 0.5 {
			return []string{fmt.Sprintf("Filler language costs %.2f points", in.res.Penalty)}
		}
		return nil
	},
	func(in *input) []string {
		if len(in.fs.VagueStatements) > 0 {
			return []string{"Vague wording: " + quoteList(first(in.fs.VagueStatements, 3))}
		}
		return nil
	},
	func(in *input) []string {
		if len(in.fs.PassionPhrases) >= 3 {
			return []string{"Relies on declarations of passion rather than evidence of it"}
		}
		return nil
	},
}

func collect(in *input, rules []listRule) []string {
	var out []string
	for _, r := range rules {
		out = append(out, r(in)...)
	}
	return out
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
