package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pthm/psgrade/internal/criteria"
	"github.com/pthm/psgrade/internal/filler"
	"github.com/pthm/psgrade/internal/rubric"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Summarise the rubric in use",
	Long: `Print the criteria weights, filler families, institution tiers,
subjects and phrase-table sizes of the active rubric (the built-in tables,
or the overlay named by rubric.path in the config).`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	RootCmd.AddCommand(rulesCmd)
}

// rubricSummary is the printable shape of a rubric
type rubricSummary struct {
	Criteria     []criterionSummary `json:"criteria"`
	Filler       []fillerSummary    `json:"filler"`
	FillerCap    float64            `json:"fillerCap"`
	Institutions []tierSummary      `json:"institutions"`
	Subjects     []string           `json:"subjects"`
	Lexicon      map[string]int     `json:"lexicon"`
	Kinds        []string           `json:"evidenceKinds"`
}

type criterionSummary struct {
	Name   criteria.Name `json:"name"`
	Label  string        `json:"label"`
	Weight float64       `json:"weight"`
	Checks int           `json:"checks"`
}

type fillerSummary struct {
	Family   string  `json:"family"`
	Weight   float64 `json:"weight"`
	Patterns int     `json:"patterns"`
}

type tierSummary struct {
	Tier   string   `json:"tier"`
	Match  []string `json:"match,omitempty"`
	Points float64  `json:"points"`
}

func summarise(r *rubric.Rubric) rubricSummary {
	s := rubricSummary{
		FillerCap: r.Filler.Cap,
		Lexicon:   make(map[string]int),
	}

	for _, c := range r.Criteria {
		s.Criteria = append(s.Criteria, criterionSummary{Name: criteria.Name(c.Name), Label: c.Label, Weight: c.Weight, Checks: len(c.Checks)})
	}
	for _, f := range r.Filler.Families {
		s.Filler = append(s.Filler, fillerSummary{Family: f.Name, Weight: f.Weight, Patterns: len(f.Patterns)})
	}
	s.Filler = append(s.Filler,
		fillerSummary{Family: filler.FirstPersonFamily, Weight: r.Filler.FirstPerson.Weight},
		fillerSummary{Family: filler.OpenerDiversityFamily, Weight: r.Filler.OpenerDiversity.Weight},
		fillerSummary{Family: filler.MissingExamplesFamily, Weight: r.Filler.MissingExamples.Weight},
	)
	for _, inst := range r.Institutions {
		s.Institutions = append(s.Institutions, tierSummary{Tier: inst.Tier, Match: inst.Match, Points: inst.Points})
	}
	for _, sub := range r.Subjects {
		s.Subjects = append(s.Subjects, sub.Name)
	}
	for name, pl := range r.Lexicon.Families() {
		s.Lexicon[name] = pl.Len()
	}
	for kind := range r.Evidence.Kinds {
		s.Kinds = append(s.Kinds, kind)
	}
	sort.Strings(s.Kinds)
	return s
}

func runRules(cmd *cobra.Command, args []string) error {
	eng, err := loadEngine()
	if err != nil {
		return err
	}
	s := summarise(eng.Rubric())

	u := GetUI()
	if u.IsJSON() {
		enc := json.NewEncoder(u.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	st := u.Styles
	w := u.Writer

	fmt.Fprintln(w, st.Header.Render("Criteria"))
	for _, c := range s.Criteria {
		fmt.Fprintf(w, "  %-28s %3.0f%% %s\n", c.Label, c.Weight*100, st.Muted.Render(fmt.Sprintf("%d checks", c.Checks)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Header.Render(fmt.Sprintf("Filler (cap %.1f)", s.FillerCap)))
	for _, f := range s.Filler {
		fmt.Fprintf(w, "  %-28s %.2f %s\n", f.Family, f.Weight, st.Muted.Render(fmt.Sprintf("%d patterns", f.Patterns)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Header.Render("Institutions"))
	for _, t := range s.Institutions {
		match := "(default)"
		if len(t.Match) > 0 {
			match = fmt.Sprintf("%d names", len(t.Match))
		}
		fmt.Fprintf(w, "  %-28s %.1f %s\n", t.Tier, t.Points, st.Muted.Render(match))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Header.Render("Subjects"))
	fmt.Fprintf(w, "  %d subjects: %v\n", len(s.Subjects), s.Subjects)

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Header.Render("Lexicon"))
	names := make([]string, 0, len(s.Lexicon))
	for name := range s.Lexicon {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-28s %d\n", name, s.Lexicon[name])
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Evidence kinds: %v\n", s.Kinds)
	return nil
}
