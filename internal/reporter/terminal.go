package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/features"
	"github.com/pthm/psgrade/internal/feedback"
	"github.com/pthm/psgrade/internal/filler"
	"github.com/pthm/psgrade/internal/review"
	"github.com/pthm/psgrade/internal/store"
	"github.com/pthm/psgrade/internal/ui"
)

const barWidth = 20

// TerminalReporter outputs results to the terminal with lipgloss styles
type TerminalReporter struct {
	w  io.Writer
	ui *ui.UI
}

// NewTerminalReporter creates a new terminal reporter
func NewTerminalReporter(w io.Writer, u *ui.UI) *TerminalReporter {
	return &TerminalReporter{w: w, ui: u}
}

func (r *TerminalReporter) styles() *ui.Styles {
	return r.ui.Styles
}

// Statement prints the score card, priorities and narratives
func (r *TerminalReporter) Statement(report *feedback.Report, opinion *review.Opinion) error {
	s := r.styles()

	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "%s %s  %s\n",
		s.Header.Render("Overall"),
		s.Score(report.Overall).Render(fmt.Sprintf("%.1f/10", report.Overall)),
		s.Header.Render("Grade "+report.Grade),
	)
	fmt.Fprintln(r.w, s.Muted.Render(fmt.Sprintf("weighted %.2f, filler penalty %.2f", report.Weighted, report.Penalty)))

	r.separator()
	for _, c := range report.Criteria {
		label := fmt.Sprintf("%-28s", c.Label)
		weight := fmt.Sprintf("%3.0f%%", c.Weight*100)
		fmt.Fprintf(r.w, "%s %s %s %s\n", label, s.Bar(c.Score, barWidth),
			s.Score(c.Score).Render(fmt.Sprintf("%4.1f", c.Score)), s.Muted.Render(weight))
	}

	if len(report.Priorities) > 0 {
		r.section("Priorities")
		for _, p := range report.Priorities {
			r.printPriority(p)
		}
	}

	r.list("Strengths", s.IconSuccess, s.Success, report.Strengths)
	r.list("Concerns", s.IconWarning, s.Warning, report.Concerns)

	r.section("Feedback")
	for _, c := range report.Criteria {
		fmt.Fprintf(r.w, "%s\n", s.Subheader.Render(c.Label))
		fmt.Fprintf(r.w, "  %s\n", c.Text)
	}

	if report.UniversityAdvice != "" {
		r.section("University advice")
		fmt.Fprintf(r.w, "  %s\n", report.UniversityAdvice)
	}

	if opinion != nil {
		r.printOpinion(opinion)
	}

	r.printSummary(report)
	return nil
}

func (r *TerminalReporter) printPriority(p feedback.Priority) {
	s := r.styles()

	var style lipgloss.Style
	var icon string
	switch p.Severity {
	case feedback.Critical:
		style, icon = s.Critical, s.IconCritical
	case feedback.High:
		style, icon = s.High, s.IconHigh
	default:
		style, icon = s.Medium, s.IconMedium
	}

	fmt.Fprintf(r.w, "  %s %s %s\n", style.Render(icon), p.Title, s.Muted.Render("["+p.Severity.String()+"]"))
	if p.Detail != "" {
		fmt.Fprintf(r.w, "    %s\n", p.Detail)
	}
}

func (r *TerminalReporter) printOpinion(op *review.Opinion) {
	s := r.styles()

	r.section("Second opinion")
	if op.Summary != "" {
		fmt.Fprintf(r.w, "  %s\n", op.Summary)
	}
	if op.Agreement != "" {
		fmt.Fprintf(r.w, "  %s\n", s.Muted.Render("rubric verdict: "+op.Agreement))
	}
	for _, sg := range op.Suggestions {
		fmt.Fprintf(r.w, "  %s %s\n", s.IconBullet, sg.Message)
		if sg.Quote != "" && len(sg.Quote) < 200 {
			fmt.Fprintf(r.w, "    %s\n", s.Quote.Render("> "+sg.Quote))
		}
		if sg.Rewrite != "" {
			fmt.Fprintf(r.w, "    %s\n", s.Success.Render("→ "+sg.Rewrite))
		}
	}
}

func (r *TerminalReporter) printSummary(report *feedback.Report) {
	s := r.styles()
	summary := ComputeSummary(report.Priorities)

	r.separator()

	var parts []string
	if summary.Critical > 0 {
		parts = append(parts, s.Critical.Render(fmt.Sprintf("%d critical", summary.Critical)))
	}
	if summary.High > 0 {
		parts = append(parts, s.High.Render(fmt.Sprintf("%d high", summary.High)))
	}
	if summary.Medium > 0 {
		parts = append(parts, s.Medium.Render(fmt.Sprintf("%d medium", summary.Medium)))
	}

	if len(parts) == 0 {
		fmt.Fprintln(r.w, s.Success.Render(s.IconSuccess+" No priorities found"))
		return
	}
	fmt.Fprintf(r.w, "Found %d priorities: %s\n", summary.Total, strings.Join(parts, ", "))
}

// Evidence prints one block per ranked item
func (r *TerminalReporter) Evidence(ranked []evidence.Ranked) error {
	s := r.styles()

	if len(ranked) == 0 {
		fmt.Fprintln(r.w, s.Muted.Render("No evidence items"))
		return nil
	}

	for i, rk := range ranked {
		title := rk.Item.Title
		if title == "" {
			title = "(untitled)"
		}

		fmt.Fprintln(r.w)
		fmt.Fprintf(r.w, "%s %s %s\n",
			s.Muted.Render(fmt.Sprintf("%d.", i+1)),
			s.Header.Render(title),
			s.Muted.Render("["+string(rk.Item.Kind)+"]"),
		)

		if rk.Score.Tier == evidence.Invalid {
			fmt.Fprintf(r.w, "  %s\n", s.Critical.Render(s.IconCritical+" unknown evidence type"))
			continue
		}

		fmt.Fprintf(r.w, "  %s %s %s\n", s.Bar(rk.Score.Composite, barWidth),
			s.Score(rk.Score.Composite).Render(fmt.Sprintf("%.1f", rk.Score.Composite)), rk.Score.Tier)

		b := rk.Score.Breakdown
		fmt.Fprintln(r.w, s.Muted.Render(fmt.Sprintf(
			"  academic %.2f  relevance %.2f  engagement %.2f  uniqueness %.2f  quality %.2f  bonus %+.2f",
			b.AcademicDepth, b.UniversityRelevance, b.PersonalEngagement, b.Uniqueness, b.EvidenceQuality, b.Bonus,
		)))

		for _, sg := range rk.Score.Suggestions {
			fmt.Fprintf(r.w, "  %s %s\n", s.IconBullet, sg)
		}
	}

	r.separator()
	fmt.Fprintf(r.w, "Scored %d items\n", len(ranked))
	return nil
}

// Check prints the feature counts and every filler increment
func (r *TerminalReporter) Check(fs features.FeatureSet, fr filler.Result) error {
	s := r.styles()

	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "%s %d chars, %d words, %d sentences, %d paragraphs\n",
		s.Header.Render("Length"), fs.Chars, fs.Words, fs.Sentences, fs.Paragraphs)
	fmt.Fprintf(r.w, "%s %s, technical depth %d\n", s.Header.Render("Domain"), fs.SubjectDomain, fs.TechnicalDepth)

	r.section("Signals")
	rows := []struct {
		label string
		count int
		hits  []string
	}{
		{"Books", len(fs.BookTitles), fs.BookTitles},
		{"Academic terms", len(fs.AcademicTerms), fs.AcademicTerms},
		{"Research", len(fs.ResearchMentions), fs.ResearchMentions},
		{"Progression", fs.ProgressionCount, fs.ProgressionPhrases},
		{"Listing", fs.ListingCount, fs.ListingPhrases},
		{"Connectors", fs.ConnectorCount, fs.Connectors},
		{"Examples", fs.ExampleCount, fs.ExampleMarkers},
		{"Passion", len(fs.PassionPhrases), fs.PassionPhrases},
		{"Clichés", len(fs.Cliches), fs.Cliches},
		{"Vague", len(fs.VagueStatements), fs.VagueStatements},
	}
	for _, row := range rows {
		fmt.Fprintf(r.w, "  %-16s %3d  %s\n", row.label, row.count, s.Muted.Render(strings.Join(row.hits, ", ")))
	}

	r.section("Filler")
	if len(fr.Matches) == 0 {
		fmt.Fprintln(r.w, s.Success.Render(s.IconSuccess+" No filler language found"))
		return nil
	}
	for _, m := range fr.Matches {
		fmt.Fprintf(r.w, "  %s %s\n", s.High.Render(fmt.Sprintf("-%.2f", m.Weight)), m.Family)
		if m.Fragment != "" && len(m.Fragment) < 200 {
			fmt.Fprintf(r.w, "    %s\n", s.Quote.Render("> "+m.Fragment))
		}
	}

	r.separator()
	fmt.Fprintf(r.w, "Filler penalty %.2f (uncapped %.2f)\n", fr.Total, fr.Raw)
	return nil
}

// History prints one line per saved version
func (r *TerminalReporter) History(user string, versions []store.Version) error {
	s := r.styles()

	if len(versions) == 0 {
		fmt.Fprintln(r.w, s.Muted.Render(fmt.Sprintf("No saved statements for %s", user)))
		return nil
	}

	fmt.Fprintln(r.w, s.Header.Render("History for "+user))
	for _, v := range versions {
		delta := ""
		if v.Version > 1 {
			delta = fmt.Sprintf("%+.1f", v.Delta)
			switch {
			case v.Delta > 0:
				delta = s.Success.Render(delta)
			case v.Delta < 0:
				delta = s.Warning.Render(delta)
			}
		}

		target := strings.TrimSpace(v.University + " " + v.Course)
		fmt.Fprintf(r.w, "  v%-3d %s  %s %-2s %6s  %s\n",
			v.Version,
			s.Muted.Render(v.CreatedAt.Local().Format("2006-01-02 15:04")),
			s.Score(v.Overall).Render(fmt.Sprintf("%4.1f", v.Overall)),
			v.Grade,
			delta,
			s.Muted.Render(target),
		)
	}
	return nil
}

func (r *TerminalReporter) section(title string) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.styles().Header.Render(title))
}

func (r *TerminalReporter) list(title, icon string, style lipgloss.Style, items []string) {
	if len(items) == 0 {
		return
	}
	r.section(title)
	for _, item := range items {
		fmt.Fprintf(r.w, "  %s %s\n", style.Render(icon), item)
	}
}

func (r *TerminalReporter) separator() {
	fmt.Fprintln(r.w, r.styles().Separator.Render("─────────────────────────────────────"))
}
