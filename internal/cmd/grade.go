package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pthm/psgrade/internal/document"
	"github.com/pthm/psgrade/internal/engine"
	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/feedback"
	"github.com/pthm/psgrade/internal/logger"
	"github.com/pthm/psgrade/internal/reporter"
	"github.com/pthm/psgrade/internal/review"
	"github.com/pthm/psgrade/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	university   string
	course       string
	evidencePath string
	deep         bool
	save         bool
	user         string
)

var gradeCmd = &cobra.Command{
	Use:   "grade <file>",
	Short: "Grade a personal statement",
	Long: `Grade a personal statement (.txt or .md) against the rubric.

The target university, course and user may also be given in YAML
frontmatter at the top of the file; flags take precedence.

Examples:
  psgrade grade statement.md
  psgrade grade --university "UCL" --course "History" statement.txt
  psgrade grade --evidence evidence.yaml --deep statement.md
  psgrade grade --save --user ada --format json statement.md > report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGrade,
}

func init() {
	gradeCmd.Flags().StringVar(&university, "university", "", "Target university")
	gradeCmd.Flags().StringVar(&course, "course", "", "Target course")
	gradeCmd.Flags().StringVar(&evidencePath, "evidence", "", "YAML or JSON file of evidence items mentioned in the statement")
	gradeCmd.Flags().BoolVar(&deep, "deep", false, "Ask an LLM for an advisory second opinion")
	gradeCmd.Flags().BoolVar(&save, "save", false, "Save the result to the statement history")
	gradeCmd.Flags().StringVar(&user, "user", "", "User the statement belongs to (required with --save)")
	RootCmd.AddCommand(gradeCmd)
}

func runGrade(cmd *cobra.Command, args []string) error {
	u := GetUI()

	progress := u.StartProgress()
	defer progress.Done(nil)

	progress.SetStage(ui.StageLoad)
	progress.SetOperation(args[0])

	doc, err := document.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load statement: %w", err)
	}

	target := targetFor(doc.Frontmatter)
	owner := firstNonEmpty(user, doc.Frontmatter.User)
	if save && owner == "" {
		return fmt.Errorf("--save needs a user (--user or frontmatter)")
	}

	var items []evidence.Item
	if evidencePath != "" {
		if items, err = evidence.LoadFile(evidencePath); err != nil {
			return fmt.Errorf("failed to load evidence: %w", err)
		}
	}

	eng, err := loadEngine()
	if err != nil {
		return err
	}

	progress.SetStage(ui.StageScore)
	report, err := eng.EvaluateStatement(doc.Text, items, target)
	if errors.Is(err, engine.ErrTooShort) {
		return fmt.Errorf("statement is too short to grade: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to grade statement: %w", err)
	}

	logger.Info("graded statement",
		zap.String("path", doc.Path),
		zap.String("format", doc.Format.String()),
		zap.Float64("overall", report.Overall),
		zap.String("grade", report.Grade),
		zap.Int("priorities", len(report.Priorities)),
	)

	var opinion *review.Opinion
	if deep {
		progress.SetStage(ui.StageReview)
		progress.Graded(report.Overall, report.Grade)
		progress.SetOperation(cfg.Review.Backend)
		opinion = secondOpinion(commandContext(cmd), doc.Text, report)
	}

	if save {
		if err := saveReport(commandContext(cmd), owner, doc.Text, target, report); err != nil {
			return err
		}
	}

	progress.Done(nil)
	return reporter.New(u.Writer, u).Statement(report, opinion)
}

// targetFor merges the flags over the document's frontmatter
func targetFor(fm document.Frontmatter) *evidence.Target {
	t := &evidence.Target{
		Name:   firstNonEmpty(university, fm.University),
		Course: firstNonEmpty(course, fm.Course),
	}
	if t.IsZero() {
		return nil
	}
	return t
}

// secondOpinion runs the configured reviewer. Failures are reported and
// the grade is returned without an opinion.
func secondOpinion(ctx context.Context, text string, report *feedback.Report) *review.Opinion {
	u := GetUI()

	r := review.New(cfg.Review.Backend, cfg.Review.Model)
	if r == nil {
		u.Warn("second opinion unavailable: set ANTHROPIC_API_KEY or install the Claude Code CLI (review.backend=%s)", cfg.Review.Backend)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	op, err := r.Review(ctx, text, report)
	if err != nil {
		logger.Warn("second opinion failed", zap.String("backend", r.Name()), zap.Error(err))
		u.Warn("second opinion failed: %v", err)
		return nil
	}
	return op
}

func saveReport(ctx context.Context, owner, text string, target *evidence.Target, report *feedback.Report) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	v, err := st.Save(ctx, owner, text, target, report)
	if err != nil {
		return fmt.Errorf("failed to save statement: %w", err)
	}
	if verbose && !GetUI().IsJSON() {
		fmt.Fprintf(GetUI().ErrWriter, "Saved as version %d for %s\n", v.Version, owner)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
