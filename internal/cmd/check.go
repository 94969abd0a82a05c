package cmd

import (
	"fmt"

	"github.com/pthm/psgrade/internal/document"
	"github.com/pthm/psgrade/internal/reporter"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Show extracted features and filler language",
	Long: `Run the live checks on a statement without grading it: the content
features the rubric looks for and every filler-language increment.

Works on drafts of any length.

Examples:
  psgrade check draft.txt
  psgrade check --format json draft.md`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	doc, err := document.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load statement: %w", err)
	}

	eng, err := loadEngine()
	if err != nil {
		return err
	}

	u := GetUI()
	return reporter.New(u.Writer, u).Check(eng.ExtractFeatures(doc.Text), eng.AnalyzeFiller(doc.Text))
}
