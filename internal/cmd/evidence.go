package cmd

import (
	"fmt"

	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/logger"
	"github.com/pthm/psgrade/internal/reporter"
	"github.com/pthm/psgrade/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var evidenceCmd = &cobra.Command{
	Use:   "evidence <file>",
	Short: "Score and rank evidence items",
	Long: `Score every evidence item in a YAML or JSON file and rank them.

The file is a list of items, or a mapping with an "items" list:

  - type: book
    title: The Selfish Gene
    notes: ["Questioned gene-centred selection after reading Noble"]
    flags: {universityLevel: true, criticalAnalysis: true}
    ratings: {academicLevel: 8}

Examples:
  psgrade evidence evidence.yaml
  psgrade evidence --university Oxford --course Biology evidence.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runEvidence,
}

func init() {
	evidenceCmd.Flags().StringVar(&university, "university", "", "Target university")
	evidenceCmd.Flags().StringVar(&course, "course", "", "Target course")
	RootCmd.AddCommand(evidenceCmd)
}

func runEvidence(cmd *cobra.Command, args []string) error {
	u := GetUI()

	progress := u.StartProgress()
	defer progress.Done(nil)

	progress.SetStage(ui.StageLoad)
	progress.SetOperation(args[0])

	items, err := evidence.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to load evidence: %w", err)
	}

	eng, err := loadEngine()
	if err != nil {
		return err
	}

	var target *evidence.Target
	if university != "" || course != "" {
		target = &evidence.Target{Name: university, Course: course}
	}

	progress.SetStage(ui.StageScore)
	progress.SetItemCount(len(items))

	ranked := eng.RankEvidenceEach(items, target, func(r evidence.Ranked) {
		progress.ItemStart(itemName(r.Item))
		if err := eng.ValidateEvidence(r.Item); err != nil {
			u.Warn("item %d: %v", r.Index+1, err)
		}
		logger.Debug("scored evidence",
			zap.Int("index", r.Index),
			zap.String("type", string(r.Item.Kind)),
			zap.Float64("composite", r.Score.Composite),
		)
		progress.ItemDone(r.Score.Tier.String(), r.Score.Composite)
	})

	progress.Done(nil)
	return reporter.New(u.Writer, u).Evidence(ranked)
}

func itemName(item evidence.Item) string {
	if item.Title != "" {
		return item.Title
	}
	return string(item.Kind)
}
