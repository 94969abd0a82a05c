package cmd

import (
	"errors"
	"fmt"

	"github.com/pthm/psgrade/internal/reporter"
	"github.com/pthm/psgrade/internal/store"
	"github.com/spf13/cobra"
)

var showVersion int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved statement versions",
	Long: `List a user's saved statements with their scores, or show the full
report of one version.

Examples:
  psgrade history --user ada
  psgrade history --user ada --show 3`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&user, "user", "", "User to list")
	historyCmd.Flags().IntVar(&showVersion, "show", 0, "Show the report of this version")
	_ = historyCmd.MarkFlagRequired("user")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	u := GetUI()
	rep := reporter.New(u.Writer, u)

	if showVersion > 0 {
		v, err := st.Get(commandContext(cmd), user, showVersion)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%s has no version %d", user, showVersion)
		}
		if err != nil {
			return fmt.Errorf("failed to load version: %w", err)
		}
		return rep.Statement(v.Report, nil)
	}

	versions, err := st.History(commandContext(cmd), user)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return rep.History(user, versions)
}
