package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pthm/psgrade/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if GetUI().IsJSON() {
			return json.NewEncoder(os.Stdout).Encode(map[string]string{
				"version": version.Version,
				"commit":  version.Commit,
				"date":    version.Date,
			})
		}
		fmt.Println(version.Info())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
