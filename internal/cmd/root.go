package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pthm/psgrade/internal/config"
	"github.com/pthm/psgrade/internal/criteria"
	"github.com/pthm/psgrade/internal/engine"
	"github.com/pthm/psgrade/internal/logger"
	"github.com/pthm/psgrade/internal/rubric"
	"github.com/pthm/psgrade/internal/store"
	"github.com/pthm/psgrade/internal/ui"
	"github.com/pthm/psgrade/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	format     string
	configPath string

	cfg      *config.Config
	globalUI *ui.UI
)

// RootCmd is the psgrade command tree
var RootCmd = &cobra.Command{
	Use:   "psgrade",
	Short: "Score personal statements and their supporting evidence",
	Long: `psgrade grades UK university personal statements against an
eight-criterion rubric and scores the books, projects, insights and
activities that back them up.

Scores are deterministic: the same statement and evidence always produce
the same report. An optional LLM second opinion (--deep) is advisory and
never changes the score.`,
	Version:           version.Short(),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	RootCmd.PersistentFlags().StringVarP(&format, "format", "f", ui.FormatTerminal, "Output format (terminal, json)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./psgrade.yaml or ~/.config/psgrade/psgrade.yaml)")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := ui.ValidateFormat(format); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Options{Level: level, Format: cfg.Log.Format, Output: cfg.Log.Output}); err != nil {
		return fmt.Errorf("failed to initialise logging: %w", err)
	}

	globalUI = ui.New(os.Stdout, os.Stderr, format)
	return nil
}

// GetUI returns the UI configured for this invocation
func GetUI() *ui.UI {
	if globalUI == nil {
		globalUI = ui.New(os.Stdout, os.Stderr, format)
	}
	return globalUI
}

// loadEngine builds the engine from the configured rubric overlay, if any
func loadEngine() (*engine.Engine, error) {
	if cfg == nil || cfg.Rubric.Path == "" {
		return engine.Default(), nil
	}
	r, err := rubric.LoadFile(cfg.Rubric.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load rubric: %w", err)
	}
	if err := criteria.Validate(r); err != nil {
		return nil, fmt.Errorf("invalid rubric %s: %w", cfg.Rubric.Path, err)
	}
	logger.Debug("loaded rubric overlay", zap.String("path", cfg.Rubric.Path))
	return engine.New(r), nil
}

func openStore() (*store.Store, error) {
	if cfg == nil || cfg.Store.Path == "" {
		return nil, fmt.Errorf("no store path configured")
	}
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

// commandContext returns the command's context, or Background when the
// command was executed without one
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
