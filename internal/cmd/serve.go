package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm/psgrade/internal/logger"
	"github.com/pthm/psgrade/internal/server"
	"github.com/pthm/psgrade/internal/store"
	"github.com/pthm/psgrade/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	addr    string
	noStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring API over HTTP",
	Long: `Start the HTTP API.

Routes:
  POST /api/evidence/score        score one evidence item
  POST /api/evidence/rank         score and rank evidence items
  POST /api/statements/evaluate   grade a statement (saved when "user" is set)
  POST /api/statements/live       features and filler penalty for a draft
  GET  /api/statements/{user}/history
  GET  /api/statements/{user}/versions/{n}
  GET  /healthz
  GET  /metrics

Examples:
  psgrade serve
  psgrade serve --addr :9000 --no-store`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().BoolVar(&noStore, "no-store", false, "Do not save evaluated statements")
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	eng, err := loadEngine()
	if err != nil {
		return err
	}

	var st *store.Store
	if !noStore {
		if st, err = openStore(); err != nil {
			return err
		}
		defer st.Close()
		logger.Info("statement store", zap.String("path", st.Path()))
	}

	listen := firstNonEmpty(addr, cfg.Server.Addr)
	srv := server.New(eng, st, server.Options{
		CORSOrigins:  cfg.Server.CORSOrigins,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	})

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting psgrade server", zap.String("version", version.Short()), zap.String("addr", listen))
	return srv.ListenAndServe(ctx, listen)
}

