package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/influencer-kpi/internal/server"
)

var (
	servePort  int
	serveRunID string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the KPI views as a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		master, events, err := loadMaster(ctx, cfg, serveRunID)
		if err != nil {
			return err
		}
		zap.L().Info("snapshot loaded", zap.Int("influencers", len(master)), zap.Int("tracking", len(events)))

		srv := server.New(server.Snapshot{
			RunID:    serveRunID,
			Master:   master,
			Tracking: events,
			Seed:     cfg.Actions.Seed,
		}, server.Options{AllowedOrigins: cfg.Server.AllowedOrigins})

		return server.Start(ctx, srv.Handler(), server.ResolvePort(servePort, cfg.Server.Port))
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveRunID, "run", "", "serve a stored run instead of the current inputs")
	rootCmd.AddCommand(serveCmd)
}
