package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/akmonengine/mercator/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newServeCmd(conf *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the map over HTTP and WebSocket",
		Long: `
serve exposes /map.svg for still renders, /ws for interactive drag sessions, /health and
/metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(conf)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			polygons, err := loadPolygons(conf)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, conf, server.New(polygons, mapConfig(conf), logger), logger)
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address.")

	return cmd
}

func serve(ctx context.Context, conf *viper.Viper, s *server.Server, logger *zap.Logger) error {
	addr := conf.GetString("addr")
	logger.Info("starting server",
		zap.String("addr", addr),
		zap.Int("workers", s.Config.Workers),
		zap.Float64("scale", s.Config.Scale))

	return s.ListenAndServe(ctx, addr)
}
