package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Jboschlagos/Emmet-Cloude/pkg/emmet"
	"github.com/Jboschlagos/Emmet-Cloude/pkg/server"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		port    int
		host    string
		tracing bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the live playground server",
		Long: `Start the playground server.

The server expands abbreviations over a JSON API and a WebSocket
channel, stores snippets in the configured backend and exposes
Prometheus metrics.

Examples:
  emmet serve
  emmet serve --port=9090
  emmet serve --host=0.0.0.0 --tracing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}

			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if tracing {
				cfg.Server.Tracing = true
			}

			logger := cfg.Logger(cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}

			srv := server.New(&server.Config{
				Address:         cfg.Addr(),
				ShutdownTimeout: cfg.ShutdownDuration(),
				MetricsPath:     cfg.Server.MetricsPath,
				Tracing:         cfg.Server.Tracing,
				AllowedOrigins:  cfg.Server.AllowedOrigins,
				Logger:          logger,
			}, emmet.New(append(cfg.ExpanderOptions(), emmet.WithLogger(logger))...), store)

			out := cmd.OutOrStdout()
			printBanner(out)
			info(out, "playground  http://%s", cfg.Addr())
			info(out, "live        ws://%s/ws", cfg.Addr())
			if cfg.Server.MetricsPath != "" {
				info(out, "metrics     http://%s%s", cfg.Addr(), cfg.Server.MetricsPath)
			}
			info(out, "snippets    %s", cfg.Store.Backend)

			if err := srv.Run(ctx); err != nil {
				return err
			}
			success(out, "Stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Trace requests with OpenTelemetry")

	return cmd
}
