package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tahofeed/internal/config"
	"tahofeed/internal/logger"
	"tahofeed/internal/server"
)

// NewServeCmd creates the serve command for starting the HTTP server
func NewServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server exposing the aggregated feed",
		Long: `Start the tahofeed HTTP server.

The server provides:
  • GET /api/feed                      JSON list of the current display set
  • GET /api/rss                       RSS 2.0 syndication feed with deep links
  • GET /api/articles/{slug}/summary   streamed bilingual detail summary (SSE)
  • GET /api/status                    orchestrator state and uptime
  • GET /health                        liveness probe

Examples:
  # Start server on default port 8080
  tahofeed serve

  # Start on custom port
  tahofeed serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port, host)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 8080)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP server host (default from config: 0.0.0.0)")

	return cmd
}

func runServe(ctx context.Context, port int, host string) error {
	log := logger.Get()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	serverCfg := cfg.Server
	if port != 0 {
		serverCfg.Port = port
	}
	if host != "" {
		serverCfg.Host = host
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, streamer, cleanup, err := buildService(runCtx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.New(svc, streamer, serverCfg, cfg.Limits.SyndicationN)
	log.Info("starting tahofeed server", "host", serverCfg.Host, "port", serverCfg.Port)
	if err := srv.Start(runCtx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("server stopped")
	return nil
}
