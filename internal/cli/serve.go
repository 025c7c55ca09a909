package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/replywatch/replywatch/internal/adapters/otel"
	"github.com/replywatch/replywatch/internal/adapters/turso"
	"github.com/replywatch/replywatch/internal/detailedstats"
	"github.com/replywatch/replywatch/internal/infrastructure/config"
	"github.com/replywatch/replywatch/internal/infrastructure/database"
	"github.com/replywatch/replywatch/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the statistics API server",
	Long: `Start the detailed-statistics API server.

Examples:
  replywatch serve              # Start on the configured port (default 8080)
  replywatch serve --port 3000  # Start on port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	log := newStdLogger(false)

	db, err := database.New(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	metrics := newMetrics(ctx, log)
	defer metrics.Close(context.Background())

	store := turso.NewRecordStore(db.DB, cfg.Pipeline.ServiceAgentID)
	svc := detailedstats.NewService(store, log, detailedstats.Options{
		Metrics:          metrics,
		Timeout:          cfg.Pipeline.Timeout,
		DialogBatchPause: cfg.Pipeline.DialogBatchPause,
	})

	server := web.NewServer(svc, log, cfg.Port)
	return server.Start(ctx)
}

// pipelineMetrics is the common surface of the real and no-op exporters.
type pipelineMetrics interface {
	detailedstats.Metrics
	Close(ctx context.Context) error
}

// newMetrics wires the OTEL exporter when configured, falling back to a
// no-op sink so a missing collector never blocks the server.
func newMetrics(ctx context.Context, log *stdLogger) pipelineMetrics {
	otelCfg := otel.LoadConfig()
	if !otelCfg.Enabled {
		return otel.NewNoOpExporter()
	}
	exp, err := otel.NewExporter(ctx, otelCfg)
	if err != nil {
		log.Error(fmt.Sprintf("OTEL exporter unavailable, metrics disabled: %v", err))
		return otel.NewNoOpExporter()
	}
	return exp
}
