package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/outagesync/internal/control"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sync outages for the configured site on an interval",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := control.NewWatcher(control.Config{
		Port:     cfg.Server.Port,
		API:      cfg.API,
		Retry:    cfg.Retry,
		SiteID:   cfg.Sync.SiteID,
		Cutoff:   cfg.Sync.Cutoff,
		Interval: cfg.Sync.Interval,
		Redis:    cfg.Redis,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := app.Start(ctx); err != nil {
		return err
	}

	slog.Info("Watcher started", "config", cfgPath)

	sig := <-sigChan
	slog.Info("Received signal, shutting down...", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	return app.Stop(shutdownCtx)
}
