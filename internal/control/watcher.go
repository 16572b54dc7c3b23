package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/outagesync/internal/health"
	"github.com/vietddude/outagesync/internal/infra/api"
	redisclient "github.com/vietddude/outagesync/internal/infra/redis"
	"github.com/vietddude/outagesync/internal/infra/retry"
)

// Watcher re-runs the outage sync for one site on a fixed interval and
// serves health and metrics endpoints while it does.
type Watcher struct {
	cfg          Config
	client       *api.Client
	syncer       *Syncer
	locker       Locker
	healthMon    *health.Monitor
	healthServer *health.Server
	log          *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds the watcher configuration.
type Config struct {
	Port     int
	API      api.Config
	Retry    retry.Config
	SiteID   string
	Cutoff   string
	Interval time.Duration
	Redis    redisclient.Config
}

// NewWatcher creates a new Watcher instance with all dependencies initialized.
func NewWatcher(cfg Config) (*Watcher, error) {
	if cfg.SiteID == "" {
		return nil, errors.New("site id is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %v", cfg.Interval)
	}

	client := api.NewClient(cfg.API)
	healthMon := health.NewMonitor(cfg.SiteID)

	w := &Watcher{
		cfg:          cfg,
		client:       client,
		syncer:       NewSyncer(client, cfg.Retry),
		healthMon:    healthMon,
		healthServer: health.NewServer(healthMon, cfg.Port),
		log:          slog.Default().With("site", cfg.SiteID),
	}

	if cfg.Redis.URL != "" {
		redisClient, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		w.locker = redisClient
		slog.Info("Using Redis site lock", "ttl", cfg.Redis.LockTTL)
	}

	return w, nil
}

// Health returns the monitor fed by completed runs.
func (w *Watcher) Health() *health.Monitor {
	return w.healthMon
}

// Start starts the health server and the sync loop.
func (w *Watcher) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)

	// Start Health Server
	go func() {
		if err := w.healthServer.Start(); err != nil {
			w.log.Error("Health server failed", "error", err)
		}
	}()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(ctx)
	}()

	w.log.Info("Watcher started", "interval", w.cfg.Interval, "port", w.cfg.Port)
	return nil
}

// Stop stops the sync loop, waits for an in-flight run, and releases resources.
func (w *Watcher) Stop(ctx context.Context) error {
	w.log.Info("Stopping Watcher...")

	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		w.log.Warn("Timed out waiting for sync run to finish")
	}

	if w.locker != nil {
		if err := w.locker.Close(); err != nil {
			w.log.Warn("Failed to close Redis", "error", err)
		}
	}
	_ = w.client.Close()

	// Stop Health Server
	return w.healthServer.Stop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	if w.locker != nil {
		owner := uuid.NewString()
		ok, err := w.locker.AcquireLock(ctx, w.cfg.SiteID, owner, w.cfg.Redis.LockTTL)
		if err != nil {
			w.log.Warn("Failed to acquire site lock, skipping run", "error", err)
			w.healthMon.RecordFailure(w.cfg.SiteID, err, time.Now())
			return
		}
		if !ok {
			w.log.Info("Site lock held by another replica, skipping run")
			return
		}
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := w.locker.ReleaseLock(releaseCtx, w.cfg.SiteID, owner); err != nil {
				w.log.Warn("Failed to release site lock", "error", err)
			}
		}()
	}

	_, err := w.syncer.Run(ctx, w.cfg.SiteID, w.cfg.Cutoff)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.healthMon.RecordFailure(w.cfg.SiteID, err, time.Now())
		return
	}
	w.healthMon.RecordSuccess(w.cfg.SiteID, time.Now())
}
