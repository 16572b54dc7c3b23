package control

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/outagesync/internal/core/domain"
	"github.com/vietddude/outagesync/internal/infra/retry"
	"github.com/vietddude/outagesync/internal/metrics"
	"github.com/vietddude/outagesync/internal/pipeline"
)

// Syncer runs one outage sync: fetch, filter, annotate, submit.
// It holds no state between runs, so one Syncer may serve concurrent runs.
type Syncer struct {
	api   API
	retry retry.Config
	log   *slog.Logger
}

// Result summarises a completed run.
type Result struct {
	RunID     string
	SiteID    string
	Fetched   int // outages returned by the API
	Recent    int // after the cutoff filter
	Relevant  int // after the device filter
	Submitted int
	Duration  time.Duration
}

// NewSyncer creates a Syncer. Each remote call is retried per retryCfg.
func NewSyncer(client API, retryCfg retry.Config) *Syncer {
	return &Syncer{
		api:   client,
		retry: retryCfg,
		log:   slog.Default(),
	}
}

// Run syncs outages that begin at or after cutoff for siteID.
// Any error aborts the run and is returned after retries are exhausted.
func (s *Syncer) Run(ctx context.Context, siteID, cutoff string) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString(), SiteID: siteID}
	log := s.log.With("run_id", res.RunID, "site", siteID)

	log.Info("Starting outage sync", "cutoff", cutoff)
	err := s.run(ctx, log, res, cutoff)
	res.Duration = time.Since(start)

	if err != nil {
		metrics.RunsTotal.WithLabelValues(siteID, "failure").Inc()
		log.Error("Outage sync failed", "error", err, "duration", res.Duration)
		return res, err
	}

	metrics.RunsTotal.WithLabelValues(siteID, "success").Inc()
	metrics.LastSuccessfulRun.WithLabelValues(siteID).SetToCurrentTime()
	log.Info("Outage sync completed",
		"fetched", res.Fetched,
		"recent", res.Recent,
		"relevant", res.Relevant,
		"submitted", res.Submitted,
		"duration", res.Duration,
	)
	return res, nil
}

func (s *Syncer) run(ctx context.Context, log *slog.Logger, res *Result, cutoff string) error {
	cutoffAt, err := pipeline.ParseTimestamp(cutoff)
	if err != nil {
		return fmt.Errorf("cutoff: %w", err)
	}

	// 1. Outages
	outages, err := withRetry(ctx, s, log, "list_outages", s.api.ListOutages)
	if err != nil {
		return err
	}
	res.Fetched = len(outages)
	s.observe(res.SiteID, "fetched", res.Fetched)

	// 2. Devices
	site, err := withRetry(ctx, s, log, "site_information",
		func(ctx context.Context) (*domain.SiteInformation, error) {
			return s.api.FetchSiteInformation(ctx, res.SiteID)
		})
	if err != nil {
		return err
	}
	log.Debug("Fetched site information", "site_name", site.Name, "devices", len(site.Devices))

	// 3. Filter and annotate
	recent, err := pipeline.FilterStartBefore(outages, cutoffAt)
	if err != nil {
		return err
	}
	res.Recent = len(recent)
	s.observe(res.SiteID, "recent", res.Recent)

	relevant := pipeline.FilterRelevantDevices(recent, site.Devices)
	res.Relevant = len(relevant)
	s.observe(res.SiteID, "relevant", res.Relevant)

	detailed, err := pipeline.WithDeviceNames(relevant, site.Devices)
	if err != nil {
		return err
	}

	// 4. Submit
	_, err = withRetry(ctx, s, log, "submit_outages",
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.api.SubmitOutages(ctx, res.SiteID, detailed)
		})
	if err != nil {
		return err
	}
	res.Submitted = len(detailed)
	s.observe(res.SiteID, "submitted", res.Submitted)
	return nil
}

func (s *Syncer) observe(siteID, stage string, n int) {
	metrics.OutagesProcessed.WithLabelValues(siteID, stage).Add(float64(n))
}

// withRetry retries op while it fails with domain.ErrUnknown.
func withRetry[T any](
	ctx context.Context,
	s *Syncer,
	log *slog.Logger,
	op string,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	return retry.Do(ctx, s.retry, domain.IsRetryable, fn,
		retry.OnRetry(func(attempt int, err error, delay time.Duration) {
			metrics.RetriesTotal.WithLabelValues(op).Inc()
			log.Warn("Retrying API call",
				"operation", op,
				"attempt", strconv.Itoa(attempt)+"/"+strconv.Itoa(s.retry.MaxAttempts),
				"delay", delay,
				"error", err,
			)
		}))
}
