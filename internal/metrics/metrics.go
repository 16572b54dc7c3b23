package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal tracks outage API calls per operation and outcome
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outagesync_api_requests_total",
			Help: "Total number of outage API requests",
		},
		[]string{"operation", "outcome"},
	)

	// APIRequestLatency tracks outage API call latency
	APIRequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outagesync_api_request_duration_seconds",
			Help:    "Outage API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// RetriesTotal tracks retried API calls
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outagesync_retries_total",
			Help: "Total number of retried outage API calls",
		},
		[]string{"operation"},
	)

	// RunsTotal tracks sync runs per site and result
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outagesync_runs_total",
			Help: "Total number of sync runs",
		},
		[]string{"site", "result"},
	)

	// OutagesProcessed tracks outages remaining after each pipeline stage
	OutagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outagesync_outages_processed_total",
			Help: "Outages remaining after each pipeline stage",
		},
		[]string{"site", "stage"},
	)

	// LastSuccessfulRun records the unix time of the last successful run
	LastSuccessfulRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "outagesync_last_successful_run_timestamp_seconds",
			Help: "Unix time of the last successful sync run",
		},
		[]string{"site"},
	)
)
