// Package health provides sync health monitoring and status reporting.
package health

import "time"

// SystemStatus represents the health state of the service or a site.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// SiteHealth contains the sync history summary for one site.
type SiteHealth struct {
	SiteID              string       `json:"site_id"`
	Status              SystemStatus `json:"status"`
	LastRunAt           *time.Time   `json:"last_run_at,omitempty"`
	LastSuccessAt       *time.Time   `json:"last_success_at,omitempty"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
	LastError           string       `json:"last_error,omitempty"`
}

// HealthReport contains the full health report.
type HealthReport struct {
	SystemStatus SystemStatus          `json:"system_status"`
	Sites        map[string]SiteHealth `json:"sites"`
}
