package health

import (
	"sync"
	"time"
)

// criticalAfter is the number of consecutive failed runs that make a site critical.
const criticalAfter = 3

// Monitor aggregates sync outcomes per site.
type Monitor struct {
	mu    sync.RWMutex
	sites map[string]*SiteHealth
}

// NewMonitor creates a new health monitor tracking the given sites.
func NewMonitor(sites ...string) *Monitor {
	m := &Monitor{sites: make(map[string]*SiteHealth)}
	for _, id := range sites {
		m.sites[id] = &SiteHealth{SiteID: id, Status: StatusHealthy}
	}
	return m
}

// RecordSuccess marks a successful run for a site.
func (m *Monitor) RecordSuccess(siteID string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := m.site(siteID)
	h.LastRunAt = &at
	h.LastSuccessAt = &at
	h.ConsecutiveFailures = 0
	h.LastError = ""
	h.Status = StatusHealthy
}

// RecordFailure marks a failed run for a site.
func (m *Monitor) RecordFailure(siteID string, err error, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := m.site(siteID)
	h.LastRunAt = &at
	h.ConsecutiveFailures++
	if err != nil {
		h.LastError = err.Error()
	}
	if h.ConsecutiveFailures >= criticalAfter {
		h.Status = StatusCritical
	} else {
		h.Status = StatusDegraded
	}
}

// CheckHealth returns a snapshot of every tracked site and the worst status.
func (m *Monitor) CheckHealth() HealthReport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	report := HealthReport{
		SystemStatus: StatusHealthy,
		Sites:        make(map[string]SiteHealth, len(m.sites)),
	}
	for id, h := range m.sites {
		report.Sites[id] = *h
		// Aggregate status (worst case wins)
		switch h.Status {
		case StatusCritical:
			report.SystemStatus = StatusCritical
		case StatusDegraded:
			if report.SystemStatus != StatusCritical {
				report.SystemStatus = StatusDegraded
			}
		}
	}
	return report
}

func (m *Monitor) site(id string) *SiteHealth {
	h, ok := m.sites[id]
	if !ok {
		h = &SiteHealth{SiteID: id, Status: StatusHealthy}
		m.sites[id] = h
	}
	return h
}
