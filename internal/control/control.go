package control

import (
	"context"
	"time"

	"github.com/vietddude/outagesync/internal/core/domain"
)

// API is the remote outage API as seen by the orchestrator.
type API interface {
	// ListOutages fetches every outage known to the API
	ListOutages(ctx context.Context) ([]domain.Outage, error)

	// FetchSiteInformation fetches the device list of one site
	FetchSiteInformation(ctx context.Context, siteID string) (*domain.SiteInformation, error)

	// SubmitOutages posts the annotated outages for a site
	SubmitOutages(ctx context.Context, siteID string, outages []domain.OutageDetailed) error
}

// Locker serialises sync runs for a site across replicas.
type Locker interface {
	// AcquireLock takes the site lock for owner, reporting false if it is held
	AcquireLock(ctx context.Context, siteID, owner string, ttl time.Duration) (bool, error)

	// ReleaseLock releases a lock held by owner
	ReleaseLock(ctx context.Context, siteID, owner string) error

	// Close closes the underlying connection
	Close() error
}
