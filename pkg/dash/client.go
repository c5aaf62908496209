package dash

import (
	"context"
	"time"

	"traindash/internal/models"
	"traindash/internal/sysmon"
)

// Client is the read surface the HTTP handlers and CLI consume.
// Abstracts the live poll loop so tests can substitute a fake.
type Client interface {
	Arrivals() ([]models.StationArrivals, error)
	Station(name string) (models.StationArrivals, error)

	RefreshInterval(now time.Time) models.RefreshInterval
	AnyoneHome(ctx context.Context) bool
	SystemStats(ctx context.Context) sysmon.Stats

	LastUpdate() time.Time
}
