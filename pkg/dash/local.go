package dash

import (
	"context"
	"time"

	"traindash/internal/feed"
	"traindash/internal/models"
	"traindash/internal/presence"
	"traindash/internal/refresh"
	"traindash/internal/store"
	"traindash/internal/sysmon"
	"traindash/internal/telemetry"
)

// Config wires a LocalClient.
type Config struct {
	APIKey       string
	FetchTimeout time.Duration
	Stations     []models.StationConfig
	Refresh      refresh.Config
	Devices      []string
	Metrics      *telemetry.Metrics
}

// DefaultConfig returns sensible defaults; stations must still be set.
func DefaultConfig() Config {
	return Config{
		FetchTimeout: 30 * time.Second,
		Refresh:      refresh.DefaultConfig(),
	}
}

// LocalClient runs the poll loop in-process and serves reads from the
// snapshot store. The loop cadence follows the refresh policy, so the
// whole system slows down overnight and when nobody is home.
type LocalClient struct {
	store      *store.Store
	manager    *feed.Manager
	detector   *presence.Detector
	monitor    *sysmon.Monitor
	refreshCfg refresh.Config
	hasDevices bool
}

// NewLocal creates a local client and starts its background feed manager.
func NewLocal(cfg Config) (*LocalClient, error) {
	if err := validateStations(cfg.Stations); err != nil {
		return nil, err
	}

	s := store.NewStore()
	fetcher := feed.NewHTTPFetcher(cfg.APIKey, cfg.FetchTimeout)
	aggregator := feed.NewAggregator(fetcher, cfg.Metrics)

	detector := presence.NewDetector(cfg.Devices)
	if cfg.Metrics != nil {
		detector.SetMetrics(cfg.Metrics)
	}

	client := &LocalClient{
		store:      s,
		detector:   detector,
		monitor:    sysmon.NewMonitor(),
		refreshCfg: cfg.Refresh,
		hasDevices: len(cfg.Devices) > 0,
	}

	client.manager = feed.NewManager(aggregator, s, cfg.Stations, client.nextInterval)
	client.manager.Start()

	return client, nil
}

// validateStations surfaces unknown routes before any goroutine starts.
func validateStations(stations []models.StationConfig) error {
	_, err := feed.GroupsForStations(stations)
	return err
}

// Close stops the background poll loop. Must be called to avoid goroutine
// leaks.
func (c *LocalClient) Close() {
	c.manager.Stop()
}

func (c *LocalClient) nextInterval() time.Duration {
	return c.RefreshInterval(time.Now()).Duration()
}

func (c *LocalClient) Arrivals() ([]models.StationArrivals, error) {
	return c.store.All(), nil
}

func (c *LocalClient) Station(name string) (models.StationArrivals, error) {
	return c.store.Station(name)
}

func (c *LocalClient) RefreshInterval(now time.Time) models.RefreshInterval {
	present := c.detector.IsAnyoneHome(context.Background())
	return refresh.Interval(now, present, c.refreshCfg)
}

func (c *LocalClient) AnyoneHome(ctx context.Context) bool {
	return c.detector.IsAnyoneHome(ctx)
}

func (c *LocalClient) SystemStats(ctx context.Context) sysmon.Stats {
	stats := c.monitor.Stats(ctx)
	if c.hasDevices {
		home := c.detector.IsAnyoneHome(ctx)
		stats.Home = &home
	}
	return stats
}

func (c *LocalClient) LastUpdate() time.Time {
	return c.store.LastUpdate()
}
