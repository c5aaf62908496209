// Package config loads the dashboard configuration from a TOML file.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"traindash/internal/feed"
	"traindash/internal/models"
	"traindash/internal/refresh"
)

// Config is the full file schema.
type Config struct {
	NumTrains int             `toml:"num_trains"`
	Server    ServerConfig    `toml:"server"`
	Stations  []StationConfig `toml:"stations"`
	Refresh   RefreshConfig   `toml:"refresh"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StationConfig is one station entry. stop_id is accepted as a single-stop
// shorthand for stop_ids.
type StationConfig struct {
	Name       string     `toml:"name"`
	StopID     string     `toml:"stop_id"`
	StopIDs    []string   `toml:"stop_ids"`
	Routes     []string   `toml:"routes"`
	Directions Directions `toml:"directions"`
}

// Directions are the display labels for the two platforms.
type Directions struct {
	Uptown   string `toml:"uptown"`
	Downtown string `toml:"downtown"`
}

// RefreshConfig configures cadence and presence detection. Interval values
// are in seconds.
type RefreshConfig struct {
	Devices    []string   `toml:"devices"`
	Method     string     `toml:"method"`
	Intervals  Intervals  `toml:"intervals"`
	NightHours NightHours `toml:"night_hours"`
}

// Intervals are the three cadence tiers, in seconds.
type Intervals struct {
	Fast  int `toml:"fast"`
	Slow  int `toml:"slow"`
	Night int `toml:"night"`
}

// NightHours is the wall-clock window during which the night interval
// applies. May wrap past midnight.
type NightHours struct {
	Start int `toml:"start"`
	End   int `toml:"end"`
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.NumTrains <= 0 {
		c.NumTrains = 10
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}

	defaults := refresh.DefaultConfig()
	if c.Refresh.Intervals.Fast <= 0 {
		c.Refresh.Intervals.Fast = defaults.Fast.Seconds()
	}
	if c.Refresh.Intervals.Slow <= 0 {
		c.Refresh.Intervals.Slow = defaults.Slow.Seconds()
	}
	if c.Refresh.Intervals.Night <= 0 {
		c.Refresh.Intervals.Night = defaults.Night.Seconds()
	}
	if c.Refresh.NightHours.Start == 0 && c.Refresh.NightHours.End == 0 {
		c.Refresh.NightHours = NightHours{Start: defaults.NightStart, End: defaults.NightEnd}
	}
}

// Validate checks the parts that would otherwise fail silently at runtime.
// An unrecognized route code is a configuration error, never skipped.
func (c *Config) Validate() error {
	if len(c.Stations) == 0 {
		return fmt.Errorf("no stations configured")
	}

	for _, station := range c.Stations {
		if station.Name == "" {
			return fmt.Errorf("station with empty name")
		}
		if len(station.Routes) == 0 {
			return fmt.Errorf("station %q has no routes", station.Name)
		}
		if station.StopID == "" && len(station.StopIDs) == 0 {
			return fmt.Errorf("station %q has no stop IDs", station.Name)
		}
		for _, route := range station.Routes {
			if _, ok := feed.GroupForRoute(route); !ok {
				return &feed.ConfigError{Station: station.Name, Route: route}
			}
		}
	}

	nh := c.Refresh.NightHours
	if nh.Start < 0 || nh.Start > 23 || nh.End < 0 || nh.End > 23 {
		return fmt.Errorf("night_hours out of range: start=%d end=%d", nh.Start, nh.End)
	}

	return nil
}

// ModelStations converts the file entries to the aggregator's station
// configs.
func (c *Config) ModelStations() []models.StationConfig {
	stations := make([]models.StationConfig, 0, len(c.Stations))
	for _, s := range c.Stations {
		stopIDs := s.StopIDs
		if len(stopIDs) == 0 {
			stopIDs = []string{s.StopID}
		}

		labels := models.DefaultDirectionLabels()
		if s.Directions.Uptown != "" {
			labels.Uptown = s.Directions.Uptown
		}
		if s.Directions.Downtown != "" {
			labels.Downtown = s.Directions.Downtown
		}

		stations = append(stations, models.StationConfig{
			Name:       s.Name,
			StopIDs:    stopIDs,
			Routes:     s.Routes,
			Directions: labels,
		})
	}
	return stations
}

// RefreshPolicy converts the seconds-based file values to the typed policy
// config.
func (c *Config) RefreshPolicy() refresh.Config {
	return refresh.Config{
		Fast:       models.RefreshInterval(time.Duration(c.Refresh.Intervals.Fast) * time.Second),
		Slow:       models.RefreshInterval(time.Duration(c.Refresh.Intervals.Slow) * time.Second),
		Night:      models.RefreshInterval(time.Duration(c.Refresh.Intervals.Night) * time.Second),
		NightStart: c.Refresh.NightHours.Start,
		NightEnd:   c.Refresh.NightHours.End,
	}
}
