// Package refresh decides how often the display should redraw. Night hours
// win over presence; presence picks fast over slow.
package refresh

import (
	"time"

	"traindash/internal/models"
)

// Config holds the three interval tiers and the night window. Hours are
// local wall-clock; the window is half-open [Start, End) and may wrap past
// midnight.
type Config struct {
	Fast       models.RefreshInterval
	Slow       models.RefreshInterval
	Night      models.RefreshInterval
	NightStart int
	NightEnd   int
}

// DefaultConfig mirrors the dashboard defaults: 1s when someone is home,
// 30s otherwise, 30s overnight between 1 AM and 7 AM.
func DefaultConfig() Config {
	return Config{
		Fast:       models.RefreshInterval(1 * time.Second),
		Slow:       models.RefreshInterval(30 * time.Second),
		Night:      models.RefreshInterval(30 * time.Second),
		NightStart: 1,
		NightEnd:   7,
	}
}

// Interval returns the refresh interval for the given moment. Pure
// function: the presence signal is an input, not a lookup.
func Interval(now time.Time, present bool, config Config) models.RefreshInterval {
	if inNightWindow(now.Hour(), config.NightStart, config.NightEnd) {
		// Overnight the display slows down even when someone is home;
		// panel wear matters more than freshness.
		return config.Night
	}

	if present {
		return config.Fast
	}
	return config.Slow
}

// inNightWindow reports whether hour falls in [start, end), wrapping past
// midnight when start > end. start == end is an empty window.
func inNightWindow(hour, start, end int) bool {
	if start > end {
		return hour >= start || hour < end
	}
	return start <= hour && hour < end
}
