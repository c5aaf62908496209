package refresh

import (
	"testing"
	"time"

	"traindash/internal/models"
)

func testConfig() Config {
	return Config{
		Fast:       models.RefreshInterval(60 * time.Second),
		Slow:       models.RefreshInterval(1800 * time.Second),
		Night:      models.RefreshInterval(1800 * time.Second),
		NightStart: 1,
		NightEnd:   7,
	}
}

func at(hour int) time.Time {
	return time.Date(2025, 6, 1, hour, 0, 0, 0, time.Local)
}

func TestIntervalNightOverridesPresence(t *testing.T) {
	cfg := testConfig()

	// 02:00 with someone home still gets the night interval.
	got := Interval(at(2), true, cfg)
	if got.Seconds() != 1800 {
		t.Errorf("At 02:00 with presence, expected 1800s, got %ds", got.Seconds())
	}
}

func TestIntervalPresenceSelectsFast(t *testing.T) {
	cfg := testConfig()

	if got := Interval(at(12), true, cfg); got != cfg.Fast {
		t.Errorf("Daytime with presence: expected fast, got %ds", got.Seconds())
	}
	if got := Interval(at(12), false, cfg); got != cfg.Slow {
		t.Errorf("Daytime without presence: expected slow, got %ds", got.Seconds())
	}
}

func TestIntervalNightWindowBounds(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		hour  int
		night bool
	}{
		{0, false}, // before the window
		{1, true},  // inclusive start
		{5, true},
		{6, true},
		{7, false}, // exclusive end
		{23, false},
	}

	for _, tt := range tests {
		got := Interval(at(tt.hour), false, cfg)
		isNight := got == cfg.Night && inNightWindow(tt.hour, cfg.NightStart, cfg.NightEnd)
		if isNight != tt.night {
			t.Errorf("Hour %d: night = %v, want %v", tt.hour, isNight, tt.night)
		}
	}
}

func TestInNightWindowWrapsPastMidnight(t *testing.T) {
	tests := []struct {
		hour     int
		start    int
		end      int
		expected bool
	}{
		{23, 23, 6, true},
		{2, 23, 6, true},
		{5, 23, 6, true},
		{6, 23, 6, false},
		{12, 23, 6, false},
		{22, 23, 6, false},
		{3, 3, 3, false}, // empty window
	}

	for _, tt := range tests {
		if got := inNightWindow(tt.hour, tt.start, tt.end); got != tt.expected {
			t.Errorf("inNightWindow(%d, %d, %d) = %v, want %v",
				tt.hour, tt.start, tt.end, got, tt.expected)
		}
	}
}

func TestIntervalIsPure(t *testing.T) {
	cfg := testConfig()
	now := at(14)

	first := Interval(now, true, cfg)
	for i := 0; i < 5; i++ {
		if got := Interval(now, true, cfg); got != first {
			t.Fatal("Interval must be deterministic for identical inputs")
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Fast.Seconds() != 1 || cfg.Slow.Seconds() != 30 || cfg.Night.Seconds() != 30 {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.NightStart != 1 || cfg.NightEnd != 7 {
		t.Errorf("Unexpected night window: %d-%d", cfg.NightStart, cfg.NightEnd)
	}
}
