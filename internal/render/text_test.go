package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"traindash/internal/models"
)

func testView() models.StationArrivals {
	now := time.Now()
	return models.StationArrivals{
		Name:       "Times Sq-42 St",
		Directions: models.DirectionLabels{Uptown: "Uptown & The Bronx", Downtown: "Downtown & Brooklyn"},
		Uptown: []models.Arrival{
			{Route: "1", Time: now, Countdown: models.Countdown(0)},
			{Route: "2", Time: now.Add(2 * time.Minute), Countdown: models.Countdown(2 * time.Minute)},
			{Route: "3", Time: now.Add(9 * time.Minute), Countdown: models.Countdown(9 * time.Minute)},
		},
		Updated: now,
	}
}

func TestStationOutput(t *testing.T) {
	var buf bytes.Buffer
	Station(&buf, testView(), 10)
	out := buf.String()

	for _, want := range []string{
		"Station: Times Sq-42 St",
		"Uptown & The Bronx:",
		"  1 Train: Arriving",
		"  2 Train: 2 min",
		"  3 Train: 9 min",
		"Downtown & Brooklyn:",
		"  No trains currently scheduled",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestStationLimit(t *testing.T) {
	var buf bytes.Buffer
	Station(&buf, testView(), 2)
	out := buf.String()

	if !strings.Contains(out, "  2 Train: 2 min") {
		t.Errorf("Second train should be shown:\n%s", out)
	}
	if strings.Contains(out, "  3 Train:") {
		t.Errorf("Third train should be cut by the limit:\n%s", out)
	}
}

func TestStationsTrailingRule(t *testing.T) {
	var buf bytes.Buffer
	Stations(&buf, []models.StationArrivals{testView()}, 0)

	if !strings.HasSuffix(strings.TrimRight(buf.String(), "\n"), strings.Repeat("=", 70)) {
		t.Error("Expected closing rule after all stations")
	}
}
