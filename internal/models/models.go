package models

import (
	"fmt"
	"time"
)

// Direction is the canonical platform direction. The upstream feed encodes
// it as a one-character stop ID suffix; that translation lives in the feed
// package so everything else works with this enum.
type Direction string

const (
	Uptown   Direction = "uptown"
	Downtown Direction = "downtown"
)

// ArrivingThreshold is the cutoff below which a countdown is shown as
// "Arriving" rather than a minute figure.
const ArrivingThreshold = time.Minute

// Countdown is the time remaining until a predicted arrival. It stays a
// typed duration until the final display conversion so seconds and minutes
// cannot be conflated.
type Countdown time.Duration

// Minutes returns the countdown in whole minutes, truncated.
func (c Countdown) Minutes() int {
	return int(time.Duration(c) / time.Minute)
}

// Arriving reports whether the train is effectively here.
func (c Countdown) Arriving() bool {
	return time.Duration(c) < ArrivingThreshold
}

// Label formats the countdown for display: "Arriving" or "N min".
func (c Countdown) Label() string {
	if c.Arriving() {
		return "Arriving"
	}
	return fmt.Sprintf("%d min", c.Minutes())
}

// RefreshInterval is a display refresh cadence. The config unit is seconds;
// any consumer that wants minutes goes through Minutes() so the conversion
// happens in exactly one place.
type RefreshInterval time.Duration

// Duration returns the interval as a plain time.Duration.
func (r RefreshInterval) Duration() time.Duration {
	return time.Duration(r)
}

// Seconds returns the interval in whole seconds.
func (r RefreshInterval) Seconds() int {
	return int(time.Duration(r) / time.Second)
}

// Minutes returns the interval in whole minutes, rounded up so a sub-minute
// interval never reports zero to a device that sleeps N minutes.
func (r RefreshInterval) Minutes() int {
	d := time.Duration(r)
	return int((d + time.Minute - 1) / time.Minute)
}

// Arrival is one upcoming train at a station. Built fresh each fetch cycle,
// never persisted.
type Arrival struct {
	Route     string    `json:"route"`
	Direction Direction `json:"direction"`
	Time      time.Time `json:"time"`
	Countdown Countdown `json:"-"`
}

// DirectionLabels maps the canonical directions to the strings a rider
// actually reads, e.g. "Uptown & The Bronx".
type DirectionLabels struct {
	Uptown   string `json:"uptown"`
	Downtown string `json:"downtown"`
}

// DefaultDirectionLabels are used when a station configures none.
func DefaultDirectionLabels() DirectionLabels {
	return DirectionLabels{Uptown: "UPTOWN", Downtown: "DOWNTOWN"}
}

// StationConfig describes one physical station to watch. StopIDs are base
// MTA stop IDs without the direction suffix; one station may span several
// platforms with distinct IDs.
type StationConfig struct {
	Name       string          `json:"name"`
	StopIDs    []string        `json:"stop_ids"`
	Routes     []string        `json:"routes"`
	Directions DirectionLabels `json:"directions"`
}

// StationArrivals is the consolidated view of one station for one fetch
// cycle: arrivals merged across the station's stop IDs, grouped by
// direction, sorted ascending by countdown.
type StationArrivals struct {
	Name       string          `json:"name"`
	Directions DirectionLabels `json:"directions"`
	Uptown     []Arrival       `json:"uptown"`
	Downtown   []Arrival       `json:"downtown"`
	Updated    time.Time       `json:"updated"`
}

// ArrivalResponse is the API shape for a single arrival.
type ArrivalResponse struct {
	Route       string `json:"route"`
	MinutesAway int    `json:"minutes_away"`
	Label       string `json:"label"`
}

// StationArrivalsResponse is the API shape for a station view.
type StationArrivalsResponse struct {
	Name     string            `json:"name"`
	Uptown   []ArrivalResponse `json:"uptown"`
	Downtown []ArrivalResponse `json:"downtown"`
	Labels   DirectionLabels   `json:"labels"`
	Updated  time.Time         `json:"updated"`
}

// ConvertToResponse converts a StationArrivals to its API shape.
func (s *StationArrivals) ConvertToResponse() StationArrivalsResponse {
	return StationArrivalsResponse{
		Name:     s.Name,
		Uptown:   convertArrivals(s.Uptown),
		Downtown: convertArrivals(s.Downtown),
		Labels:   s.Directions,
		Updated:  s.Updated,
	}
}

func convertArrivals(arrivals []Arrival) []ArrivalResponse {
	out := make([]ArrivalResponse, len(arrivals))
	for i, a := range arrivals {
		out[i] = ArrivalResponse{
			Route:       a.Route,
			MinutesAway: a.Countdown.Minutes(),
			Label:       a.Countdown.Label(),
		}
	}
	return out
}
