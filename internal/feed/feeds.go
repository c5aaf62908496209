package feed

import (
	"fmt"
	"strings"

	"traindash/internal/models"
)

// FeedGroup identifies one upstream GTFS-RT stream. A single group serves a
// whole family of routes, so it is fetched once per cycle and filtered in
// memory for every route that needs it.
type FeedGroup string

const (
	GroupACE      FeedGroup = "ace"
	GroupBDFM     FeedGroup = "bdfm"
	GroupG        FeedGroup = "g"
	GroupJZ       FeedGroup = "jz"
	GroupNQRW     FeedGroup = "nqrw"
	GroupL        FeedGroup = "l"
	GroupNumbered FeedGroup = "1234567"
	GroupSI       FeedGroup = "si"
)

// feedURLs for the NYC Subway realtime feeds.
var feedURLs = map[FeedGroup]string{
	GroupACE:      "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-ace",
	GroupBDFM:     "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-bdfm",
	GroupG:        "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-g",
	GroupJZ:       "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-jz",
	GroupNQRW:     "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-nqrw",
	GroupL:        "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-l",
	GroupNumbered: "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs",
	GroupSI:       "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-si",
}

// routeToGroup maps every supported route code to its feed group.
var routeToGroup = map[string]FeedGroup{
	"A": GroupACE, "C": GroupACE, "E": GroupACE,
	"B": GroupBDFM, "D": GroupBDFM, "F": GroupBDFM, "M": GroupBDFM,
	"G": GroupG,
	"J": GroupJZ, "Z": GroupJZ,
	"N": GroupNQRW, "Q": GroupNQRW, "R": GroupNQRW, "W": GroupNQRW,
	"L": GroupL,
	"1": GroupNumbered, "2": GroupNumbered, "3": GroupNumbered,
	"4": GroupNumbered, "5": GroupNumbered, "6": GroupNumbered,
	"7": GroupNumbered,
	"SI": GroupSI, "SIR": GroupSI,
}

// ConfigError is an unrecoverable configuration problem, surfaced
// immediately rather than silently skipped.
type ConfigError struct {
	Station string
	Route   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("station %q references unknown route %q", e.Station, e.Route)
}

// FeedError marks one feed group as unavailable for the current cycle.
// Other groups proceed normally.
type FeedError struct {
	Group FeedGroup
	Err   error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed %s unavailable: %v", e.Group, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// GroupForRoute resolves a route code to its feed group.
func GroupForRoute(route string) (FeedGroup, bool) {
	group, ok := routeToGroup[strings.ToUpper(route)]
	return group, ok
}

// GroupsForStations resolves every station's routes to the deduplicated set
// of feed groups one cycle must fetch. Order is first-need order so fetch
// behavior is deterministic.
func GroupsForStations(stations []models.StationConfig) ([]FeedGroup, error) {
	seen := make(map[FeedGroup]bool)
	var groups []FeedGroup

	for _, station := range stations {
		for _, route := range station.Routes {
			group, ok := GroupForRoute(route)
			if !ok {
				return nil, &ConfigError{Station: station.Name, Route: route}
			}
			if !seen[group] {
				seen[group] = true
				groups = append(groups, group)
			}
		}
	}

	return groups, nil
}

// SuffixedStopID appends the upstream direction marker to a base stop ID.
// The N/S suffix is a quirk of this transit system's realtime identifiers,
// not a general GTFS rule; it is confined to this function.
func SuffixedStopID(stopID string, direction models.Direction) string {
	if direction == models.Downtown {
		return stopID + "S"
	}
	return stopID + "N"
}
