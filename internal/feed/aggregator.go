package feed

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"traindash/internal/models"
	"traindash/internal/telemetry"
)

// Aggregator turns configured stations into consolidated arrival views.
// One call is one fetch cycle: every needed feed group is fetched exactly
// once, then filtered in memory per station.
type Aggregator struct {
	fetcher Fetcher
	metrics *telemetry.Metrics
	now     func() time.Time
}

// NewAggregator creates an aggregator. metrics may be nil for one-shot CLI
// use.
func NewAggregator(fetcher Fetcher, metrics *telemetry.Metrics) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		metrics: metrics,
		now:     time.Now,
	}
}

// GetArrivals fetches all feeds the stations need and builds one view per
// station. An unknown route code fails the whole call; a failed feed group
// only empties the sections that depend on it.
func (a *Aggregator) GetArrivals(ctx context.Context, stations []models.StationConfig) ([]models.StationArrivals, error) {
	cycleStart := time.Now()

	groups, err := GroupsForStations(stations)
	if err != nil {
		return nil, err
	}

	results := a.fetchGroups(ctx, groups)

	now := a.now()
	views := make([]models.StationArrivals, 0, len(stations))
	for _, station := range stations {
		views = append(views, a.consolidate(station, results, now))
	}

	if a.metrics != nil {
		a.metrics.CycleSeconds.Observe(time.Since(cycleStart).Seconds())
	}
	return views, nil
}

// fetchGroups fetches each group once, in parallel. All fetches complete
// (or fail) before the result map is used; a failed group is simply absent
// from the map.
func (a *Aggregator) fetchGroups(ctx context.Context, groups []FeedGroup) map[FeedGroup][]TripStopUpdate {
	results := make(map[FeedGroup][]TripStopUpdate, len(groups))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, group := range groups {
		group := group
		g.Go(func() error {
			start := time.Now()
			updates, err := a.fetcher.Fetch(gctx, group)
			if a.metrics != nil {
				a.metrics.FeedFetchesTotal.WithLabelValues(string(group)).Inc()
				a.metrics.FeedFetchSeconds.WithLabelValues(string(group)).Observe(time.Since(start).Seconds())
			}
			if err != nil {
				// Partial-failure isolation: never abort the cycle.
				log.Printf("%v", &FeedError{Group: group, Err: err})
				if a.metrics != nil {
					a.metrics.FeedErrorsTotal.WithLabelValues(string(group)).Inc()
				}
				return nil
			}

			mu.Lock()
			results[group] = updates
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return results
}

// consolidate filters one station's arrivals out of the fetched updates,
// merges across its stop IDs and sorts each direction by countdown.
func (a *Aggregator) consolidate(station models.StationConfig, results map[FeedGroup][]TripStopUpdate, now time.Time) models.StationArrivals {
	labels := station.Directions
	if labels == (models.DirectionLabels{}) {
		labels = models.DefaultDirectionLabels()
	}

	routes := make(map[string]bool, len(station.Routes))
	var groups []FeedGroup
	seen := make(map[FeedGroup]bool)
	for _, route := range station.Routes {
		routes[strings.ToUpper(route)] = true
		if group, ok := GroupForRoute(route); ok && !seen[group] {
			seen[group] = true
			groups = append(groups, group)
		}
	}

	return models.StationArrivals{
		Name:       station.Name,
		Directions: labels,
		Uptown:     a.collect(station, models.Uptown, groups, routes, results, now),
		Downtown:   a.collect(station, models.Downtown, groups, routes, results, now),
		Updated:    now,
	}
}

func (a *Aggregator) collect(station models.StationConfig, direction models.Direction, groups []FeedGroup, routes map[string]bool, results map[FeedGroup][]TripStopUpdate, now time.Time) []models.Arrival {
	var arrivals []models.Arrival

	for _, group := range groups {
		updates := results[group]
		for _, stopID := range station.StopIDs {
			want := SuffixedStopID(stopID, direction)
			for _, update := range updates {
				if update.StopID != want {
					continue
				}
				// Route filter keeps express-only trains off local stops
				// sharing the same physical station.
				if !routes[strings.ToUpper(update.Route)] {
					continue
				}

				countdown := update.Arrival.Sub(now)
				if countdown <= -models.ArrivingThreshold {
					continue
				}

				arrivals = append(arrivals, models.Arrival{
					Route:     update.Route,
					Direction: direction,
					Time:      update.Arrival,
					Countdown: models.Countdown(countdown),
				})
			}
		}
	}

	// Stable: equal countdowns keep feed order.
	sort.SliceStable(arrivals, func(i, j int) bool {
		return arrivals[i].Countdown < arrivals[j].Countdown
	})

	return arrivals
}
