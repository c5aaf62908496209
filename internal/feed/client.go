package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// TripStopUpdate is one predicted stop call extracted from a realtime feed.
// StopID carries the upstream direction suffix. Slice order preserves feed
// order, which breaks countdown ties downstream.
type TripStopUpdate struct {
	Route   string
	StopID  string
	Arrival time.Time
}

// Fetcher retrieves all trip stop updates for one feed group.
type Fetcher interface {
	Fetch(ctx context.Context, group FeedGroup) ([]TripStopUpdate, error)
}

// HTTPFetcher fetches and decodes GTFS-RT protobuf feeds over HTTP.
type HTTPFetcher struct {
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewHTTPFetcher creates a fetcher with a bounded per-fetch timeout.
func NewHTTPFetcher(apiKey string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		apiKey:  apiKey,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads one feed group and flattens it to trip stop updates.
// Timeout expiry surfaces as an ordinary error; the caller decides the
// partial-failure policy.
func (f *HTTPFetcher) Fetch(ctx context.Context, group FeedGroup) ([]TripStopUpdate, error) {
	url, ok := feedURLs[group]
	if !ok {
		return nil, fmt.Errorf("no URL for feed group %s", group)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.apiKey != "" {
		req.Header.Set("x-api-key", f.apiKey)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	message := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, message); err != nil {
		return nil, fmt.Errorf("parsing protobuf: %w", err)
	}

	return flattenFeedMessage(message), nil
}

// flattenFeedMessage extracts route, suffixed stop ID and predicted arrival
// from every trip update, preserving feed order. Updates without a usable
// timestamp are dropped; the departure time stands in when arrival is unset.
func flattenFeedMessage(message *gtfs.FeedMessage) []TripStopUpdate {
	var updates []TripStopUpdate

	for _, entity := range message.GetEntity() {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil {
			continue
		}

		route := tripUpdate.GetTrip().GetRouteId()
		if route == "" {
			continue
		}

		for _, stu := range tripUpdate.GetStopTimeUpdate() {
			stopID := stu.GetStopId()
			if stopID == "" {
				continue
			}

			arrival := stu.GetArrival().GetTime()
			if arrival == 0 {
				arrival = stu.GetDeparture().GetTime()
			}
			if arrival == 0 {
				continue
			}

			updates = append(updates, TripStopUpdate{
				Route:   route,
				StopID:  stopID,
				Arrival: time.Unix(arrival, 0),
			})
		}
	}

	return updates
}
