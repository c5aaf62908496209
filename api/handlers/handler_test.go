package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"traindash/internal/models"
	"traindash/internal/sysmon"
)

// MockClient implements dash.Client for testing
type MockClient struct {
	views    []models.StationArrivals
	interval models.RefreshInterval
	home     bool
}

func (m *MockClient) Arrivals() ([]models.StationArrivals, error) {
	return m.views, nil
}

func (m *MockClient) Station(name string) (models.StationArrivals, error) {
	for _, view := range m.views {
		if strings.EqualFold(view.Name, name) {
			return view, nil
		}
	}
	return models.StationArrivals{}, fmt.Errorf("station %q not found", name)
}

func (m *MockClient) RefreshInterval(now time.Time) models.RefreshInterval {
	return m.interval
}

func (m *MockClient) AnyoneHome(ctx context.Context) bool {
	return m.home
}

func (m *MockClient) SystemStats(ctx context.Context) sysmon.Stats {
	return sysmon.Stats{}
}

func (m *MockClient) LastUpdate() time.Time {
	return time.Now()
}

func testClient() *MockClient {
	now := time.Now()
	return &MockClient{
		views: []models.StationArrivals{
			{
				Name: "Times Sq-42 St",
				Uptown: []models.Arrival{
					{Route: "1", Time: now, Countdown: models.Countdown(0)},
					{Route: "2", Time: now.Add(2 * time.Minute), Countdown: models.Countdown(2 * time.Minute)},
					{Route: "1", Time: now.Add(5 * time.Minute), Countdown: models.Countdown(5 * time.Minute)},
				},
				Updated: now,
			},
		},
		interval: models.RefreshInterval(1800 * time.Second),
		home:     true,
	}
}

func newTestRouter(client *MockClient, numTrains int) *mux.Router {
	r := mux.NewRouter()
	NewHandler(client, numTrains).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, r *mux.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleRefreshRate(t *testing.T) {
	w := doRequest(t, newTestRouter(testClient(), 0), "/refresh-rate")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d", w.Code)
	}

	var body RefreshRateResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	if body.RefreshSeconds != 1800 {
		t.Errorf("refresh_seconds = %d, want 1800", body.RefreshSeconds)
	}
	// The minute figure must come from the typed conversion, not a second
	// seconds value wearing a minutes name.
	if body.RefreshMinutes != 30 {
		t.Errorf("refresh_minutes = %d, want 30", body.RefreshMinutes)
	}
	if body.NextUpdate == "" {
		t.Error("next_update missing")
	}

	next, err := time.Parse(time.RFC3339, body.NextUpdate)
	if err != nil {
		t.Fatalf("next_update not RFC3339: %v", err)
	}
	until := time.Until(next)
	if until < 29*time.Minute || until > 31*time.Minute {
		t.Errorf("next_update %v from now, want ~30m", until)
	}
}

func TestHandleArrivals(t *testing.T) {
	w := doRequest(t, newTestRouter(testClient(), 0), "/arrivals")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d", w.Code)
	}

	var body struct {
		Data    []models.StationArrivalsResponse `json:"data"`
		Updated string                           `json:"updated"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	if len(body.Data) != 1 {
		t.Fatalf("Expected 1 station, got %d", len(body.Data))
	}
	uptown := body.Data[0].Uptown
	if len(uptown) != 3 {
		t.Fatalf("Expected 3 uptown arrivals, got %d", len(uptown))
	}
	if uptown[0].Label != "Arriving" || uptown[1].Label != "2 min" || uptown[2].Label != "5 min" {
		t.Errorf("Labels: %q %q %q", uptown[0].Label, uptown[1].Label, uptown[2].Label)
	}
	if body.Updated == "" {
		t.Error("updated missing")
	}
}

func TestHandleArrivalsCapsTrains(t *testing.T) {
	w := doRequest(t, newTestRouter(testClient(), 2), "/arrivals")

	var body struct {
		Data []models.StationArrivalsResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data[0].Uptown) != 2 {
		t.Errorf("Expected cap of 2, got %d", len(body.Data[0].Uptown))
	}
}

func TestHandleStation(t *testing.T) {
	r := newTestRouter(testClient(), 0)

	w := doRequest(t, r, "/arrivals/Times%20Sq-42%20St")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d", w.Code)
	}

	w = doRequest(t, r, "/arrivals/Nowhere")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown station, got %d", w.Code)
	}

	var errBody ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errBody); err != nil {
		t.Fatal(err)
	}
	if errBody.Error == "" {
		t.Error("Error message missing")
	}
}

func TestHandlePresence(t *testing.T) {
	w := doRequest(t, newTestRouter(testClient(), 0), "/presence")

	var body map[string]bool
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body["home"] {
		t.Error("Expected home=true")
	}
}

func TestHandleHealth(t *testing.T) {
	w := doRequest(t, newTestRouter(testClient(), 0), "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
