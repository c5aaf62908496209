package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"traindash/internal/models"
	"traindash/pkg/dash"
)

// Handler handles HTTP requests
type Handler struct {
	client    dash.Client
	numTrains int
}

// NewHandler creates a new HTTP handler. numTrains caps arrivals per
// direction in responses; zero means no cap.
func NewHandler(client dash.Client, numTrains int) *Handler {
	return &Handler{client: client, numTrains: numTrains}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods("GET")
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/arrivals", h.handleArrivals).Methods("GET")
	r.HandleFunc("/arrivals/{station}", h.handleStation).Methods("GET")
	r.HandleFunc("/refresh-rate", h.handleRefreshRate).Methods("GET")
	r.HandleFunc("/presence", h.handlePresence).Methods("GET")
	r.HandleFunc("/stats", h.handleStats).Methods("GET")
}

// Response wraps API responses
type Response struct {
	Data    interface{} `json:"data"`
	Updated string      `json:"updated,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// RefreshRateResponse reports the current cadence in both units the
// display clients use. The minute figure comes only from the typed
// conversion; nothing downstream should divide seconds itself.
type RefreshRateResponse struct {
	RefreshSeconds int    `json:"refresh_seconds"`
	RefreshMinutes int    `json:"refresh_minutes"`
	NextUpdate     string `json:"next_update"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"title":  "traindash",
		"readme": "Subway arrivals and display cadence for the hallway e-ink panel",
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleArrivals(w http.ResponseWriter, r *http.Request) {
	views, err := h.client.Arrivals()
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := make([]models.StationArrivalsResponse, len(views))
	for i, view := range views {
		data[i] = h.convertView(view)
	}

	response := Response{
		Data:    data,
		Updated: h.client.LastUpdate().Format(time.RFC3339),
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleStation(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["station"]

	view, err := h.client.Station(name)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	response := Response{
		Data:    h.convertView(view),
		Updated: h.client.LastUpdate().Format(time.RFC3339),
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleRefreshRate(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	interval := h.client.RefreshInterval(now)

	h.writeJSON(w, RefreshRateResponse{
		RefreshSeconds: interval.Seconds(),
		RefreshMinutes: interval.Minutes(),
		NextUpdate:     now.Add(interval.Duration()).Format(time.RFC3339),
	})
}

func (h *Handler) handlePresence(w http.ResponseWriter, r *http.Request) {
	response := map[string]bool{
		"home": h.client.AnyoneHome(r.Context()),
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, Response{Data: h.client.SystemStats(r.Context())})
}

// convertView converts and caps one station view.
func (h *Handler) convertView(view models.StationArrivals) models.StationArrivalsResponse {
	response := view.ConvertToResponse()
	if h.numTrains > 0 {
		if len(response.Uptown) > h.numTrains {
			response.Uptown = response.Uptown[:h.numTrains]
		}
		if len(response.Downtown) > h.numTrains {
			response.Downtown = response.Downtown[:h.numTrains]
		}
	}
	return response
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.writeError(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
