// Package render writes consolidated arrival views as terminal text.
package render

import (
	"fmt"
	"io"
	"strings"

	"traindash/internal/models"
)

const rule = 70

// Stations writes each station's arrivals in the classic banner layout,
// showing at most limit trains per direction.
func Stations(w io.Writer, views []models.StationArrivals, limit int) {
	for _, view := range views {
		Station(w, view, limit)
	}
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", rule))
}

// Station writes one station's view.
func Station(w io.Writer, view models.StationArrivals, limit int) {
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", rule))
	fmt.Fprintf(w, "Station: %s\n", view.Name)
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", rule))

	direction(w, view.Directions.Uptown, view.Uptown, limit)
	direction(w, view.Directions.Downtown, view.Downtown, limit)
}

func direction(w io.Writer, label string, arrivals []models.Arrival, limit int) {
	fmt.Fprintf(w, "\n%s:\n", label)
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", rule))

	if len(arrivals) == 0 {
		// "No trains right now" is a normal state, not an error.
		fmt.Fprintln(w, "  No trains currently scheduled")
		return
	}

	if limit > 0 && len(arrivals) > limit {
		arrivals = arrivals[:limit]
	}
	for _, arrival := range arrivals {
		fmt.Fprintf(w, "  %s Train: %s\n", arrival.Route, arrival.Countdown.Label())
	}
}
