package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"traindash/internal/feed"
	"traindash/internal/render"
)

func NewArrivalsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arrivals",
		Short: "Fetch and print upcoming trains for the configured stations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}

			fetcher := feed.NewHTTPFetcher(app.apiKey(), 30*time.Second)
			aggregator := feed.NewAggregator(fetcher, nil)

			fmt.Println("\nFetching MTA train times...")
			fmt.Printf("Time: %s\n", time.Now().Format("3:04 PM"))

			views, err := aggregator.GetArrivals(cmd.Context(), cfg.ModelStations())
			if err != nil {
				slog.Error("Failed to fetch arrivals", "error", err)
				return err
			}

			render.Stations(os.Stdout, views, cfg.NumTrains)
			return nil
		},
	}

	return cmd
}
