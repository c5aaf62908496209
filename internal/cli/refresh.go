package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"traindash/internal/presence"
	"traindash/internal/refresh"
)

func NewRefreshCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Print the refresh interval the display would use right now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}

			detector := presence.NewDetector(cfg.Refresh.Devices)
			present := detector.IsAnyoneHome(cmd.Context())

			now := time.Now()
			interval := refresh.Interval(now, present, cfg.RefreshPolicy())

			fmt.Printf("Presence: %v\n", present)
			fmt.Printf("Interval: %d seconds (%d minutes)\n", interval.Seconds(), interval.Minutes())
			fmt.Printf("Next update: %s\n", now.Add(interval.Duration()).Format("3:04 PM"))
			return nil
		},
	}

	return cmd
}
