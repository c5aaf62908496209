package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"traindash/internal/presence"
)

func NewPresenceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Scan the local network for the configured devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}

			devices := cfg.Refresh.Devices
			if len(devices) == 0 {
				fmt.Println("No devices configured; presence is always away")
				return nil
			}

			detector := presence.NewDetector(devices)
			if detector.IsAnyoneHome(cmd.Context()) {
				fmt.Println("HOME (at least one device detected)")
			} else {
				fmt.Println("AWAY (no configured device detected)")
			}
			return nil
		},
	}

	return cmd
}
