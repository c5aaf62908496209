package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"traindash/internal/presence"
	"traindash/internal/sysmon"
)

func NewStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print Raspberry Pi system stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			monitor := sysmon.NewMonitor()
			stats := monitor.Stats(cmd.Context())

			fmt.Println("=== Raspberry Pi System Monitor ===")

			if stats.CPUTempC != nil {
				fmt.Printf("CPU Temperature: %.1f°C\n", *stats.CPUTempC)
			} else {
				fmt.Println("CPU Temperature: N/A")
			}

			fmt.Printf("RAM Usage: %.1f%% (%dMB / %dMB)\n",
				stats.RAM.Percent, stats.RAM.UsedMB, stats.RAM.TotalMB)

			if stats.WiFi.Connected {
				signal := ""
				if stats.WiFi.SignalDBm != nil {
					signal = fmt.Sprintf(" (%ddBm)", *stats.WiFi.SignalDBm)
				}
				fmt.Printf("WiFi: Connected to %q%s\n", stats.WiFi.SSID, signal)
			} else {
				fmt.Println("WiFi: Not connected")
			}

			// Presence is attached here rather than in sysmon so the
			// detector stays the single owner of the cache.
			if cfg, err := app.loadConfig(); err == nil && len(cfg.Refresh.Devices) > 0 {
				detector := presence.NewDetector(cfg.Refresh.Devices)
				if detector.IsAnyoneHome(cmd.Context()) {
					fmt.Println("Presence: HOME")
				} else {
					fmt.Println("Presence: AWAY")
				}
			} else {
				fmt.Println("Presence: Detection not configured")
			}
			return nil
		},
	}

	return cmd
}
