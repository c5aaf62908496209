// Package cli implements the traindash command tree.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"traindash/internal/config"
)

// App carries the flags shared by every subcommand.
type App struct {
	ConfigPath string
	APIKey     string
}

// Execute runs the CLI.
func Execute() error {
	_ = godotenv.Load()

	app := &App{}
	rootCmd := NewRootCmd(app)
	return rootCmd.Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "traindash",
		Short:         "Subway arrivals, presence and refresh cadence for the e-ink dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(
		&app.ConfigPath,
		"config",
		"config.toml",
		"Path to configuration file",
	)
	cmd.PersistentFlags().StringVar(
		&app.APIKey,
		"api-key",
		"",
		"MTA API key (falls back to MTA_API_KEY)",
	)

	cmd.AddCommand(NewArrivalsCmd(app))
	cmd.AddCommand(NewRefreshCmd(app))
	cmd.AddCommand(NewPresenceCmd(app))
	cmd.AddCommand(NewStatsCmd(app))

	return cmd
}

func (app *App) loadConfig() (*config.Config, error) {
	return config.Load(app.ConfigPath)
}

func (app *App) apiKey() string {
	if app.APIKey != "" {
		return app.APIKey
	}
	return os.Getenv("MTA_API_KEY")
}
