// ABOUTME: CLI command for showing and saving configuration.
// ABOUTME: Prints the effective settings after file, .env, environment, and flags.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/glucoscope/internal/config"
	"github.com/spf13/cobra"
)

var configSave bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Long: `Show the configuration glucoscope will use.

Settings are read from the config file, then .env, then GLUCOSCOPE_*
environment variables, then command-line flags.

ENVIRONMENT:

  GLUCOSCOPE_BACKEND    csv or sqlite
  GLUCOSCOPE_DATA_DIR   CSV directory
  GLUCOSCOPE_DATABASE   SQLite database path
  GLUCOSCOPE_TIMEZONE   IANA zone for source timestamps
  GLUCOSCOPE_DEBUG      true to enable debug logging

EXAMPLES:

  glucoscope config
  glucoscope config --data-dir ~/cgm --backend csv --save`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		bold := color.New(color.Bold)

		zone := cfg.Timezone
		if zone == "" {
			zone = "local"
		}
		if _, err := cfg.Location(); err != nil {
			return err
		}

		bold.Fprintln(out, "Configuration")
		fmt.Fprintf(out, "  %s %s\n", padRight("file", 10), config.GetConfigPath())
		fmt.Fprintf(out, "  %s %s\n", padRight("backend", 10), cfg.GetBackend())
		fmt.Fprintf(out, "  %s %s\n", padRight("data dir", 10), cfg.GetDataDir())
		fmt.Fprintf(out, "  %s %s\n", padRight("database", 10), cfg.GetDatabase())
		fmt.Fprintf(out, "  %s %s\n", padRight("timezone", 10), zone)
		fmt.Fprintf(out, "  %s %t\n", padRight("debug", 10), cfg.Debug)

		if configSave {
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			color.New(color.FgGreen).Fprintf(out, "✓ Saved to %s\n", config.GetConfigPath())
		}
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configSave, "save", false, "write the effective settings to the config file")
	rootCmd.AddCommand(configCmd)
}
