// ABOUTME: Root Cobra command for glucoscope CLI.
// ABOUTME: Loads config, initializes logging, and opens the row source in PersistentPreRunE.
package main

import (
	"fmt"

	"github.com/harperreed/glucoscope/internal/config"
	"github.com/harperreed/glucoscope/internal/log"
	"github.com/harperreed/glucoscope/internal/session"
	"github.com/harperreed/glucoscope/internal/source"
	"github.com/spf13/cobra"
)

var (
	cfg  *config.Config
	src  source.Source
	sess *session.Session

	flagDataDir  string
	flagBackend  string
	flagTimezone string
	flagDebug    bool
)

// noSource lists commands that never read dataset rows.
var noSource = map[string]bool{
	"help":          true,
	"version":       true,
	"completion":    true,
	"import":        true,
	"config":        true,
	"install-skill": true,
}

var rootCmd = &cobra.Command{
	Use:   "glucoscope",
	Short: "Glucose, food log, and heart-rate analysis",
	Long: `Glucoscope analyzes continuous glucose monitor exports alongside food logs
and heart-rate data, and classifies prediabetes from HbA1c.

INPUT FILES:

  Put the flat CSV files for each participant in one directory:

  Dexcom_<id>.csv       timestamp, glucose
  Food_Log_<id>.csv     time_begin, searched_food, logged_food, calorie, sugar, ...
  HR_<id>.csv           datetime, hr
  Demographics.csv      ID, HbA1c
  global_stats.csv      Country Name, Country Code, 2021

QUICK START:

  $ glucoscope load 001                          # Summarize a participant
  $ glucoscope foods 001                         # List meals with macro totals
  $ glucoscope filter 001 --macro sugar -t 30    # Glucose near sugary meals
  $ glucoscope diagnose 001                      # HbA1c classification
  $ glucoscope countries --top 10                # Global prevalence ranking
  $ glucoscope export 001 markdown               # Full participant report

FILTERING:

  A meal passes when its combined macro value is at least the threshold.
  Glucose samples within 2 hours of a passing meal are "active", those near
  the meal with the largest value are "peak", and the rest are "inactive".
  When no meal passes, every sample stays active.

BACKENDS:

  csv (default)  Read files from --data-dir
  sqlite         Read rows imported with 'glucoscope import'

MCP INTEGRATION:

  Run 'glucoscope mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "glucoscope": { "command": "glucoscope", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}

		if err := log.Init(cfg.Debug); err != nil {
			return err
		}

		if noSource[cmd.Name()] {
			return nil
		}
		return openSession()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer log.Sync()
		if src != nil {
			err := src.Close()
			src = nil
			sess = nil
			return err
		}
		return nil
	},
}

// loadConfig reads the config file and environment, then applies flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		c.DataDir = flagDataDir
	}
	if flags.Changed("backend") {
		c.Backend = flagBackend
	}
	if flags.Changed("timezone") {
		c.Timezone = flagTimezone
	}
	if flags.Changed("debug") {
		c.Debug = flagDebug
	}
	return c, nil
}

func openSession() error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	if src != nil {
		_ = src.Close()
	}
	src, err = cfg.OpenSource()
	if err != nil {
		return fmt.Errorf("failed to open %s source: %w", cfg.GetBackend(), err)
	}
	sess = session.New(src, loc)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "directory holding the CSV files (default ~/.local/share/glucoscope)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "row source: csv or sqlite")
	rootCmd.PersistentFlags().StringVar(&flagTimezone, "timezone", "", "IANA zone for source timestamps (default local)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}
