// ABOUTME: CLI command for importing CSV datasets into SQLite.
// ABOUTME: Copies shared tables and each participant's files, then logs the import.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/glucoscope/internal/config"
	"github.com/harperreed/glucoscope/internal/source"
	"github.com/spf13/cobra"
)

var (
	importFrom string
	importDB   string
	importList bool
)

var importCmd = &cobra.Command{
	Use:   "import [participant...]",
	Short: "Import CSV files into the SQLite backend",
	Long: `Copy flat CSV files into the SQLite database used by --backend sqlite.

Demographics.csv and global_stats.csv are imported when present. Each named
participant's Dexcom, Food_Log, and HR files must exist. Re-importing a
dataset replaces its rows.

EXAMPLES:

  glucoscope import 001 002 --from ./data
  glucoscope import --list
  glucoscope --backend sqlite filter 001 -m sugar -t 30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := cfg.GetDatabase()
		if importDB != "" {
			dbPath = config.ExpandPath(importDB)
		}

		dst, err := source.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = dst.Close() }()

		out := cmd.OutOrStdout()
		if importList {
			return listImports(cmd, dst)
		}
		if len(args) == 0 {
			return fmt.Errorf("name at least one participant to import")
		}

		from := cfg.GetDataDir()
		if importFrom != "" {
			from = config.ExpandPath(importFrom)
		}
		csv, err := source.NewCSVSource(from)
		if err != nil {
			return err
		}
		defer func() { _ = csv.Close() }()

		summary, err := source.Import(cmd.Context(), csv, dst, args)
		if summary != nil {
			for _, rec := range summary.Imported {
				fmt.Fprintf(out, "%s %s %d rows\n",
					color.GreenString("✓"), padRight(rec.Dataset.FileName(rec.Participant), 24), rec.RowCount)
			}
			for _, name := range summary.Skipped {
				fmt.Fprintf(out, "%s %s not found\n", color.YellowString("-"), padRight(name, 24))
			}
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.New(color.FgGreen).Fprintf(out, "Imported into %s\n", dst.Path())
		return nil
	},
}

func listImports(cmd *cobra.Command, dst *source.DB) error {
	records, err := dst.ListImports(cmd.Context(), 0)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No imports found.")
		return nil
	}

	faint := color.New(color.Faint)
	for _, rec := range records {
		fmt.Fprintf(out, "%s %s %s %d rows\n",
			faint.Sprint(rec.ID.String()[:8]),
			rec.ImportedAt.Local().Format(time.DateTime),
			padRight(rec.Dataset.FileName(rec.Participant), 24),
			rec.RowCount)
	}
	return nil
}

func init() {
	importCmd.Flags().StringVar(&importFrom, "from", "", "directory holding the CSV files (default --data-dir)")
	importCmd.Flags().StringVar(&importDB, "db", "", "database path (default from config)")
	importCmd.Flags().BoolVar(&importList, "list", false, "list previous imports")
	rootCmd.AddCommand(importCmd)
}
