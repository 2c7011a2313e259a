// ABOUTME: CLI command for exporting a participant report.
// ABOUTME: Supports JSON, YAML, Markdown, and XLSX formats.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/glucoscope/internal/correlate"
	"github.com/harperreed/glucoscope/internal/diagnosis"
	"github.com/harperreed/glucoscope/internal/export"
	"github.com/harperreed/glucoscope/internal/models"
	"github.com/spf13/cobra"
)

var (
	exportOutput    string
	exportMacro     string
	exportThreshold float64
	exportOff       bool
	exportDiagnose  bool
)

var exportCmd = &cobra.Command{
	Use:   "export <participant> <format>",
	Short: "Export a participant report",
	Long: `Export a participant's annotated glucose, meals, and heart rate.

FORMATS:

  json       Full JSON report
  yaml       YAML report, glucose grouped by highlight
  markdown   Markdown tables (md)
  xlsx       Excel workbook, one sheet per series (requires --output)

OPTIONS:

  --output, -o      Write to file instead of stdout
  --macro, -m       Macro to filter meals on (default calories)
  --threshold, -t   Minimum combined macro value
  --off             Export with filtering off
  --diagnose        Include the HbA1c classification

EXAMPLES:

  glucoscope export 001 json
  glucoscope export 001 markdown -m sugar -t 30
  glucoscope export 001 xlsx -o 001.xlsx --diagnose`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"json", "yaml", "markdown", "xlsx"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format, ok := export.ParseFormat(args[1])
		if !ok {
			return fmt.Errorf("unknown format: %s (use json, yaml, markdown, or xlsx)", args[1])
		}
		if format == export.FormatXLSX && exportOutput == "" {
			return errors.New("xlsx export needs --output")
		}

		macro, err := models.ParseMacro(exportMacro)
		if err != nil {
			return err
		}
		filter := correlate.Filter{Macro: macro, Threshold: exportThreshold, Enabled: !exportOff}
		if err := sess.SetFilter(filter); err != nil {
			return err
		}

		ds, err := sess.LoadParticipant(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var diag *models.DiagnosisResult
		if exportDiagnose {
			diag, err = sess.Diagnose(cmd.Context(), ds.Participant)
			switch {
			case errors.Is(err, diagnosis.ErrParticipantNotFound), errors.Is(err, diagnosis.ErrMissingHbA1c):
				color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "! no diagnosis: %v\n", err)
			case err != nil:
				return err
			}
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, export.NewReport(ds, filter, diag), format); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, buf.Bytes(), 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", exportOutput)
			return nil
		}

		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file path")
	exportCmd.Flags().StringVarP(&exportMacro, "macro", "m", string(models.MacroCalories), "macro to filter meals on")
	exportCmd.Flags().Float64VarP(&exportThreshold, "threshold", "t", 0, "minimum combined macro value")
	exportCmd.Flags().BoolVar(&exportOff, "off", false, "export with filtering off")
	exportCmd.Flags().BoolVar(&exportDiagnose, "diagnose", false, "include the HbA1c classification")
	rootCmd.AddCommand(exportCmd)
}
