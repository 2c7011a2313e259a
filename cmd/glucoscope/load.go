// ABOUTME: CLI command for loading and summarizing one participant.
// ABOUTME: Prints sample counts, time range, resting heart rate, and parse warnings.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/glucoscope/internal/models"
	"github.com/spf13/cobra"
)

var loadAxis string

var loadCmd = &cobra.Command{
	Use:     "load <participant>",
	Aliases: []string{"show"},
	Short:   "Load and summarize a participant",
	Long: `Load a participant's glucose, food log, and heart-rate files and print a
summary of what was found.

AXIS:

  --axis glucose      Report the glucose time range (default)
  --axis heart_rate   Report the per-minute heart-rate time range

EXAMPLES:

  glucoscope load 001
  glucoscope load 001 --axis hr`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		axis, ok := models.ParseAxis(loadAxis)
		if !ok {
			return fmt.Errorf("unknown axis: %s (use glucose or heart_rate)", loadAxis)
		}
		if err := sess.SetAxis(axis); err != nil {
			return err
		}

		ds, err := sess.LoadParticipant(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		bold := color.New(color.Bold)
		faint := color.New(color.Faint)

		bold.Fprintf(out, "Participant %s\n", ds.Participant)
		faint.Fprintf(out, "load %s\n\n", ds.LoadID.String()[:8])

		fmt.Fprintf(out, "%s %d\n", padRight("Glucose samples", 20), len(ds.Glucose))
		fmt.Fprintf(out, "%s %d\n", padRight("Meals", 20), len(ds.FoodGroups))
		fmt.Fprintf(out, "%s %d\n", padRight("Heart-rate minutes", 20), len(ds.HeartRateAverages))
		fmt.Fprintf(out, "%s %s\n", padRight("Resting heart rate", 20), formatOptional(ds.RestingHeartRate, "bpm"))

		if first, last, ok := ds.Extent(axis); ok {
			fmt.Fprintf(out, "%s %s to %s\n", padRight(string(axis)+" range", 20), formatStamp(first), formatStamp(last))
		}

		if !ds.ParseReport.Clean() {
			color.New(color.FgYellow).Fprintf(out, "\n! %d unparseable timestamps, %d unparseable numbers\n",
				ds.ParseReport.BadTimestamps, ds.ParseReport.BadNumbers)
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadAxis, "axis", "glucose", "y-axis series: glucose or heart_rate")
	rootCmd.AddCommand(loadCmd)
}
