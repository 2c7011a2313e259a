// ABOUTME: CLI command for the meal/glucose cross-filter.
// ABOUTME: Classifies glucose samples as active, peak, or inactive around passing meals.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/glucoscope/internal/aggregate"
	"github.com/harperreed/glucoscope/internal/correlate"
	"github.com/harperreed/glucoscope/internal/models"
	"github.com/spf13/cobra"
)

var (
	filterMacro     string
	filterThreshold float64
	filterOff       bool
	filterShow      bool
)

var filterCmd = &cobra.Command{
	Use:   "filter <participant>",
	Short: "Highlight glucose around meals above a macro threshold",
	Long: `Filter meals by a macro threshold and classify every glucose sample.

STATES:

  peak       within 2 hours of the passing meal with the largest value
  active     within 2 hours of another passing meal
  inactive   no passing meal within 2 hours

  With --off, or when no meal passes, every sample is active.

EXAMPLES:

  glucoscope filter 001 --macro sugar --threshold 30
  glucoscope filter 001 -m calories -t 600 --show
  glucoscope filter 001 --off`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		macro, err := models.ParseMacro(filterMacro)
		if err != nil {
			return err
		}
		if err := sess.SetFilter(correlate.Filter{Macro: macro, Threshold: filterThreshold, Enabled: !filterOff}); err != nil {
			return err
		}

		if _, err := sess.LoadParticipant(cmd.Context(), args[0]); err != nil {
			return err
		}
		res, ds, err := sess.ApplyFilter()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		counts := correlate.Summary(*res)
		lo, hi := aggregate.SliderRange(ds.FoodGroups, macro)

		switch {
		case filterOff:
			fmt.Fprintln(out, "Filtering off.")
		case len(res.Groups) == 0:
			color.New(color.FgYellow).Fprintf(out, "No meals have %s >= %g %s (range %g to %g).\n",
				macro, filterThreshold, models.MacroUnits[macro], lo, hi)
		default:
			top := aggregate.MaxMacro(res.Groups, macro)
			fmt.Fprintf(out, "%d meals with %s >= %g %s (max %g, range %g to %g)\n",
				len(res.Groups), macro, filterThreshold, models.MacroUnits[macro], *top, lo, hi)
		}

		fmt.Fprintf(out, "%s %s %s\n",
			highlightColor(models.HighlightPeak).Sprintf("%d peak", counts.Peak),
			highlightColor(models.HighlightActive).Sprintf("%d active", counts.Active),
			highlightColor(models.HighlightInactive).Sprintf("%d inactive", counts.Inactive))

		if !filterOff && len(res.Groups) > 0 {
			fmt.Fprintln(out)
			printMeals(cmd, res.Groups)
		}

		if filterShow {
			fmt.Fprintln(out)
			for _, s := range res.Samples {
				c := highlightColor(s.Highlight)
				fmt.Fprintf(out, "%s  %s  %s\n",
					formatStamp(s.Timestamp), padRight(formatOptional(s.Glucose, "mg/dL"), 13), c.Sprint(s.Highlight))
			}
		}
		return nil
	},
}

func init() {
	filterCmd.Flags().StringVarP(&filterMacro, "macro", "m", string(models.MacroCalories), "macro to filter on")
	filterCmd.Flags().Float64VarP(&filterThreshold, "threshold", "t", 0, "minimum combined meal value")
	filterCmd.Flags().BoolVar(&filterOff, "off", false, "disable filtering")
	filterCmd.Flags().BoolVar(&filterShow, "show", false, "print every glucose sample")
	rootCmd.AddCommand(filterCmd)
}
