// ABOUTME: CLI command for listing a participant's meals.
// ABOUTME: Shows each meal's foods and combined macros, with a total for multi-item meals.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/glucoscope/internal/correlate"
	"github.com/harperreed/glucoscope/internal/models"
	"github.com/spf13/cobra"
)

var (
	foodsMacro string
	foodsMin   float64
)

var foodsCmd = &cobra.Command{
	Use:     "foods <participant>",
	Aliases: []string{"meals"},
	Short:   "List meals with combined macros",
	Long: `List a participant's meals. Items logged at the same time form one meal.

FILTERING:

  --macro and --min list only meals whose combined value is at least --min.
  Macros: calories, sugar, dietary_fiber, total_fat, protein, total_carb

EXAMPLES:

  glucoscope foods 001
  glucoscope foods 001 --macro total_carb --min 60`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := sess.LoadParticipant(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		groups := ds.FoodGroups
		if foodsMacro != "" {
			macro, err := models.ParseMacro(foodsMacro)
			if err != nil {
				return err
			}
			groups = correlate.Passing(groups, correlate.Filter{Macro: macro, Threshold: foodsMin, Enabled: true})
		}

		out := cmd.OutOrStdout()
		if len(groups) == 0 {
			fmt.Fprintln(out, "No meals found.")
			return nil
		}

		printMeals(cmd, groups)
		return nil
	},
}

func printMeals(cmd *cobra.Command, groups []models.FoodGroup) {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	for _, g := range groups {
		bold.Fprintf(out, "%s\n", g.Key)
		for _, f := range g.Foods {
			fmt.Fprintf(out, "  %s %s\n",
				padRight(truncate(f.Food, 32), 32),
				faint.Sprintf("%s kcal  %s g sugar  %s g carbs",
					formatOptional(f.Calories, ""), formatOptional(f.Sugar, ""), formatOptional(f.TotalCarb, "")))
		}
		if len(g.Foods) > 1 {
			t := g.CombinedStats
			fmt.Fprintf(out, "  %s %.1f kcal  %.1f g sugar  %.1f g carbs\n", padRight("Total", 32), t.Calories, t.Sugar, t.TotalCarb)
		}
	}
}

func init() {
	foodsCmd.Flags().StringVarP(&foodsMacro, "macro", "m", "", "only list meals meeting --min for this macro")
	foodsCmd.Flags().Float64Var(&foodsMin, "min", 0, "minimum combined macro value")
	rootCmd.AddCommand(foodsCmd)
}
