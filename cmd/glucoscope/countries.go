// ABOUTME: CLI command for ranking global diabetes prevalence.
// ABOUTME: Reads global_stats.csv, highest prevalence first.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/glucoscope/internal/aggregate"
	"github.com/spf13/cobra"
)

var (
	countriesSearch     string
	countriesTop        int
	countriesAggregates bool
)

var countriesCmd = &cobra.Command{
	Use:     "countries",
	Aliases: []string{"global"},
	Short:   "Rank countries by 2021 diabetes prevalence",
	Long: `Rank countries by diabetes prevalence, highest first.

Regional and income-group rows (World, OECD members, ...) are skipped unless
--include-aggregates is set.

EXAMPLES:

  glucoscope countries                 # Top 10
  glucoscope countries --top 0         # Every country
  glucoscope countries --search land   # Names or codes containing "land"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ranked, err := sess.Countries(cmd.Context(), aggregate.RankOptions{
			Search:            countriesSearch,
			Top:               countriesTop,
			IncludeAggregates: countriesAggregates,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(ranked) == 0 {
			fmt.Fprintln(out, "No countries match.")
			return nil
		}

		faint := color.New(color.Faint)
		for i, c := range ranked {
			fmt.Fprintf(out, "%3d. %s %s %5.1f%%\n",
				i+1, padRight(truncate(c.Name, 36), 36), faint.Sprint(padRight(c.Code, 4)), *c.Prevalence)
		}
		return nil
	},
}

func init() {
	countriesCmd.Flags().StringVarP(&countriesSearch, "search", "s", "", "match country name or code")
	countriesCmd.Flags().IntVarP(&countriesTop, "top", "n", 10, "number of rows (0 for all)")
	countriesCmd.Flags().BoolVar(&countriesAggregates, "include-aggregates", false, "keep regional and income-group rows")
	rootCmd.AddCommand(countriesCmd)
}
