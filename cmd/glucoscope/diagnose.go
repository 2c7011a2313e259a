// ABOUTME: CLI command for the HbA1c prediabetes classification.
// ABOUTME: Looks the participant up in Demographics.csv.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/glucoscope/internal/diagnosis"
	"github.com/harperreed/glucoscope/internal/models"
	"github.com/spf13/cobra"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <participant>",
	Short: "Classify a participant from HbA1c",
	Long: fmt.Sprintf(`Classify a participant as Prediabetic or Normal.

A participant is Prediabetic when HbA1c is at least %.1f%%. IDs match exactly
first, then numerically, so "1" finds participant 001.

EXAMPLES:

  glucoscope diagnose 001`, diagnosis.PrediabeticHbA1c),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := sess.Diagnose(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		c := color.New(color.FgGreen, color.Bold)
		if res.Diagnosis == models.DiagnosisPrediabetic {
			c = color.New(color.FgRed, color.Bold)
		}
		fmt.Fprintf(out, "Participant %s: HbA1c %.2f%% ", res.ParticipantID, res.HbA1c)
		c.Fprintln(out, res.Diagnosis)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}
