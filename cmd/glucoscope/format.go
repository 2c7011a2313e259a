// ABOUTME: Output helpers shared by CLI commands.
// ABOUTME: Padding, truncation, optional-value formatting, and highlight colors.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/glucoscope/internal/models"
)

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// formatOptional renders a missing value as "-".
func formatOptional(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	if unit == "" {
		return fmt.Sprintf("%.1f", *v)
	}
	return fmt.Sprintf("%.1f %s", *v, unit)
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return "invalid time    "
	}
	return t.Format("2006-01-02 15:04")
}

// highlightColor picks the color used for a glucose sample state.
func highlightColor(h models.Highlight) *color.Color {
	switch h {
	case models.HighlightPeak:
		return color.New(color.FgRed, color.Bold)
	case models.HighlightActive:
		return color.New(color.FgGreen)
	default:
		return color.New(color.Faint)
	}
}
