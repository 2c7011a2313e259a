// ABOUTME: Report rendering to JSON, YAML, and Markdown.
// ABOUTME: YAML groups glucose samples by highlight; Markdown mirrors the meal table.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harperreed/glucoscope/internal/models"
	"gopkg.in/yaml.v3"
)

// Write renders the report in the given format.
func Write(w io.Writer, r *Report, format Format) error {
	var data []byte
	var err error

	switch format {
	case FormatJSON:
		data, err = JSON(r)
	case FormatYAML:
		data, err = YAML(r)
	case FormatMarkdown:
		data = []byte(Markdown(r))
	case FormatXLSX:
		return XLSX(w, r)
	default:
		return fmt.Errorf("unknown format: %q", format)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	_, err = w.Write(data)
	return err
}

// JSON renders the report as indented JSON.
func JSON(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// YAML renders the report as YAML with glucose samples grouped by highlight.
func YAML(r *Report) ([]byte, error) {
	yamlData := struct {
		Version          string                   `yaml:"version"`
		Tool             string                   `yaml:"tool"`
		GeneratedAt      string                   `yaml:"generated_at"`
		Participant      string                   `yaml:"participant"`
		LoadID           string                   `yaml:"load_id"`
		Filter           yamlFilter               `yaml:"filter"`
		RestingHeartRate *float64                 `yaml:"resting_heart_rate"`
		Diagnosis        *models.DiagnosisResult  `yaml:"diagnosis,omitempty"`
		Meals            []yamlMeal               `yaml:"meals"`
		Glucose          map[string][]yamlReading `yaml:"glucose"`
		HeartRate        []yamlReading            `yaml:"heart_rate"`
	}{
		Version:          r.Version,
		Tool:             r.Tool,
		GeneratedAt:      r.GeneratedAt.Format(time.RFC3339),
		Participant:      r.Participant,
		LoadID:           r.LoadID,
		RestingHeartRate: r.RestingHeartRate,
		Diagnosis:        r.Diagnosis,
		Filter: yamlFilter{
			Macro:     string(r.Filter.Macro),
			Threshold: r.Filter.Threshold,
			Enabled:   r.Filter.Enabled,
			MaxMacro:  r.MaxMacro,
		},
		Meals:     make([]yamlMeal, 0, len(r.FoodGroups)),
		Glucose:   make(map[string][]yamlReading),
		HeartRate: make([]yamlReading, 0, len(r.HeartRate)),
	}

	for _, g := range r.FoodGroups {
		ym := yamlMeal{Start: g.Key, Totals: g.CombinedStats}
		for _, f := range g.Foods {
			ym.Foods = append(ym.Foods, f.Food)
		}
		yamlData.Meals = append(yamlData.Meals, ym)
	}

	for _, s := range r.Glucose {
		h := string(s.Highlight)
		yamlData.Glucose[h] = append(yamlData.Glucose[h], yamlReading{
			At:    formatTime(s.Timestamp, time.RFC3339),
			Value: s.Glucose,
		})
	}

	for _, h := range r.HeartRate {
		yamlData.HeartRate = append(yamlData.HeartRate, yamlReading{
			At:    formatTime(h.Timestamp, time.RFC3339),
			Value: h.AvgHeartRate,
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlFilter struct {
	Macro     string   `yaml:"macro"`
	Threshold float64  `yaml:"threshold"`
	Enabled   bool     `yaml:"enabled"`
	MaxMacro  *float64 `yaml:"max_macro,omitempty"`
}

type yamlMeal struct {
	Start  string             `yaml:"start"`
	Foods  []string           `yaml:"foods"`
	Totals models.MacroTotals `yaml:"totals"`
}

type yamlReading struct {
	At    string   `yaml:"at"`
	Value *float64 `yaml:"value"`
}

// Markdown renders the report as Markdown tables.
func Markdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Participant %s - %s\n\n", r.Participant, r.GeneratedAt.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Resting heart rate | %s |\n", formatValue(r.RestingHeartRate, "bpm")))
	if r.Diagnosis != nil {
		sb.WriteString(fmt.Sprintf("| HbA1c | %.2f%% |\n", r.Diagnosis.HbA1c))
		sb.WriteString(fmt.Sprintf("| Diagnosis | %s |\n", r.Diagnosis.Diagnosis))
	}
	sb.WriteString(fmt.Sprintf("| Filter | %s |\n", describeFilter(r)))
	sb.WriteString(fmt.Sprintf("| Glucose samples | %d active, %d peak, %d inactive |\n",
		r.Summary.Active, r.Summary.Peak, r.Summary.Inactive))
	sb.WriteString("\n")

	sb.WriteString("## Meals\n\n")
	if len(r.FoodGroups) == 0 {
		sb.WriteString("No meals.\n\n")
	} else {
		sb.WriteString("| Time | Food | Calories | Sugar | Fiber | Fat | Protein | Carbs |\n")
		sb.WriteString("|------|------|----------|-------|-------|-----|---------|-------|\n")
		for _, g := range r.FoodGroups {
			for _, f := range g.Foods {
				sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
					g.Key, f.Food,
					formatValue(f.Calories, ""), formatValue(f.Sugar, ""),
					formatValue(f.DietaryFiber, ""), formatValue(f.TotalFat, ""),
					formatValue(f.Protein, ""), formatValue(f.TotalCarb, "")))
			}
			if len(g.Foods) > 1 {
				t := g.CombinedStats
				sb.WriteString(fmt.Sprintf("| %s | **Total** | **%.1f** | **%.1f** | **%.1f** | **%.1f** | **%.1f** | **%.1f** |\n",
					g.Key, t.Calories, t.Sugar, t.DietaryFiber, t.TotalFat, t.Protein, t.TotalCarb))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Glucose\n\n")
	sb.WriteString("| Time | Glucose | Highlight |\n")
	sb.WriteString("|------|---------|-----------|\n")
	for _, s := range r.Glucose {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			formatTime(s.Timestamp, "2006-01-02 15:04"), formatValue(s.Glucose, "mg/dL"), s.Highlight))
	}
	sb.WriteString("\n")

	if len(r.HeartRate) > 0 {
		sb.WriteString("## Heart Rate\n\n")
		sb.WriteString("| Minute | Average | Samples |\n")
		sb.WriteString("|--------|---------|---------|\n")
		for _, h := range r.HeartRate {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d |\n",
				formatTime(h.Timestamp, "2006-01-02 15:04"), formatValue(h.AvgHeartRate, "bpm"), h.Samples))
		}
	}

	return sb.String()
}

func describeFilter(r *Report) string {
	if !r.Filter.Enabled {
		return "off"
	}
	desc := fmt.Sprintf("%s >= %g %s", r.Filter.Macro, r.Filter.Threshold, models.MacroUnits[r.Filter.Macro])
	if r.MaxMacro != nil {
		desc += fmt.Sprintf(" (max %g)", *r.MaxMacro)
	} else {
		desc += " (no meals pass)"
	}
	return desc
}

func formatValue(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	if unit == "" {
		return fmt.Sprintf("%.1f", *v)
	}
	return fmt.Sprintf("%.1f %s", *v, unit)
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return "invalid"
	}
	return t.Format(layout)
}
