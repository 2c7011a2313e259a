// ABOUTME: Participant report assembled from a loaded dataset and a filter result.
// ABOUTME: Shared by every export format so they all carry the same content.
package export

import (
	"time"

	"github.com/harperreed/glucoscope/internal/correlate"
	"github.com/harperreed/glucoscope/internal/models"
	"github.com/harperreed/glucoscope/internal/parse"
	"github.com/harperreed/glucoscope/internal/session"
)

// Version is the report format version.
const Version = "1.0"

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatXLSX     Format = "xlsx"
)

// AllFormats lists the supported formats.
var AllFormats = []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatXLSX}

// ParseFormat resolves a format name; "md" and "yml" are accepted.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	case "markdown", "md":
		return FormatMarkdown, true
	case "xlsx", "excel":
		return FormatXLSX, true
	}
	return "", false
}

// Report is the full export for one participant.
type Report struct {
	Version          string                          `json:"version" yaml:"version"`
	Tool             string                          `json:"tool" yaml:"tool"`
	GeneratedAt      time.Time                       `json:"generated_at" yaml:"generated_at"`
	Participant      string                          `json:"participant" yaml:"participant"`
	LoadID           string                          `json:"load_id" yaml:"load_id"`
	Filter           correlate.Filter                `json:"filter" yaml:"filter"`
	MaxMacro         *float64                        `json:"max_macro,omitempty" yaml:"max_macro,omitempty"`
	Summary          correlate.Counts                `json:"summary" yaml:"summary"`
	RestingHeartRate *float64                        `json:"resting_heart_rate" yaml:"resting_heart_rate"`
	Diagnosis        *models.DiagnosisResult         `json:"diagnosis,omitempty" yaml:"diagnosis,omitempty"`
	ParseReport      parse.Report                    `json:"parse_report" yaml:"parse_report"`
	FoodGroups       []models.FoodGroup              `json:"food_groups" yaml:"food_groups"`
	Glucose          []models.AnnotatedGlucoseSample `json:"glucose" yaml:"glucose"`
	HeartRate        []models.HeartRateMinuteAverage `json:"heart_rate" yaml:"heart_rate"`
}

// NewReport builds a report. FoodGroups holds the meals the filter used:
// all of them when filtering is off, otherwise only the passing ones.
func NewReport(ds *session.Dataset, f correlate.Filter, diag *models.DiagnosisResult) *Report {
	res := correlate.Apply(ds.Glucose, ds.FoodGroups, f)
	return &Report{
		Version:          Version,
		Tool:             "glucoscope",
		GeneratedAt:      time.Now(),
		Participant:      ds.Participant,
		LoadID:           ds.LoadID.String(),
		Filter:           f,
		MaxMacro:         res.MaxMacro,
		Summary:          correlate.Summary(res),
		RestingHeartRate: ds.RestingHeartRate,
		Diagnosis:        diag,
		ParseReport:      ds.ParseReport,
		FoodGroups:       res.Groups,
		Glucose:          res.Samples,
		HeartRate:        ds.HeartRateAverages,
	}
}
