// ABOUTME: Tests for report export in JSON, YAML, Markdown, and XLSX.
// ABOUTME: Builds a small dataset by hand and checks each format's sections.
package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/glucoscope/internal/correlate"
	"github.com/harperreed/glucoscope/internal/aggregate"
	"github.com/harperreed/glucoscope/internal/models"
	"github.com/harperreed/glucoscope/internal/parse"
	"github.com/harperreed/glucoscope/internal/session"
	"github.com/harperreed/glucoscope/internal/source"
	"github.com/tealeg/xlsx/v3"
	"gopkg.in/yaml.v3"
)

func f64(v float64) *float64 { return &v }

func testDataset() *session.Dataset {
	base := time.Date(2020, 2, 13, 18, 0, 0, 0, time.UTC)
	rice := models.FoodEvent{Start: base, StartRaw: "2020-02-13 18:00:00", Food: "Rice", Calories: f64(200), Sugar: f64(1)}
	chicken := models.FoodEvent{Start: base, StartRaw: "2020-02-13 18:00:00", Food: "Chicken", Calories: f64(250), Protein: f64(30)}
	apple := models.FoodEvent{Start: base.Add(4 * time.Hour), StartRaw: "2020-02-13 22:00:00", Food: "Apple", Calories: f64(95), Sugar: f64(19)}

	return &session.Dataset{
		LoadID:      uuid.New(),
		Participant: "001",
		Glucose: []models.GlucoseSample{
			{Timestamp: base.Add(-time.Hour), Glucose: f64(98)},
			{Timestamp: base.Add(30 * time.Minute), Glucose: f64(145)},
			{Timestamp: base.Add(8 * time.Hour), Glucose: f64(101)},
		},
		FoodGroups: []models.FoodGroup{
			{Key: rice.StartRaw, Start: base, CombinedStats: models.MacroTotals{Calories: 450, Sugar: 1, Protein: 30}, Foods: []models.FoodEvent{rice, chicken}},
			{Key: apple.StartRaw, Start: apple.Start, CombinedStats: models.MacroTotals{Calories: 95, Sugar: 19}, Foods: []models.FoodEvent{apple}},
		},
		HeartRateAverages: []models.HeartRateMinuteAverage{
			{Timestamp: base, AvgHeartRate: f64(72), Samples: 4},
		},
		RestingHeartRate: f64(61),
	}
}

var testFilter = correlate.Filter{Macro: models.MacroCalories, Threshold: 300, Enabled: true}

func TestNewReport(t *testing.T) {
	diag := &models.DiagnosisResult{ParticipantID: "1", HbA1c: 5.9, Diagnosis: models.DiagnosisPrediabetic}
	r := NewReport(testDataset(), testFilter, diag)

	if r.Participant != "001" || r.Tool != "glucoscope" {
		t.Errorf("unexpected header: %+v", r)
	}
	if len(r.FoodGroups) != 1 {
		t.Errorf("expected only the passing meal, got %d", len(r.FoodGroups))
	}
	if r.MaxMacro == nil || *r.MaxMacro != 450 {
		t.Errorf("MaxMacro = %v, want 450", r.MaxMacro)
	}
	if r.Summary.Peak != 2 || r.Summary.Inactive != 1 {
		t.Errorf("Summary = %+v", r.Summary)
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(NewReport(testDataset(), testFilter, nil))
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if decoded["version"] != Version {
		t.Errorf("version = %v", decoded["version"])
	}
	if _, ok := decoded["diagnosis"]; ok {
		t.Error("diagnosis should be omitted when not requested")
	}
	glucose, ok := decoded["glucose"].([]interface{})
	if !ok || len(glucose) != 3 {
		t.Fatalf("expected 3 glucose entries, got %v", decoded["glucose"])
	}
	first := glucose[0].(map[string]interface{})
	if first["highlight"] != "peak" {
		t.Errorf("first highlight = %v, want peak", first["highlight"])
	}
}

func TestJSONWithNonFiniteCells(t *testing.T) {
	glucose, report := parse.Glucose([]source.Row{
		{"timestamp": "2020-02-13 17:00:00", "glucose": "NaN"},
		{"timestamp": "2020-02-13 18:30:00", "glucose": "145"},
	}, time.UTC)
	events, foodReport := parse.FoodEvents([]source.Row{
		{"time_begin": "2020-02-13 18:00:00", "searched_food": "Soup", "calorie": "Inf", "sugar": "4"},
	}, time.UTC)
	report.Add(foodReport)

	ds := &session.Dataset{
		LoadID:      uuid.New(),
		Participant: "001",
		Glucose:     glucose,
		FoodGroups:  aggregate.FoodGroups(events),
		ParseReport: report,
	}

	data, err := JSON(NewReport(ds, correlate.Filter{Macro: models.MacroSugar, Threshold: 1, Enabled: true}, nil))
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if !json.Valid(data) {
		t.Fatal("JSON output is not valid")
	}
	if report.BadNumbers != 2 {
		t.Errorf("BadNumbers = %d, want 2", report.BadNumbers)
	}
	if ds.FoodGroups[0].CombinedStats.Calories != 0 {
		t.Errorf("calories = %v, want 0 for a non-finite cell", ds.FoodGroups[0].CombinedStats.Calories)
	}
}

func TestYAML(t *testing.T) {
	data, err := YAML(NewReport(testDataset(), testFilter, nil))
	if err != nil {
		t.Fatalf("YAML failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to parse YAML: %v", err)
	}
	if decoded["participant"] != "001" {
		t.Errorf("participant = %v", decoded["participant"])
	}
	glucose, ok := decoded["glucose"].(map[string]interface{})
	if !ok {
		t.Fatalf("glucose should be grouped by highlight, got %T", decoded["glucose"])
	}
	if peaks, _ := glucose["peak"].([]interface{}); len(peaks) != 2 {
		t.Errorf("expected 2 peak readings, got %v", glucose["peak"])
	}
}

func TestMarkdown(t *testing.T) {
	diag := &models.DiagnosisResult{ParticipantID: "1", HbA1c: 5.9, Diagnosis: models.DiagnosisPrediabetic}
	md := Markdown(NewReport(testDataset(), correlate.Filter{Macro: models.MacroSugar}, diag))

	for _, want := range []string{
		"# Participant 001",
		"## Summary",
		"| Diagnosis | Prediabetic |",
		"| Filter | off |",
		"## Meals",
		"| 2020-02-13 18:00:00 | **Total** | **450.0** |",
		"## Glucose",
		"## Heart Rate",
		"| Resting heart rate | 61.0 bpm |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// Single-item meals get no totals row
	if strings.Count(md, "**Total**") != 1 {
		t.Errorf("expected exactly one totals row, got %d", strings.Count(md, "**Total**"))
	}
}

func TestMarkdownNoPassingMeals(t *testing.T) {
	f := correlate.Filter{Macro: models.MacroProtein, Threshold: 1000, Enabled: true}
	md := Markdown(NewReport(testDataset(), f, nil))

	if !strings.Contains(md, "No meals.") {
		t.Error("expected empty meal section")
	}
	if !strings.Contains(md, "(no meals pass)") {
		t.Error("expected filter description to note no passing meals")
	}
}

func TestWorkbook(t *testing.T) {
	wb, err := Workbook(NewReport(testDataset(), testFilter, nil))
	if err != nil {
		t.Fatalf("Workbook failed: %v", err)
	}

	names := make([]string, len(wb.Sheets))
	for i, sh := range wb.Sheets {
		names[i] = sh.Name
	}
	want := []string{SheetSummary, SheetGlucose, SheetMeals, SheetHeartRate}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("sheets = %v, want %v", names, want)
	}

	m, err := wb.ToSlice()
	if err != nil {
		t.Fatalf("ToSlice failed: %v", err)
	}
	if m[0][0][0] != "Participant" || m[0][0][1] != "001" {
		t.Errorf("summary first row = %v", m[0][0])
	}
	if m[1][0][2] != "Highlight" || m[1][1][2] != "peak" {
		t.Errorf("glucose sheet rows = %v, %v", m[1][0], m[1][1])
	}
	if m[2][1][1] != "Rice" || m[2][3][1] != "Total" {
		t.Errorf("meal sheet rows = %v", m[2])
	}
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, NewReport(testDataset(), testFilter, nil), FormatXLSX); err != nil {
		t.Fatalf("Write xlsx failed: %v", err)
	}

	wb, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		t.Fatalf("OpenBinary failed: %v", err)
	}
	if len(wb.Sheets) != 4 {
		t.Errorf("expected 4 sheets, got %d", len(wb.Sheets))
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, NewReport(testDataset(), testFilter, nil), Format("pdf")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"json", FormatJSON, true},
		{"yml", FormatYAML, true},
		{"md", FormatMarkdown, true},
		{"xlsx", FormatXLSX, true},
		{"pdf", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFormat(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, ok)
		}
	}
}
