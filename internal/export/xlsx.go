// ABOUTME: XLSX workbook export with Summary, Glucose, Meals, and Heart Rate sheets.
// ABOUTME: Built with tealeg/xlsx the same way as a multi-sheet clinic report.
package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/harperreed/glucoscope/internal/models"
	"github.com/tealeg/xlsx/v3"
)

const (
	SheetSummary   = "Summary"
	SheetGlucose   = "Glucose"
	SheetMeals     = "Meals"
	SheetHeartRate = "Heart Rate"
)

// Workbook builds the report workbook.
func Workbook(r *Report) (*xlsx.File, error) {
	wb := xlsx.NewFile()

	components := []struct {
		name string
		fill func(sh *xlsx.Sheet)
	}{
		{SheetSummary, r.addSummary},
		{SheetGlucose, r.addGlucose},
		{SheetMeals, r.addMeals},
		{SheetHeartRate, r.addHeartRate},
	}
	for _, c := range components {
		sh, err := wb.AddSheet(c.name)
		if err != nil {
			return nil, fmt.Errorf("add sheet %s: %w", c.name, err)
		}
		c.fill(sh)
	}

	return wb, nil
}

// XLSX writes the report workbook to w.
func XLSX(w io.Writer, r *Report) error {
	wb, err := Workbook(r)
	if err != nil {
		return err
	}
	return wb.Write(w)
}

func (r *Report) addSummary(sh *xlsx.Sheet) {
	pair := func(k, v string) {
		row := sh.AddRow()
		row.AddCell().SetString(k)
		row.AddCell().SetString(v)
	}

	pair("Participant", r.Participant)
	pair("Report Generated", r.GeneratedAt.Format(time.RFC3339))
	pair("Load ID", r.LoadID)
	sh.AddRow()

	pair("Resting Heart Rate", formatValue(r.RestingHeartRate, "bpm"))
	if r.Diagnosis != nil {
		pair("HbA1c", strconv.FormatFloat(r.Diagnosis.HbA1c, 'f', 2, 64))
		pair("Diagnosis", string(r.Diagnosis.Diagnosis))
	}
	pair("Filter", describeFilter(r))
	sh.AddRow()

	pair("Active Samples", strconv.Itoa(r.Summary.Active))
	pair("Peak Samples", strconv.Itoa(r.Summary.Peak))
	pair("Inactive Samples", strconv.Itoa(r.Summary.Inactive))
	pair("Unparseable Timestamps", strconv.Itoa(r.ParseReport.BadTimestamps))
	pair("Unparseable Numbers", strconv.Itoa(r.ParseReport.BadNumbers))
}

func (r *Report) addGlucose(sh *xlsx.Sheet) {
	header(sh, "Timestamp", "Glucose (mg/dL)", "Highlight")
	for _, s := range r.Glucose {
		row := sh.AddRow()
		row.AddCell().SetString(formatTime(s.Timestamp, time.RFC3339))
		floatCell(row, s.Glucose)
		row.AddCell().SetString(string(s.Highlight))
	}
}

func (r *Report) addMeals(sh *xlsx.Sheet) {
	cols := []string{"Time", "Food"}
	for _, m := range models.AllMacros {
		cols = append(cols, string(m))
	}
	cols = append(cols, "Amount", "Unit")
	header(sh, cols...)

	for _, g := range r.FoodGroups {
		for _, f := range g.Foods {
			row := sh.AddRow()
			row.AddCell().SetString(g.Key)
			row.AddCell().SetString(f.Food)
			for _, m := range models.AllMacros {
				if v, ok := f.Lookup(m); ok {
					row.AddCell().SetFloat(v)
				} else {
					row.AddCell()
				}
			}
			floatCell(row, f.Amount)
			row.AddCell().SetString(f.Unit)
		}
		if len(g.Foods) > 1 {
			row := sh.AddRow()
			row.AddCell().SetString(g.Key)
			row.AddCell().SetString("Total")
			for _, m := range models.AllMacros {
				row.AddCell().SetFloat(g.CombinedStats.Get(m))
			}
		}
	}
}

func (r *Report) addHeartRate(sh *xlsx.Sheet) {
	header(sh, "Minute", "Average (bpm)", "Samples")
	for _, h := range r.HeartRate {
		row := sh.AddRow()
		row.AddCell().SetString(formatTime(h.Timestamp, time.RFC3339))
		floatCell(row, h.AvgHeartRate)
		row.AddCell().SetInt(h.Samples)
	}
}

func header(sh *xlsx.Sheet, cols ...string) {
	row := sh.AddRow()
	for _, c := range cols {
		row.AddCell().SetString(c)
	}
}

func floatCell(row *xlsx.Row, v *float64) {
	cell := row.AddCell()
	if v != nil {
		cell.SetFloat(*v)
	}
}
