// ABOUTME: Parsers turning raw dataset rows into typed records.
// ABOUTME: One parser per input file category; all are pure.
package parse

import (
	"strings"
	"time"

	"github.com/harperreed/glucoscope/internal/models"
	"github.com/harperreed/glucoscope/internal/source"
)

// Glucose parses Dexcom rows (timestamp, glucose).
func Glucose(rows []source.Row, loc *time.Location) ([]models.GlucoseSample, Report) {
	var r Report
	samples := make([]models.GlucoseSample, 0, len(rows))
	for _, row := range rows {
		r.Rows++
		samples = append(samples, models.GlucoseSample{
			Timestamp: r.timeCell(row["timestamp"], loc),
			Glucose:   r.numberCell(row["glucose"]),
		})
	}
	return samples, r
}

// HeartRate parses HR rows (datetime, hr).
func HeartRate(rows []source.Row, loc *time.Location) ([]models.HeartRateSample, Report) {
	var r Report
	samples := make([]models.HeartRateSample, 0, len(rows))
	for _, row := range rows {
		r.Rows++
		samples = append(samples, models.HeartRateSample{
			Timestamp: r.timeCell(row["datetime"], loc),
			HeartRate: r.numberCell(row["hr"]),
		})
	}
	return samples, r
}

// FoodEvents parses Food_Log rows. The food name prefers searched_food and
// falls back to logged_food. StartRaw keeps the time_begin text for grouping.
func FoodEvents(rows []source.Row, loc *time.Location) ([]models.FoodEvent, Report) {
	var r Report
	events := make([]models.FoodEvent, 0, len(rows))
	for _, row := range rows {
		r.Rows++
		name := strings.TrimSpace(row["searched_food"])
		if name == "" {
			name = strings.TrimSpace(row["logged_food"])
		}
		events = append(events, models.FoodEvent{
			Start:        r.timeCell(row["time_begin"], loc),
			StartRaw:     row["time_begin"],
			End:          row["time_end"],
			Food:         name,
			Calories:     r.numberCell(row["calorie"]),
			Sugar:        r.numberCell(row["sugar"]),
			DietaryFiber: r.numberCell(row["dietary_fiber"]),
			TotalFat:     r.numberCell(row["total_fat"]),
			Protein:      r.numberCell(row["protein"]),
			TotalCarb:    r.numberCell(row["total_carb"]),
			Amount:       r.numberCell(row["amount"]),
			Unit:         row["unit"],
		})
	}
	return events, r
}

// Demographics parses the demographics table (ID, HbA1c, Gender).
func Demographics(rows []source.Row) ([]models.Demographic, Report) {
	var r Report
	out := make([]models.Demographic, 0, len(rows))
	for _, row := range rows {
		r.Rows++
		out = append(out, models.Demographic{
			ID:     strings.TrimSpace(row["ID"]),
			HbA1c:  r.numberCell(row["HbA1c"]),
			Gender: strings.TrimSpace(row["Gender"]),
		})
	}
	return out, r
}

// Countries parses global_stats rows (Country Name, Country Code, 2021).
func Countries(rows []source.Row) ([]models.CountryStat, Report) {
	var r Report
	out := make([]models.CountryStat, 0, len(rows))
	for _, row := range rows {
		r.Rows++
		out = append(out, models.CountryStat{
			Name:       strings.TrimSpace(row["Country Name"]),
			Code:       strings.TrimSpace(row["Country Code"]),
			Prevalence: r.numberCell(row["2021"]),
		})
	}
	return out, r
}
