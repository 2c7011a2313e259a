// ABOUTME: Food log aggregation into meals and macro range helpers.
// ABOUTME: Meals are keyed by raw start text, preserving first-seen order.
package aggregate

import (
	"github.com/harperreed/glucoscope/internal/models"
	"gonum.org/v1/gonum/floats"
)

// DefaultSliderMax is the threshold ceiling used when no meal has a
// positive value for the selected macro.
const DefaultSliderMax = 1000.0

// FoodGroups groups events sharing the same raw start text into meals and
// sums their macros, with missing values counted as 0.
func FoodGroups(events []models.FoodEvent) []models.FoodGroup {
	index := make(map[string]int)
	var groups []models.FoodGroup

	for _, e := range events {
		i, ok := index[e.StartRaw]
		if !ok {
			i = len(groups)
			index[e.StartRaw] = i
			groups = append(groups, models.FoodGroup{
				Key:   e.StartRaw,
				Start: e.Start,
			})
		}
		groups[i].Foods = append(groups[i].Foods, e)
	}

	for i := range groups {
		groups[i].CombinedStats = SumMacros(groups[i].Foods)
	}
	return groups
}

// SumMacros totals each macro across foods.
func SumMacros(foods []models.FoodEvent) models.MacroTotals {
	var totals models.MacroTotals
	values := make([]float64, len(foods))
	for _, m := range models.AllMacros {
		for i, f := range foods {
			values[i] = f.Value(m)
		}
		totals.Set(m, floats.Sum(values))
	}
	return totals
}

// MacroValues returns each group's combined value for m.
func MacroValues(groups []models.FoodGroup, m models.Macro) []float64 {
	values := make([]float64, len(groups))
	for i, g := range groups {
		values[i] = g.CombinedStats.Get(m)
	}
	return values
}

// MaxMacro returns the largest combined value of m, or nil for no groups.
func MaxMacro(groups []models.FoodGroup, m models.Macro) *float64 {
	if len(groups) == 0 {
		return nil
	}
	top := floats.Max(MacroValues(groups, m))
	return &top
}

// SliderRange returns the threshold bounds for m: zero up to the largest
// meal value, or DefaultSliderMax when that is missing or zero.
func SliderRange(groups []models.FoodGroup, m models.Macro) (lo, hi float64) {
	if v := MaxMacro(groups, m); v != nil && *v > 0 {
		return 0, *v
	}
	return 0, DefaultSliderMax
}
