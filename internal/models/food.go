// ABOUTME: FoodEvent and FoodGroup models for logged meals.
// ABOUTME: A FoodGroup collects every item logged at the same start timestamp.
package models

import "time"

// FoodEvent is one item from a food log. Macro fields are nil when the
// source cell was empty.
type FoodEvent struct {
	Start        time.Time `json:"start" yaml:"start"`
	StartRaw     string    `json:"-" yaml:"-"`
	End          string    `json:"end" yaml:"end"`
	Food         string    `json:"food" yaml:"food"`
	Calories     *float64  `json:"calories" yaml:"calories"`
	Sugar        *float64  `json:"sugar" yaml:"sugar"`
	DietaryFiber *float64  `json:"dietary_fiber" yaml:"dietary_fiber"`
	TotalFat     *float64  `json:"total_fat" yaml:"total_fat"`
	Protein      *float64  `json:"protein" yaml:"protein"`
	TotalCarb    *float64  `json:"total_carb" yaml:"total_carb"`
	Amount       *float64  `json:"amount" yaml:"amount"`
	Unit         string    `json:"unit" yaml:"unit"`
}

// field returns the pointer backing a macro.
func (f *FoodEvent) field(m Macro) *float64 {
	switch m {
	case MacroCalories:
		return f.Calories
	case MacroSugar:
		return f.Sugar
	case MacroDietaryFiber:
		return f.DietaryFiber
	case MacroTotalFat:
		return f.TotalFat
	case MacroProtein:
		return f.Protein
	case MacroTotalCarb:
		return f.TotalCarb
	}
	return nil
}

// Lookup returns the macro value and whether it was present in the log.
func (f FoodEvent) Lookup(m Macro) (float64, bool) {
	p := f.field(m)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Value returns the macro value with missing treated as 0.
func (f FoodEvent) Value(m Macro) float64 {
	v, _ := f.Lookup(m)
	return v
}

// MacroTotals holds per-meal sums of each macro.
type MacroTotals struct {
	Calories     float64 `json:"calories" yaml:"calories"`
	Sugar        float64 `json:"sugar" yaml:"sugar"`
	DietaryFiber float64 `json:"dietary_fiber" yaml:"dietary_fiber"`
	TotalFat     float64 `json:"total_fat" yaml:"total_fat"`
	Protein      float64 `json:"protein" yaml:"protein"`
	TotalCarb    float64 `json:"total_carb" yaml:"total_carb"`
}

// Get returns the total for a macro.
func (t MacroTotals) Get(m Macro) float64 {
	switch m {
	case MacroCalories:
		return t.Calories
	case MacroSugar:
		return t.Sugar
	case MacroDietaryFiber:
		return t.DietaryFiber
	case MacroTotalFat:
		return t.TotalFat
	case MacroProtein:
		return t.Protein
	case MacroTotalCarb:
		return t.TotalCarb
	}
	return 0
}

// Set assigns the total for a macro.
func (t *MacroTotals) Set(m Macro, v float64) {
	switch m {
	case MacroCalories:
		t.Calories = v
	case MacroSugar:
		t.Sugar = v
	case MacroDietaryFiber:
		t.DietaryFiber = v
	case MacroTotalFat:
		t.TotalFat = v
	case MacroProtein:
		t.Protein = v
	case MacroTotalCarb:
		t.TotalCarb = v
	}
}

// FoodGroup is a meal: every FoodEvent sharing one logged start timestamp.
// Key is the raw start text the group was built from.
type FoodGroup struct {
	Key           string      `json:"key" yaml:"key"`
	Start         time.Time   `json:"start" yaml:"start"`
	CombinedStats MacroTotals `json:"combined_stats" yaml:"combined_stats"`
	Foods         []FoodEvent `json:"foods" yaml:"foods"`
}
