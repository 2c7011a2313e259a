// ABOUTME: Tests for food models and the Macro enum.
// ABOUTME: Validates macro parsing, lookups, and totals accessors.
package models

import (
	"testing"
)

func f64(v float64) *float64 { return &v }

func TestParseMacro(t *testing.T) {
	tests := []struct {
		input   string
		want    Macro
		wantErr bool
	}{
		{"sugar", MacroSugar, false},
		{"calorie", MacroCalories, false},
		{" Total_Carb ", MacroTotalCarb, false},
		{"dietary_fiber", MacroDietaryFiber, false},
		{"salt", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMacro(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseMacro(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMacro(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMacro(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestAllMacrosHaveUnits(t *testing.T) {
	for _, m := range AllMacros {
		if _, ok := MacroUnits[m]; !ok {
			t.Errorf("Macro %s has no unit defined", m)
		}
	}
}

func TestFoodEventLookup(t *testing.T) {
	f := FoodEvent{Sugar: f64(12.5)}

	if v, ok := f.Lookup(MacroSugar); !ok || v != 12.5 {
		t.Errorf("Lookup(sugar) = %v, %v; want 12.5, true", v, ok)
	}
	if v, ok := f.Lookup(MacroProtein); ok || v != 0 {
		t.Errorf("Lookup(protein) = %v, %v; want 0, false", v, ok)
	}
	if got := f.Value(MacroProtein); got != 0 {
		t.Errorf("Value(protein) = %v, want 0", got)
	}
}

func TestMacroTotalsGetSet(t *testing.T) {
	var totals MacroTotals
	for i, m := range AllMacros {
		totals.Set(m, float64(i+1))
	}
	for i, m := range AllMacros {
		if got := totals.Get(m); got != float64(i+1) {
			t.Errorf("Get(%s) = %v, want %v", m, got, float64(i+1))
		}
	}
	if got := totals.Get(Macro("bogus")); got != 0 {
		t.Errorf("Get(bogus) = %v, want 0", got)
	}
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		input string
		want  Axis
		ok    bool
	}{
		{"glucose", AxisGlucose, true},
		{"Dexcom", AxisGlucose, true},
		{"", AxisGlucose, true},
		{"hr", AxisHeartRate, true},
		{"heart_rate", AxisHeartRate, true},
		{"steps", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseAxis(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseAxis(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
