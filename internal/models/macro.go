// ABOUTME: Macro enum for the six nutrient dimensions tracked in food logs.
// ABOUTME: Defines units, validation, and parsing of macro names.
package models

import (
	"fmt"
	"strings"
)

// Macro names one of the macro-nutrient fields of a food log entry.
type Macro string

const (
	MacroCalories     Macro = "calories"
	MacroSugar        Macro = "sugar"
	MacroDietaryFiber Macro = "dietary_fiber"
	MacroTotalFat     Macro = "total_fat"
	MacroProtein      Macro = "protein"
	MacroTotalCarb    Macro = "total_carb"
)

// AllMacros lists every macro in display order.
var AllMacros = []Macro{
	MacroCalories, MacroSugar, MacroDietaryFiber,
	MacroTotalFat, MacroProtein, MacroTotalCarb,
}

// MacroUnits maps macros to their display units.
var MacroUnits = map[Macro]string{
	MacroCalories:     "kcal",
	MacroSugar:        "g",
	MacroDietaryFiber: "g",
	MacroTotalFat:     "g",
	MacroProtein:      "g",
	MacroTotalCarb:    "g",
}

// IsValidMacro checks if a string is a valid macro name.
func IsValidMacro(s string) bool {
	for _, m := range AllMacros {
		if string(m) == s {
			return true
		}
	}
	return false
}

// ParseMacro resolves a macro name. The food log column spelling "calorie"
// is accepted as an alias for calories.
func ParseMacro(s string) (Macro, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "calorie" {
		return MacroCalories, nil
	}
	if !IsValidMacro(name) {
		return "", fmt.Errorf("unknown macro: %q (valid: calories, sugar, dietary_fiber, total_fat, protein, total_carb)", s)
	}
	return Macro(name), nil
}
