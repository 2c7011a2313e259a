// ABOUTME: Demographic, diagnosis, and country prevalence models.
// ABOUTME: Covers the participant lab lookup and the global-context dataset.
package models

// Diagnosis is the prediabetes classification derived from HbA1c.
type Diagnosis string

const (
	DiagnosisPrediabetic Diagnosis = "Prediabetic"
	DiagnosisNormal      Diagnosis = "Normal"
)

// Demographic is one row of the participant demographics table.
type Demographic struct {
	ID     string
	HbA1c  *float64
	Gender string
}

// DiagnosisResult is the classification for a single participant.
type DiagnosisResult struct {
	ParticipantID string    `json:"participant_id" yaml:"participant_id"`
	HbA1c         float64   `json:"hba1c" yaml:"hba1c"`
	Diagnosis     Diagnosis `json:"diagnosis" yaml:"diagnosis"`
}

// CountryStat is the 2021 diabetes prevalence for one country or region.
type CountryStat struct {
	Name       string   `json:"name" yaml:"name"`
	Code       string   `json:"code" yaml:"code"`
	Prevalence *float64 `json:"prevalence" yaml:"prevalence"`
}

// Axis selects which series is plotted on the y-axis.
type Axis string

const (
	AxisGlucose   Axis = "glucose"
	AxisHeartRate Axis = "heart_rate"
)

// ParseAxis resolves an axis name. "dexcom" and "hr" are accepted as the
// dataset file prefixes.
func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "glucose", "dexcom", "Dexcom", "":
		return AxisGlucose, true
	case "heart_rate", "hr", "HR":
		return AxisHeartRate, true
	}
	return "", false
}
