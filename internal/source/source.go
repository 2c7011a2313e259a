// ABOUTME: Source interface for reading raw CSV-shaped rows per dataset.
// ABOUTME: Defines dataset names, file naming, and the not-found sentinel.
package source

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a dataset has no rows for a participant.
var ErrNotFound = errors.New("not found")

// Row maps a column header to its raw cell text.
type Row map[string]string

// Dataset identifies one category of input file.
type Dataset string

const (
	DatasetGlucose      Dataset = "Dexcom"
	DatasetFoodLog      Dataset = "Food_Log"
	DatasetHeartRate    Dataset = "HR"
	DatasetDemographics Dataset = "Demographics"
	DatasetGlobalStats  Dataset = "global_stats"
)

// ParticipantDatasets are the files loaded for every participant.
var ParticipantDatasets = []Dataset{DatasetGlucose, DatasetFoodLog, DatasetHeartRate}

// SharedDatasets are the files shared by all participants.
var SharedDatasets = []Dataset{DatasetDemographics, DatasetGlobalStats}

// PerParticipant reports whether the dataset has one file per participant.
func (d Dataset) PerParticipant() bool {
	switch d {
	case DatasetGlucose, DatasetFoodLog, DatasetHeartRate:
		return true
	}
	return false
}

// FileName returns the flat-file name holding the dataset.
// Format: Dexcom_<id>.csv, Food_Log_<id>.csv, HR_<id>.csv, Demographics.csv.
func (d Dataset) FileName(participant string) string {
	if d.PerParticipant() {
		return fmt.Sprintf("%s_%s.csv", d, participant)
	}
	return string(d) + ".csv"
}

// Source defines read access to raw dataset rows.
// This interface allows swapping the flat-file directory for SQLite.
type Source interface {
	// Rows returns the dataset rows in file order. The participant is
	// ignored for shared datasets.
	Rows(ctx context.Context, dataset Dataset, participant string) ([]Row, error)

	// Close releases resources.
	Close() error
}
