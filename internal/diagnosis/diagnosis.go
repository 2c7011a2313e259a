// ABOUTME: Prediabetes classification from the HbA1c lab value.
// ABOUTME: Looks a participant up in the demographics table and applies the threshold.
package diagnosis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/harperreed/glucoscope/internal/models"
)

// PrediabeticHbA1c is the lowest HbA1c (percent) classified as prediabetic.
const PrediabeticHbA1c = 5.7

var (
	// ErrParticipantNotFound is returned when no demographics row matches.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrMissingHbA1c is returned when the matching row has no usable HbA1c.
	ErrMissingHbA1c = errors.New("missing HbA1c value")
)

// Classify applies the HbA1c threshold. Values equal to the threshold are
// prediabetic.
func Classify(hba1c float64) models.Diagnosis {
	if hba1c >= PrediabeticHbA1c {
		return models.DiagnosisPrediabetic
	}
	return models.DiagnosisNormal
}

// Find returns the demographics row for a participant. An exact ID match
// wins; otherwise IDs are compared as integers so "001" finds "1".
func Find(rows []models.Demographic, participantID string) (models.Demographic, error) {
	id := strings.TrimSpace(participantID)
	if id == "" {
		return models.Demographic{}, fmt.Errorf("%w: empty id", ErrParticipantNotFound)
	}

	for _, d := range rows {
		if d.ID == id {
			return d, nil
		}
	}

	want, err := strconv.Atoi(id)
	if err == nil {
		for _, d := range rows {
			if got, err := strconv.Atoi(d.ID); err == nil && got == want {
				return d, nil
			}
		}
	}

	return models.Demographic{}, fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
}

// Lookup finds the participant and classifies their HbA1c.
func Lookup(rows []models.Demographic, participantID string) (*models.DiagnosisResult, error) {
	d, err := Find(rows, participantID)
	if err != nil {
		return nil, err
	}
	if d.HbA1c == nil || math.IsNaN(*d.HbA1c) {
		return nil, fmt.Errorf("%w: participant %s", ErrMissingHbA1c, d.ID)
	}

	return &models.DiagnosisResult{
		ParticipantID: d.ID,
		HbA1c:         *d.HbA1c,
		Diagnosis:     Classify(*d.HbA1c),
	}, nil
}
