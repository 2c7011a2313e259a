// ABOUTME: Glucose sample model and the highlight classification attached by filtering.
// ABOUTME: Canonical samples are immutable; highlights live on annotated copies.
package models

import "time"

// GlucoseSample is one continuous glucose monitor reading in mg/dL.
// A zero Timestamp means the source timestamp could not be parsed.
type GlucoseSample struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Glucose   *float64  `json:"glucose" yaml:"glucose"`
}

// Highlight is the filter classification of a glucose sample.
type Highlight string

const (
	// HighlightActive marks a sample near a passing meal, or any sample when
	// filtering is off or nothing passes.
	HighlightActive Highlight = "active"
	// HighlightInactive marks a sample with no passing meal inside the window.
	HighlightInactive Highlight = "inactive"
	// HighlightPeak marks a sample near the meal with the largest passing value.
	HighlightPeak Highlight = "peak"
)

// AllHighlights lists highlight states in display order.
var AllHighlights = []Highlight{HighlightActive, HighlightPeak, HighlightInactive}

// AnnotatedGlucoseSample pairs a sample with its derived classification.
type AnnotatedGlucoseSample struct {
	GlucoseSample `yaml:",inline"`
	Highlight     Highlight `json:"highlight" yaml:"highlight"`
}

// HasValue reports whether the sample carries a numeric reading.
func (g GlucoseSample) HasValue() bool {
	return g.Glucose != nil
}
