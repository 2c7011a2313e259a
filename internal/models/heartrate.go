// ABOUTME: Heart-rate sample and per-minute average models.
// ABOUTME: Raw samples only reach presentation through aggregation.
package models

import "time"

// HeartRateSample is one raw heart-rate reading in bpm.
type HeartRateSample struct {
	Timestamp time.Time
	HeartRate *float64
}

// HeartRateMinuteAverage is the mean heart rate of one calendar minute.
// AvgHeartRate is nil when no sample in the minute had a numeric value.
type HeartRateMinuteAverage struct {
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	AvgHeartRate *float64  `json:"avg_heart_rate" yaml:"avg_heart_rate"`
	Samples      int       `json:"samples" yaml:"samples"`
}
