// ABOUTME: Cell-level helpers shared by the dataset parsers.
// ABOUTME: Timestamp layouts, numeric coercion, and the parse Report.
package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order when parsing a timestamp cell.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02",
}

// Report counts cells that could not be parsed. Bad cells never fail a
// parse: timestamps become the zero time and numbers become nil.
type Report struct {
	Rows           int `json:"rows" yaml:"rows"`
	BadTimestamps  int `json:"bad_timestamps" yaml:"bad_timestamps"`
	BadNumbers     int `json:"bad_numbers" yaml:"bad_numbers"`
	MissingNumbers int `json:"missing_numbers" yaml:"missing_numbers"`
}

// Add accumulates another report into r.
func (r *Report) Add(o Report) {
	r.Rows += o.Rows
	r.BadTimestamps += o.BadTimestamps
	r.BadNumbers += o.BadNumbers
	r.MissingNumbers += o.MissingNumbers
}

// Clean reports whether every cell parsed.
func (r Report) Clean() bool {
	return r.BadTimestamps == 0 && r.BadNumbers == 0
}

// Time parses a timestamp cell in loc. Layouts carrying their own offset
// ignore loc.
func Time(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Number parses a numeric cell. Empty cells return (nil, nil); cells that
// are not finite numbers, including "NaN" and "Inf", return (nil, err).
func Number(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("not a finite number: %q", s)
	}
	return &v, nil
}

// timeCell parses a timestamp and records failures in r.
func (r *Report) timeCell(s string, loc *time.Location) time.Time {
	t, err := Time(s, loc)
	if err != nil {
		r.BadTimestamps++
		return time.Time{}
	}
	return t
}

// numberCell parses a number and records missing or bad cells in r.
func (r *Report) numberCell(s string) *float64 {
	v, err := Number(s)
	if err != nil {
		r.BadNumbers++
		return nil
	}
	if v == nil {
		r.MissingNumbers++
	}
	return v
}
