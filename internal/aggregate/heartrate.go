// ABOUTME: Heart-rate aggregation: per-minute averages and resting heart rate.
// ABOUTME: Minute keys are parsed instants truncated to the minute, in first-seen order.
package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/harperreed/glucoscope/internal/models"
	"gonum.org/v1/gonum/stat"
)

// RestingPercent is the share of the lowest readings averaged for the
// resting heart rate.
const RestingPercent = 15

// HeartRateByMinute groups samples by minute and averages each group.
// Output order follows the first appearance of each minute. Samples with a
// zero timestamp are dropped. A minute whose samples are all missing gets a
// nil average.
func HeartRateByMinute(samples []models.HeartRateSample) []models.HeartRateMinuteAverage {
	type bucket struct {
		minute time.Time
		values []float64
		count  int
	}

	index := make(map[int64]int)
	var buckets []*bucket

	for _, s := range samples {
		if s.Timestamp.IsZero() {
			continue
		}
		minute := s.Timestamp.Truncate(time.Minute)
		key := minute.Unix()

		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, &bucket{minute: minute})
		}
		b := buckets[i]
		b.count++
		if s.HeartRate != nil && !math.IsNaN(*s.HeartRate) {
			b.values = append(b.values, *s.HeartRate)
		}
	}

	out := make([]models.HeartRateMinuteAverage, 0, len(buckets))
	for _, b := range buckets {
		avg := models.HeartRateMinuteAverage{Timestamp: b.minute, Samples: b.count}
		if len(b.values) > 0 {
			mean := stat.Mean(b.values, nil)
			avg.AvgHeartRate = &mean
		}
		out = append(out, avg)
	}
	return out
}

// RestingHeartRate returns the mean of the lowest ceil(15%) of the valid
// heart-rate readings, or nil when there are none.
func RestingHeartRate(samples []models.HeartRateSample) *float64 {
	values := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.HeartRate != nil && !math.IsNaN(*s.HeartRate) {
			values = append(values, *s.HeartRate)
		}
	}
	return RestingHeartRateOf(values)
}

// RestingHeartRateOf applies the resting rule to raw values.
func RestingHeartRateOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	// ceil(15% of N) in integer arithmetic
	n := (RestingPercent*len(sorted) + 99) / 100
	mean := stat.Mean(sorted[:n], nil)
	return &mean
}
