// ABOUTME: Time extent of a series, used as the chart x-domain.
package aggregate

import "time"

// TimeExtent returns the earliest and latest non-zero timestamps.
// ok is false when no timestamp is usable.
func TimeExtent(times []time.Time) (first, last time.Time, ok bool) {
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		if !ok || t.Before(first) {
			first = t
		}
		if !ok || t.After(last) {
			last = t
		}
		ok = true
	}
	return first, last, ok
}
