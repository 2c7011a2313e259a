// ABOUTME: Cross-filter linking meals to glucose samples.
// ABOUTME: Classifies each sample as active, inactive, or peak around passing meals.
package correlate

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/harperreed/glucoscope/internal/aggregate"
	"github.com/harperreed/glucoscope/internal/models"
)

// Window is the half-width of the "near a meal" interval. Nearness is
// strict: a sample exactly Window away is not near.
const Window = 2 * time.Hour

// Filter selects meals whose combined Macro value is at least Threshold.
type Filter struct {
	Macro     models.Macro `json:"macro" yaml:"macro"`
	Threshold float64      `json:"threshold" yaml:"threshold"`
	Enabled   bool         `json:"enabled" yaml:"enabled"`
}

// Result is the annotated glucose series and the meals used to build it.
type Result struct {
	Samples []models.AnnotatedGlucoseSample
	// Groups is the full meal series when filtering is off, otherwise
	// exactly the passing meals.
	Groups []models.FoodGroup
	// MaxMacro is the largest passing value; nil when nothing passed or
	// filtering is off.
	MaxMacro *float64
}

// Passing returns the meals meeting the filter threshold, in input order.
func Passing(groups []models.FoodGroup, f Filter) []models.FoodGroup {
	passing := make([]models.FoodGroup, 0, len(groups))
	for _, g := range groups {
		if g.CombinedStats.Get(f.Macro) >= f.Threshold {
			passing = append(passing, g)
		}
	}
	return passing
}

// Apply classifies every glucose sample against the filter.
//
// Disabled filters and filters nothing passes leave every sample active;
// earlier classifications are never carried over. An empty glucose series
// yields an empty result.
func Apply(samples []models.GlucoseSample, groups []models.FoodGroup, f Filter) Result {
	res := Result{Samples: make([]models.AnnotatedGlucoseSample, len(samples))}
	for i, s := range samples {
		res.Samples[i] = models.AnnotatedGlucoseSample{GlucoseSample: s, Highlight: models.HighlightActive}
	}

	if !f.Enabled {
		res.Groups = groups
		return res
	}

	passing := Passing(groups, f)
	res.Groups = passing
	if len(passing) == 0 || len(samples) == 0 {
		return res
	}

	res.MaxMacro = aggregate.MaxMacro(passing, f.Macro)

	// Several meals can share an instant under different raw keys.
	all := mapset.NewThreadUnsafeSet[int64]()
	peak := mapset.NewThreadUnsafeSet[int64]()
	for _, g := range passing {
		if g.Start.IsZero() {
			continue
		}
		ms := g.Start.UnixMilli()
		all.Add(ms)
		if g.CombinedStats.Get(f.Macro) == *res.MaxMacro {
			peak.Add(ms)
		}
	}
	starts := all.ToSlice()
	peaks := peak.ToSlice()

	for i := range res.Samples {
		res.Samples[i].Highlight = classify(res.Samples[i].Timestamp, starts, peaks)
	}
	return res
}

// classify returns the highlight for one sample timestamp.
func classify(ts time.Time, starts, peaks []int64) models.Highlight {
	if ts.IsZero() {
		return models.HighlightInactive
	}
	ms := ts.UnixMilli()
	if nearAny(ms, peaks) {
		return models.HighlightPeak
	}
	if nearAny(ms, starts) {
		return models.HighlightActive
	}
	return models.HighlightInactive
}

func nearAny(ms int64, starts []int64) bool {
	window := Window.Milliseconds()
	for _, s := range starts {
		d := ms - s
		if d < 0 {
			d = -d
		}
		if d < window {
			return true
		}
	}
	return false
}

// Counts tallies samples per highlight state.
type Counts struct {
	Active   int `json:"active" yaml:"active"`
	Inactive int `json:"inactive" yaml:"inactive"`
	Peak     int `json:"peak" yaml:"peak"`
}

// Summary counts the highlight states of a result.
func Summary(r Result) Counts {
	var c Counts
	for _, s := range r.Samples {
		switch s.Highlight {
		case models.HighlightActive:
			c.Active++
		case models.HighlightInactive:
			c.Inactive++
		case models.HighlightPeak:
			c.Peak++
		}
	}
	return c
}
