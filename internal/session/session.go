// ABOUTME: Session holds the current participant selection, filter, and loaded dataset.
// ABOUTME: A generation counter makes the newest load authoritative; stale loads never commit.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/glucoscope/internal/aggregate"
	"github.com/harperreed/glucoscope/internal/correlate"
	"github.com/harperreed/glucoscope/internal/diagnosis"
	"github.com/harperreed/glucoscope/internal/log"
	"github.com/harperreed/glucoscope/internal/models"
	"github.com/harperreed/glucoscope/internal/parse"
	"github.com/harperreed/glucoscope/internal/source"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoData is returned by operations that need a loaded participant.
	ErrNoData = errors.New("no participant loaded")
	// ErrStaleLoad is returned by a load that a newer load superseded.
	ErrStaleLoad = errors.New("load superseded by a newer request")
)

// DefaultFilter is the filter a new session starts with.
var DefaultFilter = correlate.Filter{Macro: models.MacroCalories, Threshold: 0, Enabled: false}

// Session holds the selected participant, axis, filter, and loaded data.
// It is safe for concurrent use.
type Session struct {
	src source.Source
	loc *time.Location

	mu          sync.Mutex
	generation  uint64
	cancel      context.CancelFunc
	participant string
	axis        models.Axis
	filter      correlate.Filter
	current     *Dataset

	now func() time.Time
}

// New creates a session reading from src. Timestamps are parsed in loc;
// nil means the local zone.
func New(src source.Source, loc *time.Location) *Session {
	if loc == nil {
		loc = time.Local
	}
	return &Session{
		src:    src,
		loc:    loc,
		axis:   models.AxisGlucose,
		filter: DefaultFilter,
		now:    time.Now,
	}
}

// Dataset is everything derived from one participant load.
type Dataset struct {
	LoadID            uuid.UUID                       `json:"load_id" yaml:"load_id"`
	Participant       string                          `json:"participant" yaml:"participant"`
	Generation        uint64                          `json:"generation" yaml:"generation"`
	LoadedAt          time.Time                       `json:"loaded_at" yaml:"loaded_at"`
	Glucose           []models.GlucoseSample          `json:"glucose" yaml:"glucose"`
	FoodGroups        []models.FoodGroup              `json:"food_groups" yaml:"food_groups"`
	HeartRateAverages []models.HeartRateMinuteAverage `json:"heart_rate_averages" yaml:"heart_rate_averages"`
	RestingHeartRate  *float64                        `json:"resting_heart_rate" yaml:"resting_heart_rate"`
	ParseReport       parse.Report                    `json:"parse_report" yaml:"parse_report"`
}

// Point is one plotted value on the selected axis.
type Point struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Value     *float64  `json:"value" yaml:"value"`
}

// Series returns the points plotted for an axis.
func (d *Dataset) Series(axis models.Axis) []Point {
	if axis == models.AxisHeartRate {
		out := make([]Point, len(d.HeartRateAverages))
		for i, h := range d.HeartRateAverages {
			out[i] = Point{Timestamp: h.Timestamp, Value: h.AvgHeartRate}
		}
		return out
	}
	out := make([]Point, len(d.Glucose))
	for i, g := range d.Glucose {
		out[i] = Point{Timestamp: g.Timestamp, Value: g.Glucose}
	}
	return out
}

// Extent returns the time domain of the axis series.
func (d *Dataset) Extent(axis models.Axis) (first, last time.Time, ok bool) {
	series := d.Series(axis)
	times := make([]time.Time, len(series))
	for i, p := range series {
		times[i] = p.Timestamp
	}
	return aggregate.TimeExtent(times)
}

// LoadParticipant reads, parses, and aggregates one participant's files.
//
// Starting a load cancels any load still in flight. Only the newest load
// commits; an older one returns ErrStaleLoad. On I/O failure the previous
// dataset stays in place.
func (s *Session) LoadParticipant(ctx context.Context, participant string) (*Dataset, error) {
	participant = strings.TrimSpace(participant)
	if participant == "" {
		return nil, fmt.Errorf("participant id is required")
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	if s.cancel != nil {
		s.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	log.Debugw("loading participant", "participant", participant, "generation", gen)

	ds, err := s.build(loadCtx, participant, gen)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		log.Debugw("discarding stale load", "participant", participant, "generation", gen, "latest", s.generation)
		return nil, fmt.Errorf("%w: participant %s (generation %d, latest %d)", ErrStaleLoad, participant, gen, s.generation)
	}
	s.cancel = nil

	if err != nil {
		log.Warnw("participant load failed", "participant", participant, "error", err)
		return nil, fmt.Errorf("load participant %s: %w", participant, err)
	}

	if !ds.ParseReport.Clean() {
		log.Warnw("participant data had unparseable cells",
			"participant", participant,
			"bad_timestamps", ds.ParseReport.BadTimestamps,
			"bad_numbers", ds.ParseReport.BadNumbers)
	}

	s.current = ds
	s.participant = participant
	log.Infow("participant loaded",
		"participant", participant,
		"load_id", ds.LoadID,
		"glucose", len(ds.Glucose),
		"meals", len(ds.FoodGroups),
		"hr_minutes", len(ds.HeartRateAverages))
	return ds, nil
}

func (s *Session) build(ctx context.Context, participant string, gen uint64) (*Dataset, error) {
	var glucoseRows, foodRows, hrRows []source.Row

	g, gctx := errgroup.WithContext(ctx)
	read := func(ds source.Dataset, dst *[]source.Row) {
		g.Go(func() error {
			rows, err := s.src.Rows(gctx, ds, participant)
			if err != nil {
				return fmt.Errorf("read %s: %w", ds.FileName(participant), err)
			}
			*dst = rows
			return nil
		})
	}
	read(source.DatasetGlucose, &glucoseRows)
	read(source.DatasetFoodLog, &foodRows)
	read(source.DatasetHeartRate, &hrRows)

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var report parse.Report
	glucose, r := parse.Glucose(glucoseRows, s.loc)
	report.Add(r)
	events, r := parse.FoodEvents(foodRows, s.loc)
	report.Add(r)
	hr, r := parse.HeartRate(hrRows, s.loc)
	report.Add(r)

	return &Dataset{
		LoadID:            uuid.New(),
		Participant:       participant,
		Generation:        gen,
		LoadedAt:          s.now(),
		Glucose:           glucose,
		FoodGroups:        aggregate.FoodGroups(events),
		HeartRateAverages: aggregate.HeartRateByMinute(hr),
		RestingHeartRate:  aggregate.RestingHeartRate(hr),
		ParseReport:       report,
	}, nil
}

// Current returns the last committed dataset.
func (s *Session) Current() (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNoData
	}
	return s.current, nil
}

// Participant returns the currently selected participant, or "".
func (s *Session) Participant() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.participant
}

// Axis returns the selected y-axis.
func (s *Session) Axis() models.Axis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.axis
}

// SetAxis selects the y-axis series.
func (s *Session) SetAxis(axis models.Axis) error {
	if axis != models.AxisGlucose && axis != models.AxisHeartRate {
		return fmt.Errorf("unknown axis: %q", axis)
	}
	s.mu.Lock()
	s.axis = axis
	s.mu.Unlock()
	return nil
}

// Filter returns the current filter settings.
func (s *Session) Filter() correlate.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetFilter validates and stores new filter settings.
func (s *Session) SetFilter(f correlate.Filter) error {
	if !models.IsValidMacro(string(f.Macro)) {
		return fmt.Errorf("unknown macro: %q", f.Macro)
	}
	if math.IsNaN(f.Threshold) || math.IsInf(f.Threshold, 0) {
		return fmt.Errorf("threshold must be a finite number")
	}
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
	return nil
}

// ApplyFilter classifies the current dataset's glucose series against the
// current filter. It is a pure recomputation and never touches the source.
// The dataset returned is the one the result was computed from.
func (s *Session) ApplyFilter() (*correlate.Result, *Dataset, error) {
	s.mu.Lock()
	ds, f := s.current, s.filter
	s.mu.Unlock()

	if ds == nil {
		return nil, nil, ErrNoData
	}
	res := correlate.Apply(ds.Glucose, ds.FoodGroups, f)
	return &res, ds, nil
}

// ApplyFilter is the stateless form of Session.ApplyFilter.
func ApplyFilter(samples []models.GlucoseSample, groups []models.FoodGroup, macro models.Macro, threshold float64, enabled bool) []models.AnnotatedGlucoseSample {
	return correlate.Apply(samples, groups, correlate.Filter{Macro: macro, Threshold: threshold, Enabled: enabled}).Samples
}

// Diagnose classifies a participant from the demographics table.
func (s *Session) Diagnose(ctx context.Context, participant string) (*models.DiagnosisResult, error) {
	rows, err := s.src.Rows(ctx, source.DatasetDemographics, "")
	if err != nil {
		log.Warnw("demographics read failed", "error", err)
		return nil, fmt.Errorf("read demographics: %w", err)
	}
	demographics, _ := parse.Demographics(rows)
	return diagnosis.Lookup(demographics, participant)
}

// Countries ranks the global prevalence table.
func (s *Session) Countries(ctx context.Context, opts aggregate.RankOptions) ([]models.CountryStat, error) {
	rows, err := s.src.Rows(ctx, source.DatasetGlobalStats, "")
	if err != nil {
		log.Warnw("global stats read failed", "error", err)
		return nil, fmt.Errorf("read global stats: %w", err)
	}
	stats, _ := parse.Countries(rows)
	return aggregate.RankCountries(stats, opts), nil
}

// State is a point-in-time view of the session for presentation.
type State struct {
	Participant      string            `json:"participant,omitempty" yaml:"participant,omitempty"`
	Axis             models.Axis       `json:"axis" yaml:"axis"`
	Filter           correlate.Filter  `json:"filter" yaml:"filter"`
	Loaded           bool              `json:"loaded" yaml:"loaded"`
	LoadID           string            `json:"load_id,omitempty" yaml:"load_id,omitempty"`
	Generation       uint64            `json:"generation" yaml:"generation"`
	LoadedAt         *time.Time        `json:"loaded_at,omitempty" yaml:"loaded_at,omitempty"`
	GlucoseSamples   int               `json:"glucose_samples" yaml:"glucose_samples"`
	Meals            int               `json:"meals" yaml:"meals"`
	HeartRateMinutes int               `json:"heart_rate_minutes" yaml:"heart_rate_minutes"`
	RestingHeartRate *float64          `json:"resting_heart_rate,omitempty" yaml:"resting_heart_rate,omitempty"`
	Highlights       *correlate.Counts `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// Snapshot returns the current state, including highlight counts for the
// current filter when data is loaded.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	st := State{
		Participant: s.participant,
		Axis:        s.axis,
		Filter:      s.filter,
		Generation:  s.generation,
	}
	ds := s.current
	s.mu.Unlock()

	if ds == nil {
		return st
	}
	loadedAt := ds.LoadedAt
	st.Loaded = true
	st.LoadID = ds.LoadID.String()
	st.LoadedAt = &loadedAt
	st.GlucoseSamples = len(ds.Glucose)
	st.Meals = len(ds.FoodGroups)
	st.HeartRateMinutes = len(ds.HeartRateAverages)
	st.RestingHeartRate = ds.RestingHeartRate

	counts := correlate.Summary(correlate.Apply(ds.Glucose, ds.FoodGroups, st.Filter))
	st.Highlights = &counts
	return st
}
