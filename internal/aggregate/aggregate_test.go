// ABOUTME: Tests for heart-rate, food, country, and extent aggregation.
// ABOUTME: Covers ordering, sum invariants, the resting rule, and determinism.
package aggregate

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/harperreed/glucoscope/internal/models"
	"github.com/harperreed/glucoscope/internal/parse"
	"github.com/harperreed/glucoscope/internal/source"
)

func f64(v float64) *float64 { return &v }

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func hrSamples(values ...float64) []models.HeartRateSample {
	out := make([]models.HeartRateSample, len(values))
	base := at("2020-02-13 15:00:00")
	for i, v := range values {
		out[i] = models.HeartRateSample{Timestamp: base.Add(time.Duration(i) * time.Second), HeartRate: f64(v)}
	}
	return out
}

func TestRestingHeartRate(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   *float64
	}{
		{name: "empty", values: nil, want: nil},
		{name: "single", values: []float64{72}, want: f64(72)},
		{
			name:   "ten values takes two lowest",
			values: []float64{140, 50, 130, 60, 120, 70, 110, 80, 100, 90},
			want:   f64(55),
		},
		{
			name:   "twenty values takes three lowest",
			values: []float64{61, 62, 63, 64, 65, 66, 67, 68, 69, 70, 71, 72, 73, 74, 75, 76, 77, 78, 79, 80},
			want:   f64(62),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RestingHeartRate(hrSamples(tt.values...))
			if tt.want == nil {
				if got != nil {
					t.Errorf("RestingHeartRate = %v, want nil", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("RestingHeartRate = nil, want %v", *tt.want)
			}
			if math.Abs(*got-*tt.want) > 1e-9 {
				t.Errorf("RestingHeartRate = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestRestingHeartRateSkipsMissing(t *testing.T) {
	samples := hrSamples(80, 90)
	samples = append(samples, models.HeartRateSample{Timestamp: at("2020-02-13 15:00:05")})

	got := RestingHeartRate(samples)
	if got == nil || *got != 80 {
		t.Errorf("RestingHeartRate = %v, want 80", got)
	}
}

func TestHeartRateByMinute(t *testing.T) {
	samples := []models.HeartRateSample{
		{Timestamp: at("2020-02-13 15:29:10"), HeartRate: f64(80)},
		{Timestamp: at("2020-02-13 15:28:50"), HeartRate: f64(70)},
		{Timestamp: at("2020-02-13 15:29:40"), HeartRate: f64(90)},
		{Timestamp: at("2020-02-13 15:28:59"), HeartRate: f64(74)},
		{Timestamp: at("2020-02-13 15:30:00")},
		{Timestamp: time.Time{}, HeartRate: f64(200)},
	}

	got := HeartRateByMinute(samples)

	if len(got) != 3 {
		t.Fatalf("expected 3 minutes, got %d", len(got))
	}
	// First-seen order, not chronological order
	wantMinutes := []time.Time{at("2020-02-13 15:29:00"), at("2020-02-13 15:28:00"), at("2020-02-13 15:30:00")}
	for i, w := range wantMinutes {
		if !got[i].Timestamp.Equal(w) {
			t.Errorf("minute %d = %v, want %v", i, got[i].Timestamp, w)
		}
	}
	if got[0].AvgHeartRate == nil || *got[0].AvgHeartRate != 85 {
		t.Errorf("minute 0 avg = %v, want 85", got[0].AvgHeartRate)
	}
	if got[1].AvgHeartRate == nil || *got[1].AvgHeartRate != 72 {
		t.Errorf("minute 1 avg = %v, want 72", got[1].AvgHeartRate)
	}
	if got[2].AvgHeartRate != nil {
		t.Errorf("minute with no valid values should have nil average, got %v", *got[2].AvgHeartRate)
	}
	if got[0].Samples != 2 || got[2].Samples != 1 {
		t.Errorf("sample counts = %d, %d; want 2, 1", got[0].Samples, got[2].Samples)
	}
}

func foodEvent(start string, food string, cal, sugar *float64) models.FoodEvent {
	return models.FoodEvent{Start: at(start), StartRaw: start, Food: food, Calories: cal, Sugar: sugar}
}

func TestFoodGroups(t *testing.T) {
	events := []models.FoodEvent{
		foodEvent("2020-02-13 18:00:00", "Rice", f64(200), f64(1)),
		foodEvent("2020-02-13 08:00:00", "Coffee", f64(5), nil),
		foodEvent("2020-02-13 18:00:00", "Chicken", f64(250), nil),
		foodEvent("2020-02-13 08:00:00", "Donut", f64(300), f64(20.5)),
		foodEvent("2020-02-13 12:00:00", "Apple", nil, f64(19)),
	}

	groups := FoodGroups(events)

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	wantKeys := []string{"2020-02-13 18:00:00", "2020-02-13 08:00:00", "2020-02-13 12:00:00"}
	for i, k := range wantKeys {
		if groups[i].Key != k {
			t.Errorf("group %d key = %q, want %q", i, groups[i].Key, k)
		}
	}
	if len(groups[0].Foods) != 2 || groups[0].Foods[0].Food != "Rice" || groups[0].Foods[1].Food != "Chicken" {
		t.Errorf("group 0 foods out of order: %+v", groups[0].Foods)
	}

	// combined_stats equals the sum over foods for every macro
	for _, g := range groups {
		for _, m := range models.AllMacros {
			var sum float64
			for _, f := range g.Foods {
				sum += f.Value(m)
			}
			if math.Abs(g.CombinedStats.Get(m)-sum) > 1e-9 {
				t.Errorf("group %s %s = %v, want %v", g.Key, m, g.CombinedStats.Get(m), sum)
			}
		}
	}
	if groups[1].CombinedStats.Sugar != 20.5 {
		t.Errorf("breakfast sugar = %v, want 20.5", groups[1].CombinedStats.Sugar)
	}
	if groups[2].CombinedStats.Calories != 0 {
		t.Errorf("missing calories should sum as 0, got %v", groups[2].CombinedStats.Calories)
	}
}

func TestFoodGroupsKeyIsRawText(t *testing.T) {
	// Same instant written two ways stays two meals
	events := []models.FoodEvent{
		foodEvent("2020-02-13 18:00:00", "A", f64(1), nil),
		{Start: at("2020-02-13 18:00:00"), StartRaw: "2020-02-13 18:00", Food: "B"},
	}
	if got := len(FoodGroups(events)); got != 2 {
		t.Errorf("expected 2 groups for differing raw keys, got %d", got)
	}
}

func TestMaxMacroAndSliderRange(t *testing.T) {
	groups := FoodGroups([]models.FoodEvent{
		foodEvent("2020-02-13 08:00:00", "Donut", f64(300), f64(20)),
		foodEvent("2020-02-13 12:00:00", "Salad", f64(120), f64(4)),
	})

	if got := MaxMacro(groups, models.MacroSugar); got == nil || *got != 20 {
		t.Errorf("MaxMacro(sugar) = %v, want 20", got)
	}
	if got := MaxMacro(nil, models.MacroSugar); got != nil {
		t.Errorf("MaxMacro(nil) = %v, want nil", *got)
	}

	if lo, hi := SliderRange(groups, models.MacroCalories); lo != 0 || hi != 300 {
		t.Errorf("SliderRange(calories) = %v..%v, want 0..300", lo, hi)
	}
	if _, hi := SliderRange(groups, models.MacroProtein); hi != DefaultSliderMax {
		t.Errorf("SliderRange(protein) max = %v, want default %v", hi, DefaultSliderMax)
	}
	if _, hi := SliderRange(nil, models.MacroSugar); hi != DefaultSliderMax {
		t.Errorf("SliderRange(nil) max = %v, want default", hi)
	}
}

func TestRankCountries(t *testing.T) {
	stats := []models.CountryStat{
		{Name: "Aruba", Code: "ABW", Prevalence: f64(11.6)},
		{Name: "World", Code: "WLD", Prevalence: f64(9.8)},
		{Name: "Pakistan", Code: "PAK", Prevalence: f64(30.8)},
		{Name: "Kuwait", Code: "KWT", Prevalence: f64(24.9)},
		{Name: "Unknown", Code: "XXX"},
		{Name: "Austria", Code: "AUT", Prevalence: f64(11.6)},
	}

	tests := []struct {
		name string
		opts RankOptions
		want []string
	}{
		{name: "default", opts: RankOptions{}, want: []string{"PAK", "KWT", "ABW", "AUT"}},
		{name: "top two", opts: RankOptions{Top: 2}, want: []string{"PAK", "KWT"}},
		{name: "with aggregates", opts: RankOptions{IncludeAggregates: true}, want: []string{"PAK", "KWT", "ABW", "AUT", "WLD"}},
		{name: "search name", opts: RankOptions{Search: "ku"}, want: []string{"KWT"}},
		{name: "search code", opts: RankOptions{Search: "aut"}, want: []string{"AUT"}},
		{name: "no match", opts: RankOptions{Search: "atlantis"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RankCountries(stats, tt.opts)
			codes := make([]string, 0, len(got))
			for _, c := range got {
				codes = append(codes, c.Code)
			}
			if !reflect.DeepEqual(codes, tt.want) {
				t.Errorf("RankCountries = %v, want %v", codes, tt.want)
			}
		})
	}
}

func TestIsAggregate(t *testing.T) {
	if !IsAggregate(" wld ") {
		t.Error("WLD should be an aggregate")
	}
	if IsAggregate("USA") {
		t.Error("USA should not be an aggregate")
	}
}

func TestTimeExtent(t *testing.T) {
	times := []time.Time{at("2020-02-13 12:00:00"), {}, at("2020-02-13 08:00:00"), at("2020-02-14 01:00:00")}

	first, last, ok := TimeExtent(times)
	if !ok {
		t.Fatal("expected extent")
	}
	if !first.Equal(at("2020-02-13 08:00:00")) || !last.Equal(at("2020-02-14 01:00:00")) {
		t.Errorf("extent = %v..%v", first, last)
	}

	if _, _, ok := TimeExtent([]time.Time{{}}); ok {
		t.Error("expected no extent for zero times")
	}
}

func TestAggregationIsDeterministic(t *testing.T) {
	foodRows := []source.Row{
		{"time_begin": "2020-02-13 18:00:00", "logged_food": "Rice", "calorie": "200"},
		{"time_begin": "2020-02-13 08:00:00", "logged_food": "Coffee", "calorie": "5"},
		{"time_begin": "2020-02-13 18:00:00", "logged_food": "Chicken", "calorie": "250", "protein": "30"},
	}
	hrRows := []source.Row{
		{"datetime": "2020-02-13 15:28:50.000", "hr": "70"},
		{"datetime": "2020-02-13 15:29:10.000", "hr": "80"},
		{"datetime": "2020-02-13 15:28:55.000", "hr": "72"},
	}

	run := func() ([]models.FoodGroup, []models.HeartRateMinuteAverage) {
		events, _ := parse.FoodEvents(foodRows, time.UTC)
		hr, _ := parse.HeartRate(hrRows, time.UTC)
		return FoodGroups(events), HeartRateByMinute(hr)
	}

	g1, h1 := run()
	g2, h2 := run()
	if !reflect.DeepEqual(g1, g2) {
		t.Error("food groups differ between runs")
	}
	if !reflect.DeepEqual(h1, h2) {
		t.Error("heart-rate averages differ between runs")
	}
}
