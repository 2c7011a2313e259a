// ABOUTME: MCP tool implementations for participant analysis.
// ABOUTME: Load a participant, filter meals against glucose, diagnose, and rank countries.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/glucoscope/internal/aggregate"
	"github.com/harperreed/glucoscope/internal/correlate"
	"github.com/harperreed/glucoscope/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "load_participant",
		Description: "Load a participant's glucose, food log, and heart-rate files and make them current",
	}, s.handleLoadParticipant)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "apply_filter",
		Description: "Filter meals by a macro threshold and classify glucose samples as active, peak, or inactive within 2 hours of passing meals",
	}, s.handleApplyFilter)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_food_groups",
		Description: "List the current participant's meals with combined macro totals",
	}, s.handleListFoodGroups)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "diagnose",
		Description: "Classify a participant as Prediabetic (HbA1c >= 5.7) or Normal",
	}, s.handleDiagnose)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "rank_countries",
		Description: "Rank countries by 2021 diabetes prevalence",
	}, s.handleRankCountries)
}

// Tool input/output types

type loadParticipantInput struct {
	Participant string `json:"participant" jsonschema:"Participant ID as used in file names, e.g. 001"`
	Axis        string `json:"axis,omitempty" jsonschema:"Y-axis series: glucose (default) or heart_rate"`
}

type loadOutput struct {
	Participant      string   `json:"participant"`
	LoadID           string   `json:"load_id"`
	GlucoseSamples   int      `json:"glucose_samples"`
	Meals            int      `json:"meals"`
	HeartRateMinutes int      `json:"heart_rate_minutes"`
	RestingHeartRate *float64 `json:"resting_heart_rate"`
	Axis             string   `json:"axis"`
	First            string   `json:"first,omitempty"`
	Last             string   `json:"last,omitempty"`
	BadTimestamps    int      `json:"bad_timestamps"`
	BadNumbers       int      `json:"bad_numbers"`
	Message          string   `json:"message"`
}

type applyFilterInput struct {
	Macro          string  `json:"macro" jsonschema:"Macro to filter on: calories, sugar, dietary_fiber, total_fat, protein, total_carb"`
	Threshold      float64 `json:"threshold" jsonschema:"Minimum combined meal value for a meal to pass"`
	Off            bool    `json:"off,omitempty" jsonschema:"Disable filtering so every sample is active"`
	IncludeSamples bool    `json:"include_samples,omitempty" jsonschema:"Return every annotated glucose sample"`
}

type filterOutput struct {
	Macro        string           `json:"macro"`
	Threshold    float64          `json:"threshold"`
	Enabled      bool             `json:"enabled"`
	PassingMeals int              `json:"passing_meals"`
	MaxMacro     *float64         `json:"max_macro"`
	SliderMax    float64          `json:"slider_max"`
	Counts       correlate.Counts `json:"counts"`
	Samples      []sampleOutput   `json:"samples,omitempty"`
	Message      string           `json:"message"`
}

type sampleOutput struct {
	Timestamp string   `json:"timestamp"`
	Glucose   *float64 `json:"glucose"`
	Highlight string   `json:"highlight"`
}

type listFoodGroupsInput struct {
	Macro string  `json:"macro,omitempty" jsonschema:"Only list meals where this macro is at least min_value"`
	Min   float64 `json:"min_value,omitempty" jsonschema:"Minimum combined value for macro"`
	Limit int     `json:"limit,omitempty" jsonschema:"Max results (default 50)"`
}

type mealOutput struct {
	Start  string             `json:"start"`
	Foods  []string           `json:"foods"`
	Totals models.MacroTotals `json:"totals"`
}

type listFoodGroupsOutput struct {
	Participant string       `json:"participant"`
	Total       int          `json:"total"`
	Meals       []mealOutput `json:"meals"`
}

type diagnoseInput struct {
	Participant string `json:"participant" jsonschema:"Participant ID; zero padding is ignored"`
}

type diagnoseOutput struct {
	ParticipantID string  `json:"participant_id"`
	HbA1c         float64 `json:"hba1c"`
	Diagnosis     string  `json:"diagnosis"`
	Message       string  `json:"message"`
}

type rankCountriesInput struct {
	Search            string `json:"search,omitempty" jsonschema:"Case-insensitive country name or code filter"`
	Top               int    `json:"top,omitempty" jsonschema:"Max results (default 10)"`
	IncludeAggregates bool   `json:"include_aggregates,omitempty" jsonschema:"Keep regional and income-group rows"`
}

type rankCountriesOutput struct {
	Countries []models.CountryStat `json:"countries"`
	Message   string               `json:"message"`
}

// Tool handlers

func (s *Server) handleLoadParticipant(ctx context.Context, req *mcp.CallToolRequest, input loadParticipantInput) (*mcp.CallToolResult, loadOutput, error) {
	if input.Axis != "" {
		axis, ok := models.ParseAxis(input.Axis)
		if !ok {
			return nil, loadOutput{}, fmt.Errorf("unknown axis: %s", input.Axis)
		}
		if err := s.sess.SetAxis(axis); err != nil {
			return nil, loadOutput{}, err
		}
	}

	ds, err := s.sess.LoadParticipant(ctx, input.Participant)
	if err != nil {
		return nil, loadOutput{}, fmt.Errorf("failed to load participant: %w", err)
	}

	axis := s.sess.Axis()
	out := loadOutput{
		Participant:      ds.Participant,
		LoadID:           ds.LoadID.String(),
		GlucoseSamples:   len(ds.Glucose),
		Meals:            len(ds.FoodGroups),
		HeartRateMinutes: len(ds.HeartRateAverages),
		RestingHeartRate: ds.RestingHeartRate,
		Axis:             string(axis),
		BadTimestamps:    ds.ParseReport.BadTimestamps,
		BadNumbers:       ds.ParseReport.BadNumbers,
	}
	if first, last, ok := ds.Extent(axis); ok {
		out.First = first.Format(time.RFC3339)
		out.Last = last.Format(time.RFC3339)
	}
	out.Message = fmt.Sprintf("Loaded participant %s: %d glucose samples, %d meals, %d heart-rate minutes",
		ds.Participant, out.GlucoseSamples, out.Meals, out.HeartRateMinutes)

	return nil, out, nil
}

func (s *Server) handleApplyFilter(ctx context.Context, req *mcp.CallToolRequest, input applyFilterInput) (*mcp.CallToolResult, filterOutput, error) {
	macro, err := models.ParseMacro(input.Macro)
	if err != nil {
		return nil, filterOutput{}, err
	}

	f := correlate.Filter{Macro: macro, Threshold: input.Threshold, Enabled: !input.Off}
	if err := s.sess.SetFilter(f); err != nil {
		return nil, filterOutput{}, err
	}

	res, ds, err := s.sess.ApplyFilter()
	if err != nil {
		return nil, filterOutput{}, fmt.Errorf("failed to apply filter: %w", err)
	}
	_, sliderMax := aggregate.SliderRange(ds.FoodGroups, macro)

	out := filterOutput{
		Macro:     string(macro),
		Threshold: f.Threshold,
		Enabled:   f.Enabled,
		MaxMacro:  res.MaxMacro,
		SliderMax: sliderMax,
		Counts:    correlate.Summary(*res),
	}
	if f.Enabled {
		out.PassingMeals = len(res.Groups)
	}
	if input.IncludeSamples {
		out.Samples = make([]sampleOutput, len(res.Samples))
		for i, smp := range res.Samples {
			ts := ""
			if !smp.Timestamp.IsZero() {
				ts = smp.Timestamp.Format(time.RFC3339)
			}
			out.Samples[i] = sampleOutput{Timestamp: ts, Glucose: smp.Glucose, Highlight: string(smp.Highlight)}
		}
	}

	switch {
	case !f.Enabled:
		out.Message = fmt.Sprintf("Filtering off: all %d samples active", out.Counts.Active)
	case out.PassingMeals == 0:
		out.Message = fmt.Sprintf("No meals have %s >= %g; all samples active", macro, f.Threshold)
	default:
		out.Message = fmt.Sprintf("%d meals pass: %d peak, %d active, %d inactive samples",
			out.PassingMeals, out.Counts.Peak, out.Counts.Active, out.Counts.Inactive)
	}

	return nil, out, nil
}

func (s *Server) handleListFoodGroups(ctx context.Context, req *mcp.CallToolRequest, input listFoodGroupsInput) (*mcp.CallToolResult, listFoodGroupsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}

	ds, err := s.sess.Current()
	if err != nil {
		return nil, listFoodGroupsOutput{}, err
	}

	groups := ds.FoodGroups
	if input.Macro != "" {
		macro, err := models.ParseMacro(input.Macro)
		if err != nil {
			return nil, listFoodGroupsOutput{}, err
		}
		groups = correlate.Passing(groups, correlate.Filter{Macro: macro, Threshold: input.Min, Enabled: true})
	}

	out := listFoodGroupsOutput{
		Participant: ds.Participant,
		Total:       len(groups),
		Meals:       make([]mealOutput, 0, min(len(groups), input.Limit)),
	}
	for i, g := range groups {
		if i >= input.Limit {
			break
		}
		m := mealOutput{Start: g.Key, Totals: g.CombinedStats}
		for _, f := range g.Foods {
			m.Foods = append(m.Foods, f.Food)
		}
		out.Meals = append(out.Meals, m)
	}

	return nil, out, nil
}

func (s *Server) handleDiagnose(ctx context.Context, req *mcp.CallToolRequest, input diagnoseInput) (*mcp.CallToolResult, diagnoseOutput, error) {
	id := input.Participant
	if id == "" {
		id = s.sess.Participant()
	}

	res, err := s.sess.Diagnose(ctx, id)
	if err != nil {
		return nil, diagnoseOutput{}, fmt.Errorf("failed to diagnose: %w", err)
	}

	return nil, diagnoseOutput{
		ParticipantID: res.ParticipantID,
		HbA1c:         res.HbA1c,
		Diagnosis:     string(res.Diagnosis),
		Message:       fmt.Sprintf("Participant %s: HbA1c %.2f%% (%s)", res.ParticipantID, res.HbA1c, res.Diagnosis),
	}, nil
}

func (s *Server) handleRankCountries(ctx context.Context, req *mcp.CallToolRequest, input rankCountriesInput) (*mcp.CallToolResult, rankCountriesOutput, error) {
	if input.Top <= 0 {
		input.Top = 10
	}

	countries, err := s.sess.Countries(ctx, aggregate.RankOptions{
		Search:            input.Search,
		Top:               input.Top,
		IncludeAggregates: input.IncludeAggregates,
	})
	if err != nil {
		return nil, rankCountriesOutput{}, fmt.Errorf("failed to rank countries: %w", err)
	}

	out := rankCountriesOutput{Countries: countries}
	if len(countries) == 0 {
		out.Message = "No countries match."
	} else {
		out.Message = fmt.Sprintf("%d countries, highest %s at %.1f%%", len(countries), countries[0].Name, *countries[0].Prevalence)
	}
	return nil, out, nil
}
