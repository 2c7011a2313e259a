// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Calls tool handlers directly against a session over a temp CSV directory.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/glucoscope/internal/session"
	"github.com/harperreed/glucoscope/internal/source"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// setupTestServer creates a server over participant 001 and the shared tables.
func setupTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "Dexcom_001.csv", "timestamp,glucose\n"+
		"2020-02-13 17:00:00,98\n2020-02-13 18:30:00,145\n2020-02-13 23:00:00,101\n")
	writeFile(t, dir, "Food_Log_001.csv", "time_begin,searched_food,logged_food,calorie,sugar,protein\n"+
		"2020-02-13 18:00:00,Rice,,200,1,4\n2020-02-13 18:00:00,,Chicken,250,0,30\n2020-02-13 21:15:00,Apple,,95,19,0.5\n")
	writeFile(t, dir, "HR_001.csv", "datetime,hr\n2020-02-13 15:28:50,70\n2020-02-13 15:29:10,80\n")
	writeFile(t, dir, "Demographics.csv", "ID,HbA1c\n1,5.7\n2,5.69\n")
	writeFile(t, dir, "global_stats.csv", "Country Name,Country Code,2021\nAruba,ABW,11.6\nWorld,WLD,9.8\nPakistan,PAK,30.8\n")

	src, err := source.NewCSVSource(dir)
	if err != nil {
		t.Fatalf("failed to open source: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })

	server, err := NewServer(session.New(src, time.UTC))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func loadParticipant(t *testing.T, server *Server) {
	t.Helper()
	if _, _, err := server.handleLoadParticipant(context.Background(), &mcp.CallToolRequest{}, loadParticipantInput{Participant: "001"}); err != nil {
		t.Fatalf("load_participant failed: %v", err)
	}
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t)
	if server.mcpServer == nil {
		t.Error("expected non-nil mcpServer")
	}
	if server.sess == nil {
		t.Error("expected non-nil session")
	}
}

func TestHandleLoadParticipant(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     loadParticipantInput
		wantErr   bool
		errSubstr string
	}{
		{name: "valid participant", input: loadParticipantInput{Participant: "001"}},
		{name: "heart rate axis", input: loadParticipantInput{Participant: "001", Axis: "hr"}},
		{name: "unknown axis", input: loadParticipantInput{Participant: "001", Axis: "steps"}, wantErr: true, errSubstr: "unknown axis"},
		{name: "missing files", input: loadParticipantInput{Participant: "404"}, wantErr: true, errSubstr: "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleLoadParticipant(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("error %q should contain %q", err, tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.GlucoseSamples != 3 || out.Meals != 2 || out.HeartRateMinutes != 2 {
				t.Errorf("unexpected counts: %+v", out)
			}
			if out.First == "" || out.Last == "" {
				t.Error("expected time extent")
			}
		})
	}
}

func TestHandleApplyFilter(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleApplyFilter(ctx, &mcp.CallToolRequest{}, applyFilterInput{Macro: "sugar"}); !errors.Is(err, session.ErrNoData) {
		t.Errorf("expected ErrNoData before load, got %v", err)
	}

	loadParticipant(t, server)

	tests := []struct {
		name        string
		input       applyFilterInput
		wantPassing int
		wantPeak    int
		wantActive  int
		wantErr     bool
	}{
		{name: "calories over 300", input: applyFilterInput{Macro: "calories", Threshold: 300}, wantPassing: 1, wantPeak: 2},
		{name: "column spelling", input: applyFilterInput{Macro: "calorie", Threshold: 300}, wantPassing: 1, wantPeak: 2},
		{name: "nothing passes", input: applyFilterInput{Macro: "sugar", Threshold: 500}, wantActive: 3},
		{name: "filter off", input: applyFilterInput{Macro: "sugar", Threshold: 500, Off: true}, wantActive: 3},
		{name: "unknown macro", input: applyFilterInput{Macro: "salt"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleApplyFilter(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.PassingMeals != tt.wantPassing || out.Counts.Peak != tt.wantPeak || out.Counts.Active != tt.wantActive {
				t.Errorf("got passing=%d counts=%+v", out.PassingMeals, out.Counts)
			}
		})
	}
}

func TestHandleApplyFilterIncludeSamples(t *testing.T) {
	server := setupTestServer(t)
	loadParticipant(t, server)

	_, out, err := server.handleApplyFilter(context.Background(), &mcp.CallToolRequest{}, applyFilterInput{
		Macro: "calories", Threshold: 300, IncludeSamples: true,
	})
	if err != nil {
		t.Fatalf("apply_filter failed: %v", err)
	}
	if len(out.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(out.Samples))
	}
	if out.Samples[2].Highlight != "inactive" {
		t.Errorf("last sample = %s, want inactive", out.Samples[2].Highlight)
	}
	if out.SliderMax != 450 {
		t.Errorf("slider max = %v, want 450", out.SliderMax)
	}
}

func TestHandleListFoodGroups(t *testing.T) {
	server := setupTestServer(t)
	loadParticipant(t, server)
	ctx := context.Background()

	_, out, err := server.handleListFoodGroups(ctx, &mcp.CallToolRequest{}, listFoodGroupsInput{})
	if err != nil {
		t.Fatalf("list_food_groups failed: %v", err)
	}
	if out.Total != 2 || len(out.Meals) != 2 {
		t.Fatalf("expected 2 meals, got %+v", out)
	}
	if strings.Join(out.Meals[0].Foods, ",") != "Rice,Chicken" {
		t.Errorf("first meal foods = %v", out.Meals[0].Foods)
	}

	_, out, err = server.handleListFoodGroups(ctx, &mcp.CallToolRequest{}, listFoodGroupsInput{Macro: "sugar", Min: 10})
	if err != nil {
		t.Fatalf("list_food_groups failed: %v", err)
	}
	if out.Total != 1 || out.Meals[0].Foods[0] != "Apple" {
		t.Errorf("expected only the apple, got %+v", out.Meals)
	}
}

func TestHandleDiagnose(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		want    string
		wantErr bool
	}{
		{name: "threshold", id: "001", want: "Prediabetic"},
		{name: "just below", id: "2", want: "Normal"},
		{name: "unknown", id: "77", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleDiagnose(ctx, &mcp.CallToolRequest{}, diagnoseInput{Participant: tt.id})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Diagnosis != tt.want {
				t.Errorf("diagnosis = %s, want %s", out.Diagnosis, tt.want)
			}
		})
	}
}

func TestHandleDiagnoseDefaultsToCurrentParticipant(t *testing.T) {
	server := setupTestServer(t)
	loadParticipant(t, server)

	_, out, err := server.handleDiagnose(context.Background(), &mcp.CallToolRequest{}, diagnoseInput{})
	if err != nil {
		t.Fatalf("diagnose failed: %v", err)
	}
	if out.ParticipantID != "1" {
		t.Errorf("participant = %s, want 1", out.ParticipantID)
	}
}

func TestHandleRankCountries(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleRankCountries(ctx, &mcp.CallToolRequest{}, rankCountriesInput{})
	if err != nil {
		t.Fatalf("rank_countries failed: %v", err)
	}
	if len(out.Countries) != 2 || out.Countries[0].Code != "PAK" {
		t.Errorf("countries = %+v", out.Countries)
	}

	_, out, err = server.handleRankCountries(ctx, &mcp.CallToolRequest{}, rankCountriesInput{Search: "atlantis"})
	if err != nil {
		t.Fatalf("rank_countries failed: %v", err)
	}
	if len(out.Countries) != 0 || out.Message != "No countries match." {
		t.Errorf("expected empty result, got %+v", out)
	}
}

func TestHandleSessionResource(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	read := func() session.State {
		t.Helper()
		res, err := server.handleSessionResource(ctx, &mcp.ReadResourceRequest{})
		if err != nil {
			t.Fatalf("session resource failed: %v", err)
		}
		if len(res.Contents) != 1 || res.Contents[0].URI != sessionURI {
			t.Fatalf("unexpected contents: %+v", res.Contents)
		}
		var st session.State
		if err := json.Unmarshal([]byte(res.Contents[0].Text), &st); err != nil {
			t.Fatalf("failed to parse session JSON: %v", err)
		}
		return st
	}

	if st := read(); st.Loaded {
		t.Error("expected nothing loaded")
	}

	loadParticipant(t, server)
	st := read()
	if !st.Loaded || st.Participant != "001" || st.Meals != 2 {
		t.Errorf("unexpected state: %+v", st)
	}
	if st.Highlights == nil || st.Highlights.Active != 3 {
		t.Errorf("default filter should leave all samples active, got %+v", st.Highlights)
	}
}
