// ABOUTME: Country prevalence ranking for the global-context chart.
// ABOUTME: Drops regional and income aggregates unless asked to keep them.
package aggregate

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/harperreed/glucoscope/internal/models"
)

// aggregateCodes are World Bank codes for regions and income groups that
// appear alongside countries in global_stats.csv.
var aggregateCodes = mapset.NewThreadUnsafeSet(
	"AFE", "AFW", "ARB", "CEB", "CSS", "EAP", "EAR", "EAS", "ECA", "ECS",
	"EMU", "EUU", "FCS", "HIC", "HPC", "IBD", "IBT", "IDA", "IDB", "IDX",
	"INX", "LAC", "LCN", "LDC", "LIC", "LMC", "LMY", "LTE", "MEA", "MIC",
	"MNA", "NAC", "OED", "OSS", "PRE", "PSS", "PST", "SAS", "SSA", "SSF",
	"SST", "TEA", "TEC", "TLA", "TMN", "TSA", "TSS", "UMC", "WLD",
)

// IsAggregate reports whether a code names a region or income group.
func IsAggregate(code string) bool {
	return aggregateCodes.Contains(strings.ToUpper(strings.TrimSpace(code)))
}

// RankOptions controls RankCountries.
type RankOptions struct {
	// Search keeps rows whose name or code contains this text (case-insensitive).
	Search string
	// Top limits the result; 0 means no limit.
	Top int
	// IncludeAggregates keeps regional and income-group rows.
	IncludeAggregates bool
}

// RankCountries sorts countries by prevalence, highest first, ties by name.
// Rows without a prevalence value are dropped. An empty result is not an error.
func RankCountries(stats []models.CountryStat, opts RankOptions) []models.CountryStat {
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	ranked := make([]models.CountryStat, 0, len(stats))
	for _, c := range stats {
		if c.Prevalence == nil {
			continue
		}
		if !opts.IncludeAggregates && IsAggregate(c.Code) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Code), search) {
			continue
		}
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := *ranked[i].Prevalence, *ranked[j].Prevalence
		if pi != pj {
			return pi > pj
		}
		return ranked[i].Name < ranked[j].Name
	})

	if opts.Top > 0 && len(ranked) > opts.Top {
		ranked = ranked[:opts.Top]
	}
	return ranked
}
