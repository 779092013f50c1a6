package actionable

import (
	"fmt"

	"mobility-insights-go/internal/types"
)

type Highlight struct {
	Insight string `json:"insight"`
	Detail  string `json:"detail"`
	Impact  string `json:"impact"`
}

// sharpDrop is the average mobility change below which a region is called
// out as strongly restricted.
const sharpDrop = -0.35

// Generate derives headline cards from a country aggregate.
func Generate(agg *types.CountryAggregate) []Highlight {
	if agg == nil || len(agg.Matrix) == 0 {
		return []Highlight{{
			Insight: "No movement data for this selection",
			Detail:  "Select another country or region",
			Impact:  "none",
		}}
	}

	out := []Highlight{}

	deepest := agg.Matrix[0]
	mostHome := agg.Matrix[0]
	for _, r := range agg.Matrix[1:] {
		if r.AvgMobility < deepest.AvgMobility {
			deepest = r
		}
		if r.MaxStay > mostHome.MaxStay {
			mostHome = r
		}
	}

	impact := "moderate"
	if deepest.AvgMobility <= sharpDrop {
		impact = "high"
	}
	out = append(out, Highlight{
		Insight: fmt.Sprintf("Largest mobility drop in %s (%.1f%%)", deepest.Name, deepest.AvgMobility*100),
		Detail:  fmt.Sprintf("lowest single day %.1f%% over %d days", deepest.MinMobility*100, deepest.DataPoints),
		Impact:  impact,
	})
	out = append(out, Highlight{
		Insight: fmt.Sprintf("Highest stay-at-home ratio in %s (%.1f%%)", mostHome.Name, mostHome.MaxStay*100),
		Detail:  fmt.Sprintf("average %.1f%% of users stayed in one tile", mostHome.AvgStay*100),
		Impact:  "informational",
	})

	if n := len(agg.Trend); n >= 2 {
		first, last := agg.Trend[0], agg.Trend[n-1]
		delta := (last.AvgMobility - first.AvgMobility) * 100
		direction := "recovered"
		if delta < 0 {
			direction = "declined"
		}
		out = append(out, Highlight{
			Insight: fmt.Sprintf("Mobility %s by %.1f points between %s and %s", direction, abs(delta), first.Date, last.Date),
			Detail:  fmt.Sprintf("%d regions reporting", agg.TotalRegions),
			Impact:  "trend",
		})
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
