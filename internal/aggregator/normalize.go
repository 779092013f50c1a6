package aggregator

import (
	"sort"

	"mobility-insights-go/internal/types"
)

// WholeCountry is the region selector meaning "average over every region of
// the country". The dataset loader drops rows whose region carries this
// name, so it never collides with a real region.
const WholeCountry = "__whole_country__"

// AverageBaseline tags points produced by averaging across regions.
const AverageBaseline = "AVERAGE"

// Normalize returns the date-ordered series for one region of a country, or
// the whole-country average when region is WholeCountry. Duplicate rows for
// the same date are kept as-is.
func Normalize(records []types.MovementRecord, country, region string) []types.NormalizedDataPoint {
	if country == "" || region == "" {
		return []types.NormalizedDataPoint{}
	}

	if region == WholeCountry {
		agg := Aggregate(records, country)
		if agg == nil {
			return []types.NormalizedDataPoint{}
		}
		out := make([]types.NormalizedDataPoint, 0, len(agg.Trend))
		for _, t := range agg.Trend {
			out = append(out, types.NormalizedDataPoint{
				Date:         t.Date,
				Mobility:     t.AvgMobility,
				Stay:         t.AvgStay,
				BaselineType: AverageBaseline,
			})
		}
		return out
	}

	matched := []types.MovementRecord{}
	for _, r := range records {
		if r.Country == country && r.RegionName == region {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return compareDates(matched[i].Date, matched[j].Date) < 0
	})

	out := make([]types.NormalizedDataPoint, 0, len(matched))
	for _, r := range matched {
		out = append(out, types.NormalizedDataPoint{
			Date:         r.Date,
			Mobility:     r.MobilityChange,
			Stay:         r.StayHomeRatio,
			BaselineType: r.BaselineType,
		})
	}
	return out
}
