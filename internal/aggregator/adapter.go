package aggregator

import (
	"math"

	"mobility-insights-go/internal/types"
)

// AsAggregate reshapes a single normalized series into a CountryAggregate
// with a one-row matrix so a region can stand in wherever a country rollup
// is expected. Returns nil for an empty series.
func AsAggregate(series []types.NormalizedDataPoint, regionName string) *types.CountryAggregate {
	if len(series) == 0 {
		return nil
	}

	var mobSum, staySum float64
	minMob := math.Inf(1)
	maxStay := math.Inf(-1)
	trend := make([]types.TrendPoint, 0, len(series))
	for _, p := range series {
		mobSum += p.Mobility
		staySum += p.Stay
		if p.Mobility < minMob {
			minMob = p.Mobility
		}
		if p.Stay > maxStay {
			maxStay = p.Stay
		}
		trend = append(trend, types.TrendPoint{Date: p.Date, AvgMobility: p.Mobility, AvgStay: p.Stay})
	}

	n := float64(len(series))
	return &types.CountryAggregate{
		Trend: trend,
		Matrix: []types.RegionStats{{
			Name:        regionName,
			AvgMobility: mobSum / n,
			AvgStay:     staySum / n,
			MaxStay:     maxStay,
			MinMobility: minMob,
			DataPoints:  len(series),
		}},
		TotalRegions: 1,
	}
}
