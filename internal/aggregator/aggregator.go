package aggregator

import (
	"math"
	"sort"

	"mobility-insights-go/internal/types"
)

type dateBucket struct {
	mobSum  float64
	staySum float64
	count   int
}

type regionBucket struct {
	name    string
	mobSum  float64
	staySum float64
	maxStay float64
	minMob  float64
	count   int
}

// Aggregate rolls every record of a country up into a daily trend and a
// per-region matrix in a single pass. It returns nil when the country is
// empty or has no records.
func Aggregate(records []types.MovementRecord, country string) *types.CountryAggregate {
	if country == "" {
		return nil
	}

	byDate := map[string]*dateBucket{}
	dates := []string{}
	byRegion := map[string]*regionBucket{}
	regions := []string{}

	for _, r := range records {
		if r.Country != country {
			continue
		}

		d, ok := byDate[r.Date]
		if !ok {
			d = &dateBucket{}
			byDate[r.Date] = d
			dates = append(dates, r.Date)
		}
		d.mobSum += r.MobilityChange
		d.staySum += r.StayHomeRatio
		d.count++

		rb, ok := byRegion[r.RegionName]
		if !ok {
			rb = &regionBucket{
				name:    r.RegionName,
				maxStay: math.Inf(-1),
				minMob:  math.Inf(1),
			}
			byRegion[r.RegionName] = rb
			regions = append(regions, r.RegionName)
		}
		rb.mobSum += r.MobilityChange
		rb.staySum += r.StayHomeRatio
		rb.count++
		if r.StayHomeRatio > rb.maxStay {
			rb.maxStay = r.StayHomeRatio
		}
		if r.MobilityChange < rb.minMob {
			rb.minMob = r.MobilityChange
		}
	}

	if len(dates) == 0 {
		return nil
	}

	trend := make([]types.TrendPoint, 0, len(dates))
	for _, date := range dates {
		d := byDate[date]
		trend = append(trend, types.TrendPoint{
			Date:        date,
			AvgMobility: d.mobSum / float64(d.count),
			AvgStay:     d.staySum / float64(d.count),
		})
	}
	sort.SliceStable(trend, func(i, j int) bool {
		return compareDates(trend[i].Date, trend[j].Date) < 0
	})

	// matrix keeps first-seen order; ordering is SortMatrix's job
	matrix := make([]types.RegionStats, 0, len(regions))
	for _, name := range regions {
		rb := byRegion[name]
		matrix = append(matrix, types.RegionStats{
			Name:        rb.name,
			AvgMobility: rb.mobSum / float64(rb.count),
			AvgStay:     rb.staySum / float64(rb.count),
			MaxStay:     rb.maxStay,
			MinMobility: rb.minMob,
			DataPoints:  rb.count,
		})
	}

	return &types.CountryAggregate{
		Trend:        trend,
		Matrix:       matrix,
		TotalRegions: len(matrix),
	}
}
