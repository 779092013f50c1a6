package aggregator

import (
	"sort"

	"mobility-insights-go/internal/types"
)

// PointFunc extracts the join key and the two values from an element.
type PointFunc[T any] func(T) (date string, mobility, stay float64)

// SeriesPoint reads a NormalizedDataPoint.
func SeriesPoint(p types.NormalizedDataPoint) (string, float64, float64) {
	return p.Date, p.Mobility, p.Stay
}

// TrendPointOf reads a TrendPoint.
func TrendPointOf(p types.TrendPoint) (string, float64, float64) {
	return p.Date, p.AvgMobility, p.AvgStay
}

// Merge full-outer-joins two series on their date strings. Dates only in
// secondary get nil primary values. Dates must be byte-identical to match,
// and a date repeated within one side keeps its last value.
func Merge[T any](primary, secondary []T, point PointFunc[T], primaryLabel, secondaryLabel string) []types.ComparisonRow {
	rows := map[string]*types.ComparisonRow{}

	for _, p := range primary {
		date, mob, stay := point(p)
		row, ok := rows[date]
		if !ok {
			row = &types.ComparisonRow{Date: date}
			rows[date] = row
		}
		row.PrimaryMobility = floatPtr(mob)
		row.PrimaryStay = floatPtr(stay)
		row.PrimaryLabel = primaryLabel
	}

	for _, s := range secondary {
		date, mob, stay := point(s)
		row, ok := rows[date]
		if !ok {
			row = &types.ComparisonRow{Date: date}
			rows[date] = row
		}
		row.SecondaryMobility = floatPtr(mob)
		row.SecondaryStay = floatPtr(stay)
		row.SecondaryLabel = secondaryLabel
	}

	out := make([]types.ComparisonRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := compareDates(out[i].Date, out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].Date < out[j].Date
	})
	return out
}

// MergeSeries joins two normalized series.
func MergeSeries(primary, secondary []types.NormalizedDataPoint, primaryLabel, secondaryLabel string) []types.ComparisonRow {
	return Merge(primary, secondary, SeriesPoint, primaryLabel, secondaryLabel)
}

// MergeTrends joins two aggregate trends.
func MergeTrends(primary, secondary []types.TrendPoint, primaryLabel, secondaryLabel string) []types.ComparisonRow {
	return Merge(primary, secondary, TrendPointOf, primaryLabel, secondaryLabel)
}

func floatPtr(v float64) *float64 {
	return &v
}
