package aggregator

import (
	"fmt"
	"math"

	"mobility-insights-go/internal/types"
)

// Summarize reduces a series to headline stats. Start and End are read from
// the first and last points, so the series must already be date-ordered.
func Summarize(series []types.NormalizedDataPoint) *types.Stats {
	if len(series) == 0 {
		return nil
	}

	var mobSum float64
	maxStay := math.Inf(-1)
	for _, p := range series {
		mobSum += p.Mobility
		if p.Stay > maxStay {
			maxStay = p.Stay
		}
	}

	return &types.Stats{
		AvgMobility: percent(mobSum / float64(len(series))),
		MaxStayHome: percent(maxStay),
		Count:       len(series),
		Start:       series[0].Date,
		End:         series[len(series)-1].Date,
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
