package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobility-insights-go/internal/types"
)

const eps = 1e-9

func rec(date, country, region string, mob, stay float64) types.MovementRecord {
	return types.MovementRecord{
		Date:           date,
		Country:        country,
		RegionID:       country + "." + region,
		RegionName:     region,
		MobilityChange: mob,
		StayHomeRatio:  stay,
		BaselineName:   "full_feb",
		BaselineType:   "DAY_OF_WEEK",
	}
}

func fixture() []types.MovementRecord {
	return []types.MovementRecord{
		rec("2020-03-03", "X", "A", -0.30, 0.40),
		rec("2020-03-01", "X", "A", -0.10, 0.20),
		rec("2020-03-02", "X", "B", 0.05, 0.15),
		rec("2020-03-01", "X", "B", 0.10, 0.10),
		rec("2020-03-02", "X", "A", -0.20, 0.30),
		rec("2020-03-01", "X", "C", -0.40, 0.50),
		rec("2020-03-01", "Y", "Q", -0.50, 0.60),
		rec("2020-03-04", "Y", "Q", -0.45, 0.55),
	}
}

func TestAggregateWorkedExample(t *testing.T) {
	records := []types.MovementRecord{
		rec("2020-01-01", "X", "A", -0.2, 0.5),
		rec("2020-01-01", "X", "B", 0.0, 0.3),
	}

	agg := Aggregate(records, "X")
	require.NotNil(t, agg)
	require.Len(t, agg.Trend, 1)
	assert.Equal(t, "2020-01-01", agg.Trend[0].Date)
	assert.InDelta(t, -0.1, agg.Trend[0].AvgMobility, eps)
	assert.InDelta(t, 0.4, agg.Trend[0].AvgStay, eps)

	require.Len(t, agg.Matrix, 2)
	assert.Equal(t, 1, agg.Matrix[0].DataPoints)
	assert.Equal(t, 1, agg.Matrix[1].DataPoints)
	assert.Equal(t, 2, agg.TotalRegions)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Nil(t, Aggregate(nil, "X"))
	assert.Nil(t, Aggregate(fixture(), ""))
	assert.Nil(t, Aggregate(fixture(), "Nowhere"))
}

func TestAggregateTrendSortedAndDivisorIsRowsPresent(t *testing.T) {
	agg := Aggregate(fixture(), "X")
	require.NotNil(t, agg)

	dates := []string{}
	for _, p := range agg.Trend {
		dates = append(dates, p.Date)
	}
	assert.Equal(t, []string{"2020-03-01", "2020-03-02", "2020-03-03"}, dates)

	// 2020-03-01 has three regions reporting
	assert.InDelta(t, (-0.10+0.10-0.40)/3, agg.Trend[0].AvgMobility, eps)
	// 2020-03-03 only A reports
	assert.InDelta(t, -0.30, agg.Trend[2].AvgMobility, eps)
	assert.InDelta(t, 0.40, agg.Trend[2].AvgStay, eps)
}

func TestAggregateMatrixInsertionOrderAndExtremes(t *testing.T) {
	agg := Aggregate(fixture(), "X")
	require.NotNil(t, agg)

	names := []string{}
	for _, m := range agg.Matrix {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
	assert.Equal(t, 3, agg.TotalRegions)

	a := agg.Matrix[0]
	assert.Equal(t, 3, a.DataPoints)
	assert.InDelta(t, -0.20, a.AvgMobility, eps)
	assert.InDelta(t, 0.30, a.AvgStay, eps)
	assert.InDelta(t, 0.40, a.MaxStay, eps)
	assert.InDelta(t, -0.30, a.MinMobility, eps)
}

func TestAggregateDuplicatesAreSummed(t *testing.T) {
	records := []types.MovementRecord{
		rec("2020-01-01", "X", "A", -0.2, 0.5),
		rec("2020-01-01", "X", "A", -0.4, 0.7),
	}
	agg := Aggregate(records, "X")
	require.NotNil(t, agg)
	require.Len(t, agg.Trend, 1)
	require.Len(t, agg.Matrix, 1)
	assert.Equal(t, 2, agg.Matrix[0].DataPoints)
	assert.InDelta(t, -0.3, agg.Trend[0].AvgMobility, eps)
}

func TestAggregateProperties(t *testing.T) {
	records := fixture()
	for _, country := range []string{"X", "Y"} {
		agg := Aggregate(records, country)
		require.NotNil(t, agg)

		unique := map[string]bool{}
		var grand float64
		dateCounts := map[string]int{}
		for _, r := range records {
			if r.Country == country {
				unique[r.RegionName] = true
				grand += r.MobilityChange
				dateCounts[r.Date]++
			}
		}
		assert.Equal(t, len(unique), agg.TotalRegions)
		assert.Len(t, agg.Matrix, agg.TotalRegions)

		var fromMatrix, fromTrend float64
		for _, m := range agg.Matrix {
			fromMatrix += m.AvgMobility * float64(m.DataPoints)
		}
		for _, p := range agg.Trend {
			fromTrend += p.AvgMobility * float64(dateCounts[p.Date])
		}
		assert.InDelta(t, grand, fromMatrix, 1e-9)
		assert.InDelta(t, grand, fromTrend, 1e-9)
	}
}

func TestNormalizeRegion(t *testing.T) {
	series := Normalize(fixture(), "X", "A")
	require.Len(t, series, 3)
	assert.Equal(t, "2020-03-01", series[0].Date)
	assert.Equal(t, "2020-03-03", series[2].Date)
	assert.InDelta(t, -0.10, series[0].Mobility, eps)
	assert.Equal(t, "DAY_OF_WEEK", series[0].BaselineType)
}

func TestNormalizeWholeCountry(t *testing.T) {
	series := Normalize(fixture(), "X", WholeCountry)
	require.Len(t, series, 3)
	for _, p := range series {
		assert.Equal(t, AverageBaseline, p.BaselineType)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil, "X", "A"))
	assert.NotNil(t, Normalize(nil, "X", "A"))
	assert.Empty(t, Normalize(fixture(), "", "A"))
	assert.Empty(t, Normalize(fixture(), "X", ""))
	assert.Empty(t, Normalize(fixture(), "X", "Missing"))
	assert.Empty(t, Normalize(fixture(), "Nowhere", WholeCountry))
}

func TestNormalizeKeepsDuplicateDates(t *testing.T) {
	records := []types.MovementRecord{
		rec("2020-01-02", "X", "A", -0.1, 0.1),
		rec("2020-01-01", "X", "A", -0.2, 0.2),
		rec("2020-01-01", "X", "A", -0.3, 0.3),
	}
	series := Normalize(records, "X", "A")
	require.Len(t, series, 3)
	assert.InDelta(t, -0.2, series[0].Mobility, eps)
	assert.InDelta(t, -0.3, series[1].Mobility, eps)
}

func TestAsAggregate(t *testing.T) {
	assert.Nil(t, AsAggregate(nil, "A"))

	agg := AsAggregate(Normalize(fixture(), "X", "A"), "A")
	require.NotNil(t, agg)
	assert.Equal(t, 1, agg.TotalRegions)
	require.Len(t, agg.Matrix, 1)
	m := agg.Matrix[0]
	assert.Equal(t, "A", m.Name)
	assert.Equal(t, 3, m.DataPoints)
	assert.InDelta(t, -0.20, m.AvgMobility, eps)
	assert.InDelta(t, 0.30, m.AvgStay, eps)
	assert.InDelta(t, -0.30, m.MinMobility, eps)
	assert.InDelta(t, 0.40, m.MaxStay, eps)
	require.Len(t, agg.Trend, 3)
	assert.InDelta(t, -0.20, agg.Trend[1].AvgMobility, eps)
}

func TestAsAggregateAgreesWithAggregate(t *testing.T) {
	records := fixture()
	direct := Aggregate(records, "X")
	viaSeries := AsAggregate(Normalize(records, "X", WholeCountry), "X")
	require.NotNil(t, direct)
	require.NotNil(t, viaSeries)
	require.Len(t, viaSeries.Trend, len(direct.Trend))
	for i := range direct.Trend {
		assert.Equal(t, direct.Trend[i].Date, viaSeries.Trend[i].Date)
		assert.InDelta(t, direct.Trend[i].AvgMobility, viaSeries.Trend[i].AvgMobility, eps)
		assert.InDelta(t, direct.Trend[i].AvgStay, viaSeries.Trend[i].AvgStay, eps)
	}
}

func TestSummarize(t *testing.T) {
	assert.Nil(t, Summarize(nil))

	stats := Summarize(Normalize(fixture(), "X", "A"))
	require.NotNil(t, stats)
	assert.Equal(t, "-20.0%", stats.AvgMobility)
	assert.Equal(t, "40.0%", stats.MaxStayHome)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, "2020-03-01", stats.Start)
	assert.Equal(t, "2020-03-03", stats.End)
}

func TestSummarizeTrustsInputOrder(t *testing.T) {
	series := []types.NormalizedDataPoint{
		{Date: "2020-03-05", Mobility: 0.1, Stay: 0.1},
		{Date: "2020-03-01", Mobility: 0.1, Stay: 0.1},
	}
	stats := Summarize(series)
	require.NotNil(t, stats)
	assert.Equal(t, "2020-03-05", stats.Start)
	assert.Equal(t, "2020-03-01", stats.End)
}
