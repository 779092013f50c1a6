package processor

import (
	"errors"
	"fmt"
	"time"

	"mobility-insights-go/internal/actionable"
	"mobility-insights-go/internal/aggregator"
	"mobility-insights-go/internal/dataset"
	"mobility-insights-go/internal/logger"
	"mobility-insights-go/internal/types"
)

var (
	ErrMissingCountry = errors.New("missing country")
	ErrMissingRegion  = errors.New("missing region")
	ErrBothCompare    = errors.New("compare_country and compare_region are mutually exclusive")
)

// Processor answers series and country queries against a Store. Country
// aggregates are memoized per selector; every other value is recomputed.
type Processor struct {
	store *dataset.Store
	cache *aggregateCache
	log   *logger.Logger
}

func New(store *dataset.Store, cacheSize int, log *logger.Logger) *Processor {
	if log == nil {
		log = logger.New()
	}
	return &Processor{
		store: store,
		cache: newAggregateCache(cacheSize),
		log:   log.Component("processor"),
	}
}

func (p *Processor) Store() *dataset.Store {
	return p.store
}

// Resolve returns the (possibly cached) aggregate for a selector.
func (p *Processor) Resolve(sel aggregator.Selector) *types.CountryAggregate {
	k := keyOf(sel)
	if agg, ok := p.cache.get(k); ok {
		return agg
	}
	agg := sel.Resolve(p.store.Records())
	p.cache.put(k, agg)
	return agg
}

// SeriesQuery selects one series and optionally a second one to compare
// against. Region may be aggregator.WholeCountry.
type SeriesQuery struct {
	Country        string
	Region         string
	CompareCountry string
	CompareRegion  string
}

func (q SeriesQuery) Validate() error {
	if q.Country == "" {
		return ErrMissingCountry
	}
	if q.Region == "" {
		return ErrMissingRegion
	}
	if q.CompareRegion != "" && q.CompareCountry == "" {
		return fmt.Errorf("compare_region: %w", ErrMissingCountry)
	}
	return nil
}

func (q SeriesQuery) comparing() bool {
	return q.CompareCountry != ""
}

type SeriesResult struct {
	Country        string                      `json:"country"`
	Region         string                      `json:"region"`
	Primary        []types.NormalizedDataPoint `json:"primary"`
	PrimaryStats   *types.Stats                `json:"primary_stats"`
	Secondary      []types.NormalizedDataPoint `json:"secondary,omitempty"`
	SecondaryStats *types.Stats                `json:"secondary_stats,omitempty"`
	Comparison     []types.ComparisonRow       `json:"comparison"`
	DurationMs     int64                       `json:"duration_ms"`
}

// Series answers query class (a): one series with its stats, optionally
// joined by date against a second series.
func (p *Processor) Series(q SeriesQuery) (SeriesResult, error) {
	start := time.Now()
	if err := q.Validate(); err != nil {
		return SeriesResult{}, err
	}

	primarySel := aggregator.RegionSelector(q.Country, q.Region)
	res := SeriesResult{Country: q.Country, Region: q.Region}
	res.Primary = p.series(primarySel)
	res.PrimaryStats = aggregator.Summarize(res.Primary)

	secondaryLabel := ""
	if q.comparing() {
		secondarySel := compareSelector(q.CompareCountry, q.CompareRegion)
		secondaryLabel = secondarySel.Label()
		res.Secondary = p.series(secondarySel)
		res.SecondaryStats = aggregator.Summarize(res.Secondary)
	}
	res.Comparison = aggregator.MergeSeries(res.Primary, res.Secondary, primarySel.Label(), secondaryLabel)

	res.DurationMs = time.Since(start).Milliseconds()
	p.log.WithFields(map[string]interface{}{
		"country":     q.Country,
		"region":      q.Region,
		"compare":     secondaryLabel,
		"points":      len(res.Primary),
		"duration_ms": res.DurationMs,
	}).Debug("series query")
	return res, nil
}

// series reuses the cached aggregate for whole-country selections.
func (p *Processor) series(sel aggregator.Selector) []types.NormalizedDataPoint {
	if sel.Kind == aggregator.KindRegion {
		return sel.Series(p.store.Records())
	}
	agg := p.Resolve(sel)
	if agg == nil {
		return []types.NormalizedDataPoint{}
	}
	out := make([]types.NormalizedDataPoint, 0, len(agg.Trend))
	for _, t := range agg.Trend {
		out = append(out, types.NormalizedDataPoint{
			Date:         t.Date,
			Mobility:     t.AvgMobility,
			Stay:         t.AvgStay,
			BaselineType: aggregator.AverageBaseline,
		})
	}
	return out
}

// CountryQuery selects a country rollup, optionally compared against
// another country or against one region.
type CountryQuery struct {
	Country        string
	CompareCountry string
	CompareRegion  string
	SortKey        string
	SortDir        string
}

type CountryResult struct {
	Country    string                  `json:"country"`
	Aggregate  *types.CountryAggregate `json:"aggregate"`
	Matrix     []types.RegionStats     `json:"matrix"`
	Secondary  *types.CountryAggregate `json:"secondary,omitempty"`
	Comparison []types.ComparisonRow   `json:"comparison"`
	Highlights []actionable.Highlight  `json:"highlights"`
	DurationMs int64                   `json:"duration_ms"`
}

// Country answers query class (b). A nil Aggregate means the country has
// no data; callers decide how to surface that.
func (p *Processor) Country(q CountryQuery) (CountryResult, error) {
	start := time.Now()
	if q.Country == "" {
		return CountryResult{}, ErrMissingCountry
	}
	if q.CompareCountry != "" && q.CompareRegion != "" {
		return CountryResult{}, ErrBothCompare
	}

	key := aggregator.SortByName
	if q.SortKey != "" {
		k, err := aggregator.ParseSortKey(q.SortKey)
		if err != nil {
			return CountryResult{}, err
		}
		key = k
	}
	dir := aggregator.Asc
	if q.SortDir != "" {
		d, err := aggregator.ParseDirection(q.SortDir)
		if err != nil {
			return CountryResult{}, err
		}
		dir = d
	}

	res := CountryResult{Country: q.Country}
	primarySel := aggregator.CountrySelector(q.Country)
	res.Aggregate = p.Resolve(primarySel)
	if res.Aggregate == nil {
		res.Matrix = []types.RegionStats{}
		res.Comparison = []types.ComparisonRow{}
		res.DurationMs = time.Since(start).Milliseconds()
		return res, nil
	}
	res.Matrix = aggregator.SortMatrix(res.Aggregate.Matrix, key, dir)
	res.Highlights = actionable.Generate(res.Aggregate)

	var secondaryTrend []types.TrendPoint
	secondaryLabel := ""
	if q.CompareCountry != "" || q.CompareRegion != "" {
		var sel aggregator.Selector
		if q.CompareRegion != "" {
			// a region of the same country, adapted to the aggregate shape
			sel = aggregator.RegionSelector(q.Country, q.CompareRegion)
		} else {
			sel = aggregator.CountrySelector(q.CompareCountry)
		}
		secondaryLabel = sel.Label()
		res.Secondary = p.Resolve(sel)
		if res.Secondary != nil {
			secondaryTrend = res.Secondary.Trend
		}
	}
	res.Comparison = aggregator.MergeTrends(res.Aggregate.Trend, secondaryTrend, primarySel.Label(), secondaryLabel)

	res.DurationMs = time.Since(start).Milliseconds()
	p.log.WithFields(map[string]interface{}{
		"country":     q.Country,
		"regions":     res.Aggregate.TotalRegions,
		"compare":     secondaryLabel,
		"sort":        string(key) + " " + string(dir),
		"duration_ms": res.DurationMs,
	}).Debug("country query")
	return res, nil
}

func compareSelector(country, region string) aggregator.Selector {
	if region == "" {
		return aggregator.CountrySelector(country)
	}
	return aggregator.RegionSelector(country, region)
}
