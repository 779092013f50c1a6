package aggregator

import (
	"mobility-insights-go/internal/types"
)

type SelectorKind int

const (
	KindCountry SelectorKind = iota
	KindRegion
)

func (k SelectorKind) String() string {
	if k == KindRegion {
		return "region"
	}
	return "country"
}

// Selector names either a whole country or one region of it. Both kinds
// resolve to a CountryAggregate so callers compare them through one shape.
type Selector struct {
	Kind    SelectorKind
	Country string
	Region  string
}

func CountrySelector(country string) Selector {
	return Selector{Kind: KindCountry, Country: country}
}

// RegionSelector treats WholeCountry as a country selector.
func RegionSelector(country, region string) Selector {
	if region == WholeCountry {
		return CountrySelector(country)
	}
	return Selector{Kind: KindRegion, Country: country, Region: region}
}

// Label is the display name used in comparison rows.
func (s Selector) Label() string {
	if s.Kind == KindRegion {
		return s.Region
	}
	return s.Country
}

func (s Selector) IsZero() bool {
	return s.Country == "" || (s.Kind == KindRegion && s.Region == "")
}

// Series returns the normalized series of the selection.
func (s Selector) Series(records []types.MovementRecord) []types.NormalizedDataPoint {
	if s.Kind == KindRegion {
		return Normalize(records, s.Country, s.Region)
	}
	return Normalize(records, s.Country, WholeCountry)
}

// Resolve returns the aggregate of the selection, or nil when nothing matches.
func (s Selector) Resolve(records []types.MovementRecord) *types.CountryAggregate {
	if s.IsZero() {
		return nil
	}
	if s.Kind == KindRegion {
		return AsAggregate(Normalize(records, s.Country, s.Region), s.Region)
	}
	return Aggregate(records, s.Country)
}
