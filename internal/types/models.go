package types

// MovementRecord is one raw row of the movement-range dataset.
type MovementRecord struct {
	Date           string  `json:"date"`
	Country        string  `json:"country"`
	RegionID       string  `json:"region_id,omitempty"`
	RegionName     string  `json:"region_name"`
	MobilityChange float64 `json:"mobility_change"`
	StayHomeRatio  float64 `json:"stay_home_ratio"`
	BaselineName   string  `json:"baseline_name,omitempty"`
	BaselineType   string  `json:"baseline_type,omitempty"`
}

// NormalizedDataPoint is the per-date unit shared by a single region and a
// whole-country average.
type NormalizedDataPoint struct {
	Date         string  `json:"date"`
	Mobility     float64 `json:"mobility"`
	Stay         float64 `json:"stay"`
	BaselineType string  `json:"baseline_type,omitempty"`
}

type TrendPoint struct {
	Date        string  `json:"date"`
	AvgMobility float64 `json:"avg_mobility"`
	AvgStay     float64 `json:"avg_stay"`
}

type RegionStats struct {
	Name        string  `json:"name"`
	AvgMobility float64 `json:"avg_mobility"`
	AvgStay     float64 `json:"avg_stay"`
	MaxStay     float64 `json:"max_stay"`
	MinMobility float64 `json:"min_mobility"`
	DataPoints  int     `json:"data_points"`
}

type CountryAggregate struct {
	Trend        []TrendPoint  `json:"trend"`
	Matrix       []RegionStats `json:"matrix"`
	TotalRegions int           `json:"total_regions"`
}

// ComparisonRow is one date of a primary/secondary join. Primary values are
// nil (JSON null) when the date only exists in the secondary series.
type ComparisonRow struct {
	Date              string   `json:"date"`
	PrimaryMobility   *float64 `json:"primary_mobility"`
	PrimaryStay       *float64 `json:"primary_stay"`
	PrimaryLabel      string   `json:"primary_label,omitempty"`
	SecondaryMobility *float64 `json:"secondary_mobility,omitempty"`
	SecondaryStay     *float64 `json:"secondary_stay,omitempty"`
	SecondaryLabel    string   `json:"secondary_label,omitempty"`
}

// Stats summarises a normalized series. Percentages are preformatted.
type Stats struct {
	AvgMobility string `json:"avg_mobility"`
	MaxStayHome string `json:"max_stay_home"`
	Count       int    `json:"count"`
	Start       string `json:"start"`
	End         string `json:"end"`
}
