package aggregator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"mobility-insights-go/internal/types"
)

type SortKey string

const (
	SortByName        SortKey = "name"
	SortByAvgMobility SortKey = "avgMobility"
	SortByAvgStay     SortKey = "avgStay"
	SortByMaxStay     SortKey = "maxStay"
	SortByMinMobility SortKey = "minMobility"
	SortByDataPoints  SortKey = "dataPoints"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var (
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrUnknownDirection = errors.New("unknown sort direction")
)

var sortKeys = map[string]SortKey{
	"name":         SortByName,
	"avgmobility":  SortByAvgMobility,
	"avg_mobility": SortByAvgMobility,
	"avgstay":      SortByAvgStay,
	"avg_stay":     SortByAvgStay,
	"maxstay":      SortByMaxStay,
	"max_stay":     SortByMaxStay,
	"minmobility":  SortByMinMobility,
	"min_mobility": SortByMinMobility,
	"datapoints":   SortByDataPoints,
	"data_points":  SortByDataPoints,
}

// ParseSortKey accepts both camelCase and snake_case column names.
func ParseSortKey(s string) (SortKey, error) {
	if k, ok := sortKeys[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// SortMatrix returns a sorted copy of the matrix. Ties keep their input
// order. An unrecognised key leaves the order unchanged.
func SortMatrix(matrix []types.RegionStats, key SortKey, dir Direction) []types.RegionStats {
	out := make([]types.RegionStats, len(matrix))
	copy(out, matrix)

	cmp := comparator(key)
	if cmp == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Desc {
			return cmp(out[j], out[i]) < 0
		}
		return cmp(out[i], out[j]) < 0
	})
	return out
}

func comparator(key SortKey) func(a, b types.RegionStats) int {
	switch key {
	case SortByName:
		return func(a, b types.RegionStats) int { return strings.Compare(a.Name, b.Name) }
	case SortByAvgMobility:
		return byFloat(func(r types.RegionStats) float64 { return r.AvgMobility })
	case SortByAvgStay:
		return byFloat(func(r types.RegionStats) float64 { return r.AvgStay })
	case SortByMaxStay:
		return byFloat(func(r types.RegionStats) float64 { return r.MaxStay })
	case SortByMinMobility:
		return byFloat(func(r types.RegionStats) float64 { return r.MinMobility })
	case SortByDataPoints:
		return byFloat(func(r types.RegionStats) float64 { return float64(r.DataPoints) })
	}
	return nil
}

func byFloat(field func(types.RegionStats) float64) func(a, b types.RegionStats) int {
	return func(a, b types.RegionStats) int {
		x, y := field(a), field(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
}
