package dataset

import (
	"sort"

	"github.com/dustin/go-humanize"
	"mobility-insights-go/internal/logger"
	"mobility-insights-go/internal/types"
)

type DatasetSummary struct {
	TotalRecords   int            `json:"total_records"`
	Countries      int            `json:"countries"`
	Regions        int            `json:"regions"`
	FirstDate      string         `json:"first_date"`
	LastDate       string         `json:"last_date"`
	ByBaselineType map[string]int `json:"by_baseline_type"`
	TopCountries   []CountryCount `json:"top_countries"`
}

type CountryCount struct {
	Country string `json:"country"`
	Records int    `json:"records"`
}

const topCountries = 5

// Summarize produces a compact overview of the loaded collection.
func Summarize(records []types.MovementRecord) DatasetSummary {
	log := logger.New().Component("dataset.summary")

	byBaseline := map[string]int{}
	byCountry := map[string]int{}
	regions := map[string]bool{}
	first, last := "", ""
	for _, r := range records {
		bt := r.BaselineType
		if bt == "" {
			bt = "unknown"
		}
		byBaseline[bt]++
		byCountry[r.Country]++
		regions[r.Country+"\x00"+r.RegionName] = true
		// dataset dates are ISO formatted, so string order is date order
		if first == "" || r.Date < first {
			first = r.Date
		}
		if r.Date > last {
			last = r.Date
		}
	}

	top := make([]CountryCount, 0, len(byCountry))
	for c, n := range byCountry {
		top = append(top, CountryCount{Country: c, Records: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Records != top[j].Records {
			return top[i].Records > top[j].Records
		}
		return top[i].Country < top[j].Country
	})
	if len(top) > topCountries {
		top = top[:topCountries]
	}

	ds := DatasetSummary{
		TotalRecords:   len(records),
		Countries:      len(byCountry),
		Regions:        len(regions),
		FirstDate:      first,
		LastDate:       last,
		ByBaselineType: byBaseline,
		TopCountries:   top,
	}
	log.WithFields(map[string]interface{}{
		"total_records": humanize.Comma(int64(ds.TotalRecords)),
		"countries":     ds.Countries,
		"regions":       ds.Regions,
	}).Info("dataset summarization complete")
	return ds
}
