package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"mobility-insights-go/internal/dataset"
	"mobility-insights-go/internal/processor"
	"mobility-insights-go/internal/types"
)

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Footer = text.FormatDefault
	return tbl
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func optPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return pct(*v)
}

func renderSummary(ds dataset.DatasetSummary) string {
	tbl := newTable()
	tbl.AppendRow(table.Row{"Records", humanize.Comma(int64(ds.TotalRecords))})
	tbl.AppendRow(table.Row{"Countries", ds.Countries})
	tbl.AppendRow(table.Row{"Regions", humanize.Comma(int64(ds.Regions))})
	tbl.AppendRow(table.Row{"Dates", ds.FirstDate + " .. " + ds.LastDate})

	baselines := make([]string, 0, len(ds.ByBaselineType))
	for k := range ds.ByBaselineType {
		baselines = append(baselines, k)
	}
	sort.Strings(baselines)
	for _, k := range baselines {
		tbl.AppendRow(table.Row{"Baseline " + k, humanize.Comma(int64(ds.ByBaselineType[k]))})
	}
	return tbl.Render()
}

func renderCountries(countries []string, regions map[string]int) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Country", "Regions"})
	for _, c := range countries {
		tbl.AppendRow(table.Row{c, regions[c]})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", len(countries)), ""})
	return tbl.Render()
}

func renderList(header string, items []string) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{header})
	for _, it := range items {
		tbl.AppendRow(table.Row{it})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", len(items))})
	return tbl.Render()
}

func renderStats(label string, s *types.Stats) string {
	if s == nil {
		return label + ": no data"
	}
	return fmt.Sprintf("%s: avg mobility %s, max stay-home %s, %d days (%s .. %s)",
		label, s.AvgMobility, s.MaxStayHome, s.Count, s.Start, s.End)
}

func renderComparison(rows []types.ComparisonRow) string {
	primary, secondary := "Primary", "Secondary"
	for _, r := range rows {
		if r.PrimaryLabel != "" {
			primary = r.PrimaryLabel
		}
		if r.SecondaryLabel != "" {
			secondary = r.SecondaryLabel
		}
	}
	hasSecondary := false
	for _, r := range rows {
		if r.SecondaryMobility != nil {
			hasSecondary = true
			break
		}
	}

	tbl := newTable()
	if hasSecondary {
		tbl.AppendHeader(table.Row{"Date", primary + " mobility", primary + " stay", secondary + " mobility", secondary + " stay"})
	} else {
		tbl.AppendHeader(table.Row{"Date", primary + " mobility", primary + " stay"})
	}
	for _, r := range rows {
		row := table.Row{r.Date, optPct(r.PrimaryMobility), optPct(r.PrimaryStay)}
		if hasSecondary {
			row = append(row, optPct(r.SecondaryMobility), optPct(r.SecondaryStay))
		}
		tbl.AppendRow(row)
	}
	return tbl.Render()
}

func renderSeries(res processor.SeriesResult) string {
	var b strings.Builder
	b.WriteString(renderStats(seriesLabel(res), res.PrimaryStats))
	b.WriteString("\n")
	if res.SecondaryStats != nil || res.Secondary != nil {
		label := "comparison"
		for _, r := range res.Comparison {
			if r.SecondaryLabel != "" {
				label = r.SecondaryLabel
				break
			}
		}
		b.WriteString(renderStats(label, res.SecondaryStats))
		b.WriteString("\n")
	}
	b.WriteString(renderComparison(res.Comparison))
	return b.String()
}

func seriesLabel(res processor.SeriesResult) string {
	if len(res.Comparison) > 0 && res.Comparison[0].PrimaryLabel != "" {
		return res.Comparison[0].PrimaryLabel
	}
	return res.Country
}

func renderMatrix(matrix []types.RegionStats) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Region", "Avg mobility", "Avg stay", "Max stay", "Min mobility", "Days"})
	for _, m := range matrix {
		tbl.AppendRow(table.Row{m.Name, pct(m.AvgMobility), pct(m.AvgStay), pct(m.MaxStay), pct(m.MinMobility), m.DataPoints})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d regions", len(matrix)), "", "", "", "", ""})
	return tbl.Render()
}

func renderCountry(res processor.CountryResult) string {
	var b strings.Builder
	for _, h := range res.Highlights {
		fmt.Fprintf(&b, "* %s (%s)\n", h.Insight, h.Detail)
	}
	b.WriteString("\n")
	b.WriteString(renderMatrix(res.Matrix))
	b.WriteString("\n\n")
	b.WriteString(renderComparison(res.Comparison))
	return b.String()
}
