package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mobility-insights-go/internal/aggregator"
	"mobility-insights-go/internal/dataset"
	"mobility-insights-go/internal/processor"
)

func summaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show an overview of the dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			proc, _, err := opts.open()
			if err != nil {
				return err
			}
			ds := dataset.Summarize(proc.Store().Records())
			return opts.emit(cmd, ds, func() string { return renderSummary(ds) })
		},
	}
}

func countriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List countries with their region counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			proc, countries, err := opts.open()
			if err != nil {
				return err
			}
			counts := make(map[string]int, len(countries))
			for _, c := range countries {
				counts[c] = len(proc.Store().Regions(c))
			}
			return opts.emit(cmd, counts, func() string { return renderCountries(countries, counts) })
		},
	}
}

func regionsCmd(opts *options) *cobra.Command {
	var country string
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the regions of a country",
		RunE: func(cmd *cobra.Command, _ []string) error {
			proc, _, err := opts.open()
			if err != nil {
				return err
			}
			if !proc.Store().HasCountry(country) {
				return fmt.Errorf("unknown country %q", country)
			}
			regions := proc.Store().Regions(country)
			return opts.emit(cmd, regions, func() string { return renderList("Region", regions) })
		},
	}
	cmd.Flags().StringVarP(&country, "country", "c", "", "country code")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func seriesCmd(opts *options) *cobra.Command {
	var q processor.SeriesQuery
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Daily series and stats for a region or a whole-country average",
		RunE: func(cmd *cobra.Command, _ []string) error {
			proc, _, err := opts.open()
			if err != nil {
				return err
			}
			if q.Region == "" {
				q.Region = aggregator.WholeCountry
			}
			res, err := proc.Series(q)
			if err != nil {
				return err
			}
			return opts.emit(cmd, res, func() string { return renderSeries(res) })
		},
	}
	cmd.Flags().StringVarP(&q.Country, "country", "c", "", "country code")
	cmd.Flags().StringVarP(&q.Region, "region", "r", "", "region name (default whole-country average)")
	cmd.Flags().StringVar(&q.CompareCountry, "compare-country", "", "country of the comparison series")
	cmd.Flags().StringVar(&q.CompareRegion, "compare-region", "", "region of the comparison series")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func countryCmd(opts *options) *cobra.Command {
	var q processor.CountryQuery
	cmd := &cobra.Command{
		Use:   "country",
		Short: "Country rollup with per-region matrix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			proc, _, err := opts.open()
			if err != nil {
				return err
			}
			res, err := proc.Country(q)
			if err != nil {
				return err
			}
			if res.Aggregate == nil {
				return fmt.Errorf("no data for country %q", q.Country)
			}
			return opts.emit(cmd, res, func() string { return renderCountry(res) })
		},
	}
	cmd.Flags().StringVarP(&q.Country, "country", "c", "", "country code")
	cmd.Flags().StringVar(&q.CompareCountry, "compare-country", "", "compare against another country")
	cmd.Flags().StringVar(&q.CompareRegion, "compare-region", "", "compare against one region of the country")
	cmd.Flags().StringVar(&q.SortKey, "sort", "name", "matrix sort key: name, avgMobility, avgStay, maxStay, minMobility, dataPoints")
	cmd.Flags().StringVar(&q.SortDir, "dir", "asc", "sort direction: asc or desc")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}
