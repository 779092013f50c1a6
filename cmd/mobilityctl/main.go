// Package main provides the mobilityctl CLI for querying a movement-range
// dataset from the terminal.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mobility-insights-go/internal/dataset"
	"mobility-insights-go/internal/logger"
	"mobility-insights-go/internal/processor"
)

type options struct {
	dataPath string
	asJSON   bool
	verbose  bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "mobilityctl",
		Short:         "Query mobility trends and regional statistics",
		Long:          `mobilityctl loads a movement-range dataset and prints country rollups, region series and comparisons.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if !opts.verbose && os.Getenv("LOG_LEVEL") == "" {
				os.Setenv("LOG_LEVEL", "error")
			}
		},
	}
	rootCmd.SetOut(out)

	defaultPath := os.Getenv("DATASET_PATH")
	if defaultPath == "" {
		defaultPath = "movement-range.txt"
	}
	rootCmd.PersistentFlags().StringVarP(&opts.dataPath, "data", "d", defaultPath, "dataset file (.txt/.tsv or .xlsx)")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(summaryCmd(opts))
	rootCmd.AddCommand(countriesCmd(opts))
	rootCmd.AddCommand(regionsCmd(opts))
	rootCmd.AddCommand(seriesCmd(opts))
	rootCmd.AddCommand(countryCmd(opts))
	return rootCmd
}

func (o *options) open() (*processor.Processor, []string, error) {
	records, err := dataset.Load(o.dataPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", o.dataPath, err)
	}
	store := dataset.NewStore(records)
	// one-shot process, nothing to memoize
	return processor.New(store, 0, logger.New()), store.Countries(), nil
}

func (o *options) emit(cmd *cobra.Command, v interface{}, table func() string) error {
	if o.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), table())
	return err
}
