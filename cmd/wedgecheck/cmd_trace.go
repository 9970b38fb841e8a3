package main

import (
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/monowedge/monowedge/internal/check"
)

// traceCmd represents the trace command
var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Print a max wedge sample by sample",
	Long: `Feed uniformly random samples through a max wedge over a rolling window,
printing removals, the window maximum, and the wedge contents after each sample.
With --csv, "time;value;max" rows are written to stdout instead.

Examples:
  wedgecheck trace --samples 50 --window 5
  wedgecheck trace --csv > output.csv`,
	RunE: runTrace,
}

// Trace flags
var (
	traceSamples int
	traceWindow  int
	traceCSV     bool
)

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().IntVar(&traceSamples, "samples", 1000, "Number of samples to trace")
	traceCmd.Flags().IntVar(&traceWindow, "window", 20, "Rolling window size in samples")
	traceCmd.Flags().BoolVar(&traceCSV, "csv", false, "Write CSV rows to stdout instead of the wedge trace")
}

func runTrace(cmd *cobra.Command, args []string) error {
	backend, err := parseBackend(backendName)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	var csvOut io.Writer
	if traceCSV {
		out = io.Discard
		csvOut = os.Stdout
	}

	summary, err := check.Trace(out, csvOut, check.TraceOptions{
		Samples: traceSamples,
		Window:  traceWindow,
		Backend: backend,
		Seed:    seed,
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("samples", humanize.Comma(int64(summary.Samples))).
		Int("evictions", summary.Evictions).
		Int("max_size", summary.MaxSize).
		Str("total", humanize.SIWithDigits(summary.Total.Seconds(), 2, "s")).
		Str("p50", humanize.SIWithDigits(summary.P50.Seconds(), 2, "s")).
		Str("p99", humanize.SIWithDigits(summary.P99.Seconds(), 2, "s")).
		Msg("Trace complete")
	return nil
}
