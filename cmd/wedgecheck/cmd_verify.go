package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/monowedge/monowedge/internal/check"
	"github.com/monowedge/monowedge/internal/signal"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare wedge extrema with brute force",
	Long: `Run a min and a max wedge over synthesized signals for each window interval,
comparing every front value with the brute force extremum of the window.

Examples:
  wedgecheck verify
  wedgecheck verify --length 4096 --intervals 32,512
  wedgecheck verify --signals sine,square --backend time-indexed`,
	RunE: runVerify,
}

// Verify flags
var (
	verifyLength      int
	verifyIntervals   []int
	verifySignals     []string
	verifyConcurrency int
)

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().IntVar(&verifyLength, "length", 16384, "Number of samples per signal")
	verifyCmd.Flags().IntSliceVar(&verifyIntervals, "intervals", []int{32, 512, 4096}, "Window intervals (comma-separated)")
	verifyCmd.Flags().StringSliceVar(&verifySignals, "signals", nil, "Signals to verify (default all)")
	verifyCmd.Flags().IntVar(&verifyConcurrency, "concurrency", 0, "Cases verified at once (default GOMAXPROCS)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	backend, err := parseBackend(backendName)
	if err != nil {
		return err
	}
	var kinds []signal.Kind
	for _, name := range verifySignals {
		kind, err := signal.ParseKind(name)
		if err != nil {
			return err
		}
		kinds = append(kinds, kind)
	}

	log.Info().
		Str("command", "verify").
		Str("backend", backend.String()).
		Int("length", verifyLength).
		Ints("intervals", verifyIntervals).
		Uint64("seed", seed).
		Msg("Verifying wedges")

	start := time.Now()
	report, err := check.Verify(context.Background(), check.VerifyOptions{
		Length:      verifyLength,
		Intervals:   verifyIntervals,
		Kinds:       kinds,
		Backend:     backend,
		Seed:        seed,
		Concurrency: verifyConcurrency,
		Logger:      libraryLogger(),
	})
	if err != nil {
		return fmt.Errorf("verification aborted: %w", err)
	}

	for _, mismatch := range report.Mismatches {
		log.Warn().Msg(mismatch.String())
	}
	log.Info().
		Int("cases", len(report.Cases)).
		Uint("failed", report.Failed.Count()).
		Str("updates", humanize.Comma(int64(report.Stats.Updates))).
		Str("deletions", humanize.Comma(int64(report.Stats.Deletions))).
		Str("comparisons", humanize.Comma(int64(report.Stats.Comparisons))).
		Str("elapsed", time.Since(start).Round(time.Millisecond).String()).
		Msg("Verification complete")

	if !report.Passed() {
		return fmt.Errorf("%d of %d cases failed", report.Failed.Count(), len(report.Cases))
	}
	return nil
}
