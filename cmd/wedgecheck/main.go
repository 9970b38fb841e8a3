package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/monowedge/monowedge"
)

var (
	debug       bool
	backendName string
	seed        uint64
)

// rootCmd is the base command for the wedgecheck CLI
var rootCmd = &cobra.Command{
	Use:   "wedgecheck",
	Short: "Verify and trace monotonic wedges",
	Long: `wedgecheck exercises monotonic wedges, which maintain the running minimum
or maximum of a sliding window in amortized constant time per sample.

Available subcommands:
  verify   - Compare wedge extrema with brute force over synthesized signals
  trace    - Print a max wedge sample by sample, optionally as CSV`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "sequence", "Wedge backend (sequence|time-indexed)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 1, "Seed for synthesized signals")
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("wedgecheck failed")
		os.Exit(1)
	}
}

func parseBackend(name string) (monowedge.Backend, error) {
	switch name {
	case monowedge.Sequence.String():
		return monowedge.Sequence, nil
	case monowedge.TimeIndexed.String():
		return monowedge.TimeIndexed, nil
	default:
		return 0, fmt.Errorf("unknown backend %q", name)
	}
}

// libraryLogger returns a debug logger for library packages when debug logging is enabled.
func libraryLogger() *slog.Logger {
	if !debug {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
