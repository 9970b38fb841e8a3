// Package check verifies wedges against brute force extrema over synthesized signals, and traces a wedge sample by
// sample.
package check

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/monowedge/monowedge"
	"github.com/monowedge/monowedge/internal/signal"
)

// Case is a signal and window interval to verify.
type Case struct {
	Kind     signal.Kind
	Interval int
}

func (c Case) String() string {
	return fmt.Sprintf("%s/%d", c.Kind, c.Interval)
}

// Mismatch describes the first sample at which a wedge disagreed with the brute force extremum.
type Mismatch struct {
	Case      Case
	Direction monowedge.Direction
	Key       int
	Expected  float64
	Actual    float64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %s inconsistent at t=%d: wedge=%v, expected=%v", m.Case, m.Direction, m.Key, m.Actual, m.Expected)
}

// VerifyOptions configures Verify.
type VerifyOptions struct {
	// Length is the number of samples in each signal.
	Length int
	// Intervals are the window sizes to verify each signal with.
	Intervals []int
	// Kinds are the signals to verify. Every signal kind is verified if empty.
	Kinds   []signal.Kind
	Backend monowedge.Backend
	Seed    uint64
	// Concurrency limits how many cases are verified at once. Defaults to GOMAXPROCS.
	Concurrency int
	Logger      *slog.Logger
}

// Report is the outcome of Verify.
type Report struct {
	Cases []Case
	// Failed holds the indexes of failed Cases.
	Failed     *bitset.BitSet
	Mismatches []Mismatch
	Stats      monowedge.Stats
}

// Passed returns whether every case passed.
func (r *Report) Passed() bool {
	return r.Failed.None()
}

// FailedCases returns the cases that failed.
func (r *Report) FailedCases() []Case {
	var failed []Case
	for i, ok := r.Failed.NextSet(0); ok; i, ok = r.Failed.NextSet(i + 1) {
		failed = append(failed, r.Cases[i])
	}
	return failed
}

type caseResult struct {
	mismatch *Mismatch
	stats    monowedge.Stats
}

// Verify runs a min and a max wedge over every signal and interval, comparing each front value to the brute force
// extremum of the window. Each case runs in its own goroutine with its own wedges.
func Verify(ctx context.Context, opts VerifyOptions) (*Report, error) {
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = signal.Kinds()
	}
	var cases []Case
	for _, interval := range opts.Intervals {
		for _, kind := range kinds {
			cases = append(cases, Case{Kind: kind, Interval: interval})
		}
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	results := make([]caseResult, len(cases))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, c := range cases {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(opts.Seed, uint64(i)))
			values := signal.Generate(c.Kind, opts.Length, rng)
			result, err := verifyCase(ctx, c, values, opts.Backend)
			if err != nil {
				return err
			}
			results[i] = result
			if opts.Logger != nil && opts.Logger.Enabled(ctx, slog.LevelDebug) {
				opts.Logger.Debug("verified case",
					"case", c.String(),
					"passed", result.mismatch == nil,
					"deletions", result.stats.Deletions)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Cases:  cases,
		Failed: bitset.New(uint(len(cases))),
	}
	for i, result := range results {
		if result.mismatch != nil {
			report.Failed.Set(uint(i))
			report.Mismatches = append(report.Mismatches, *result.mismatch)
		}
		report.Stats.Updates += result.stats.Updates
		report.Stats.Deletions += result.stats.Deletions
		report.Stats.Evictions += result.stats.Evictions
		report.Stats.Comparisons += result.stats.Comparisons
	}
	return report, nil
}

func verifyCase(ctx context.Context, c Case, values []float64, backend monowedge.Backend) (caseResult, error) {
	minWedge := monowedge.NewBuilder[int, float64](monowedge.Min).WithBackend(backend).Build()
	maxWedge := monowedge.NewBuilder[int, float64](monowedge.Max).WithBackend(backend).Build()

	var result caseResult
	for key, value := range values {
		if key%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return result, err
			}
		}

		// A non-positive interval covers every sample so far
		if c.Interval > 0 {
			minWedge.EvictThrough(key - c.Interval)
			maxWedge.EvictThrough(key - c.Interval)
		}
		if err := minWedge.Update(key, value); err != nil {
			return result, err
		}
		if err := maxWedge.Update(key, value); err != nil {
			return result, err
		}

		if result.mismatch != nil {
			continue
		}
		refMin, refMax := signal.Reference(values, key, c.Interval)
		minFront, _ := minWedge.Front()
		maxFront, _ := maxWedge.Front()
		if minFront.Value != refMin {
			result.mismatch = &Mismatch{Case: c, Direction: monowedge.Min, Key: key, Expected: refMin, Actual: minFront.Value}
		} else if maxFront.Value != refMax {
			result.mismatch = &Mismatch{Case: c, Direction: monowedge.Max, Key: key, Expected: refMax, Actual: maxFront.Value}
		}
	}

	minStats, maxStats := minWedge.Stats(), maxWedge.Stats()
	result.stats = monowedge.Stats{
		Updates:     minStats.Updates + maxStats.Updates,
		Deletions:   minStats.Deletions + maxStats.Deletions,
		Evictions:   minStats.Evictions + maxStats.Evictions,
		Comparisons: minStats.Comparisons + maxStats.Comparisons,
	}
	return result, nil
}
