package check

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/influxdata/tdigest"

	"github.com/monowedge/monowedge"
)

// TraceOptions configures Trace.
type TraceOptions struct {
	// Samples is the number of uniformly random samples to trace.
	Samples int
	// Window is the number of most recent samples the maximum is taken over.
	Window  int
	Backend monowedge.Backend
	Seed    uint64
}

// TraceSummary summarizes the update times recorded by Trace.
type TraceSummary struct {
	Samples   int
	Evictions int
	MaxSize   int
	Total     time.Duration
	P50       time.Duration
	P99       time.Duration
}

// Trace feeds random samples through a max wedge, evicting samples older than the window. The removals, the window
// maximum, and the wedge contents are written to out after each sample. If csvOut is not nil, a "time;value;max" row
// is written to it per sample.
func Trace(out io.Writer, csvOut io.Writer, opts TraceOptions) (TraceSummary, error) {
	if opts.Window <= 0 {
		return TraceSummary{}, fmt.Errorf("window must be positive, got %d", opts.Window)
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	wedge := monowedge.NewBuilder[int, float64](monowedge.Max).WithBackend(opts.Backend).Build()
	durations := tdigest.NewWithCompression(100)

	var csvWriter *csv.Writer
	if csvOut != nil {
		csvWriter = csv.NewWriter(csvOut)
		csvWriter.Comma = ';'
	}

	var summary TraceSummary
	var removed []monowedge.Sample[int, float64]
	for key := 0; key < opts.Samples; key++ {
		value := rng.Float64()
		removed = removed[:0]

		start := time.Now()
		if err := wedge.Update(key, value); err != nil {
			return summary, err
		}
		for {
			front, _ := wedge.Front()
			if front.Key > key-opts.Window {
				break
			}
			sample, _ := wedge.PopFront()
			removed = append(removed, sample)
		}
		maximum, _ := wedge.Front()
		elapsed := time.Since(start)

		summary.Samples++
		summary.Evictions += len(removed)
		summary.Total += elapsed
		summary.MaxSize = max(summary.MaxSize, wedge.Len())
		durations.Add(float64(elapsed), 1)

		for _, sample := range removed {
			if _, err := fmt.Fprintf(out, "  - Remove %s (older than %d)\n", formatSample(sample), opts.Window); err != nil {
				return summary, err
			}
		}
		var contents []string
		for sample := range wedge.All() {
			contents = append(contents, formatSample(sample))
		}
		current := monowedge.Sample[int, float64]{Key: key, Value: value}
		if _, err := fmt.Fprintf(out, "%s\tMax=%s\n   Wedge: %s\n\n", formatSample(current), formatSample(maximum),
			strings.Join(contents, "\t")); err != nil {
			return summary, err
		}

		if csvWriter != nil {
			if err := csvWriter.Write([]string{
				strconv.Itoa(key),
				strconv.FormatFloat(value, 'g', -1, 64),
				strconv.FormatFloat(maximum.Value, 'g', -1, 64),
			}); err != nil {
				return summary, err
			}
		}
	}

	if csvWriter != nil {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return summary, err
		}
	}
	if summary.Samples > 0 {
		summary.P50 = time.Duration(durations.Quantile(.5))
		summary.P99 = time.Duration(durations.Quantile(.99))
	}
	return summary, nil
}

func formatSample(sample monowedge.Sample[int, float64]) string {
	return fmt.Sprintf("%d/%s", sample.Key, strconv.FormatFloat(sample.Value, 'f', 4, 64))
}
