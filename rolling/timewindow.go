package rolling

import (
	"cmp"
	"time"

	"github.com/monowedge/monowedge/internal/util"
)

// TimeWindow tracks the minimum and maximum of the samples added within a duration of the current time. Samples whose age
// has reached the duration are expired after each Add and before each query. A duration of zero or less never expires
// samples.
//
// Samples that are added with a time at or before the previously added sample are treated as if they arrived one
// nanosecond after it.
//
// V is the sample value type. This type is not concurrency safe.
type TimeWindow[V cmp.Ordered] struct {
	clock  util.Clock
	window Window[int64, V]

	// Mutable state
	lastNanos int64
	hasLast   bool
}

// NewTimeWindow returns a new TimeWindow that tracks samples added within the maxDuration.
func NewTimeWindow[V cmp.Ordered](maxDuration time.Duration) *TimeWindow[V] {
	return newTimeWindow[V](maxDuration, util.NewClock())
}

func newTimeWindow[V cmp.Ordered](maxDuration time.Duration, clock util.Clock) *TimeWindow[V] {
	return &TimeWindow[V]{
		clock:  clock,
		window: New[int64, V](maxDuration.Nanoseconds()),
	}
}

// Add adds a sample at the current time.
func (w *TimeWindow[V]) Add(value V) {
	w.add(value, w.clock.CurrentUnixNano())
}

// AddWithTime adds a sample with an explicit timestamp. This is useful for testing or when samples are collected at a
// specific time.
func (w *TimeWindow[V]) AddWithTime(value V, timestamp time.Time) {
	w.add(value, timestamp.UnixNano())
}

func (w *TimeWindow[V]) add(value V, nanos int64) {
	if w.hasLast && nanos <= w.lastNanos {
		nanos = w.lastNanos + 1
	}
	w.lastNanos = nanos
	w.hasLast = true

	// Keys are forced to increase, so this cannot fail
	_ = w.window.Add(nanos, value)
}

// Min returns the minimum value added within the duration, or monowedge.ErrEmpty.
func (w *TimeWindow[V]) Min() (V, error) {
	w.expire()
	return w.window.Min()
}

// Max returns the maximum value added within the duration, or monowedge.ErrEmpty.
func (w *TimeWindow[V]) Max() (V, error) {
	w.expire()
	return w.window.Max()
}

// Duration returns the max duration of the window.
func (w *TimeWindow[V]) Duration() time.Duration {
	return time.Duration(w.window.Span())
}

// Reset removes all samples from the window.
func (w *TimeWindow[V]) Reset() {
	w.window.Reset()
	w.lastNanos = 0
	w.hasLast = false
}

func (w *TimeWindow[V]) expire() {
	w.window.EvictExpired(w.clock.CurrentUnixNano())
}
