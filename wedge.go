// Package monowedge provides monotonic wedges, which maintain the running minimum or maximum of a sliding or growing
// window of keyed samples in amortized constant time per update.
//
// A wedge retains only the samples that could still become the extremum of a window: each new sample deletes every
// older sample at the back that it ties or beats, and expired samples are removed from the front by the caller. See
// the rolling package for windows that handle eviction.
package monowedge

import (
	"cmp"
	"errors"
	"iter"
)

// ErrEmpty is returned when the front, back, or oldest sample of an empty Wedge is requested.
var ErrEmpty = errors.New("wedge is empty")

// ErrOutOfOrder is returned by Update when a key is not strictly greater than the previously inserted key.
var ErrOutOfOrder = errors.New("key out of order")

// Direction selects which extremum a Wedge maintains at its front.
type Direction int

const (
	// Min maintains the minimum at the front. Values are non-decreasing from front to back.
	Min Direction = iota
	// Max maintains the maximum at the front. Values are non-increasing from front to back.
	Max
)

func (d Direction) String() string {
	switch d {
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return "unknown"
	}
}

// Backend selects how a Wedge stores its samples.
type Backend int

const (
	// Sequence stores samples in a ring buffer deque. Deletions from the back are located with a tail anchored
	// exponential probe followed by a binary search, which is amortized O(1) and worst case O(log N) per Update.
	Sequence Backend = iota

	// TimeIndexed stores samples in an ordered map keyed by sample key. Lookup by key and prefix eviction are O(log N),
	// and each deletion from the back is O(log N).
	TimeIndexed
)

func (b Backend) String() string {
	switch b {
	case Sequence:
		return "sequence"
	case TimeIndexed:
		return "time-indexed"
	default:
		return "unknown"
	}
}

// Sample is a value observed at a key, typically a tick or timestamp.
type Sample[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// Stats contains cumulative counters for a Wedge.
type Stats struct {
	// Updates is the number of successful Update calls.
	Updates uint64
	// Deletions is the number of samples deleted from the back by Update.
	Deletions uint64
	// Evictions is the number of samples removed from the front by PopFront or EvictThrough.
	Evictions uint64
	// Comparisons is the number of value comparisons performed by Update while locating deleted samples.
	Comparisons uint64
}

/*
Wedge is a monotonic sequence of samples, ordered by key from front to back and monotonic by value with respect to its
Direction, so that the front sample always holds the minimum (or maximum) of every sample currently retained.

Each Update deletes every sample at the back whose value the new value ties or beats, then appends the new sample.
Callers maintain a sliding window by removing expired samples from the front via PopFront or EvictThrough.

Keys must be strictly increasing across calls to Update. When key order checking is enabled, which is the default,
Update returns ErrOutOfOrder otherwise. When it is disabled, out of order keys are undefined behavior and may break the
monotonic invariant.

K is the sample key type and V is the sample value type. This type is not concurrency safe.
*/
type Wedge[K cmp.Ordered, V any] interface {
	// Update deletes every sample at the back of the wedge that the value dominates, including ties, then appends a new
	// sample for the key and value. Returns ErrOutOfOrder if key order checking is enabled and the key is not greater
	// than the last inserted key, in which case the wedge is not modified.
	Update(key K, value V) error

	// Front returns the oldest retained sample, which holds the extremum of the wedge, or ErrEmpty.
	Front() (Sample[K, V], error)

	// Back returns the most recently inserted sample, or ErrEmpty.
	Back() (Sample[K, V], error)

	// PopFront removes and returns the oldest retained sample, or returns ErrEmpty.
	PopFront() (Sample[K, V], error)

	// EvictThrough removes every sample with a key less than or equal to the key, returning the number removed.
	EvictThrough(key K) int

	// Get returns the value of a retained sample by its key.
	Get(key K) (V, bool)

	// All returns an iterator over the retained samples from front to back, in ascending key order.
	All() iter.Seq[Sample[K, V]]

	// Len returns the number of retained samples.
	Len() int

	// IsEmpty returns whether the wedge holds no samples.
	IsEmpty() bool

	// Direction returns the direction of the wedge.
	Direction() Direction

	// Stats returns the cumulative counters for the wedge.
	Stats() Stats

	// Reset removes all samples and clears the last inserted key and stats.
	Reset()
}

// New returns a new Wedge for the direction using the Sequence backend.
func New[K cmp.Ordered, V cmp.Ordered](direction Direction) Wedge[K, V] {
	return NewBuilder[K, V](direction).Build()
}

// NewMin returns a new min Wedge using the Sequence backend.
func NewMin[K cmp.Ordered, V cmp.Ordered]() Wedge[K, V] {
	return New[K, V](Min)
}

// NewMax returns a new max Wedge using the Sequence backend.
func NewMax[K cmp.Ordered, V cmp.Ordered]() Wedge[K, V] {
	return New[K, V](Max)
}
