package rolling

import (
	"cmp"
	"context"
	"log/slog"

	"github.com/monowedge/monowedge"
)

// Number is a key type that supports the arithmetic needed to compute window boundaries.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

/*
Window tracks the minimum and maximum of the samples whose keys fall within a span of the most recently added key.
After each Add, samples with new key - key >= span are evicted, so for integer keys and a span W the window covers
[key-W+1, key]. A span of zero or less never evicts, which tracks the extrema of every sample added so far.

Keys must be strictly increasing across calls to Add.

K is the sample key type and V is the sample value type. This type is not concurrency safe.
*/
type Window[K Number, V cmp.Ordered] interface {
	// Add adds a sample to the window then evicts samples that fall outside the span. Returns
	// monowedge.ErrOutOfOrder if the key is not greater than the previously added key.
	Add(key K, value V) error

	// EvictExpired evicts samples that fall outside the span relative to the key without adding a sample, returning the
	// number of samples removed across both the min and max wedges.
	EvictExpired(key K) int

	// Min returns the minimum value in the window, or monowedge.ErrEmpty.
	Min() (V, error)

	// Max returns the maximum value in the window, or monowedge.ErrEmpty.
	Max() (V, error)

	// Extrema returns the minimum and maximum values in the window, or monowedge.ErrEmpty.
	Extrema() (minValue V, maxValue V, err error)

	// Span returns the span of the window.
	Span() K

	// Latest returns the key of the most recently added sample, or false if no sample was added since the window was
	// built or reset.
	Latest() (K, bool)

	// Reset removes all samples from the window.
	Reset()
}

// EvictedEvent indicates a sample was evicted from the front of a window's min or max wedge.
type EvictedEvent[K Number, V cmp.Ordered] struct {
	Direction monowedge.Direction
	Sample    monowedge.Sample[K, V]
}

/*
Builder builds Window instances.

This type is not concurrency safe.
*/
type Builder[K Number, V cmp.Ordered] interface {
	// WithBackend configures how the window's wedges store samples.
	// The default value is monowedge.Sequence.
	WithBackend(backend monowedge.Backend) Builder[K, V]

	// WithLogger configures a logger which provides debug logging of evictions.
	WithLogger(logger *slog.Logger) Builder[K, V]

	// OnEvicted configures a listener to be called when a sample is evicted from the window's min or max wedge.
	OnEvicted(listener func(event EvictedEvent[K, V])) Builder[K, V]

	// Build returns a new Window using the builder's configuration.
	Build() Window[K, V]
}

type config[K Number, V cmp.Ordered] struct {
	span            K
	backend         monowedge.Backend
	logger          *slog.Logger
	evictedListener func(EvictedEvent[K, V])
}

var _ Builder[int, int] = &config[int, int]{}

// NewBuilder returns a Builder for a Window over the span.
func NewBuilder[K Number, V cmp.Ordered](span K) Builder[K, V] {
	return &config[K, V]{
		span: span,
	}
}

// New returns a new Window over the span using the default configuration.
func New[K Number, V cmp.Ordered](span K) Window[K, V] {
	return NewBuilder[K, V](span).Build()
}

func (c *config[K, V]) WithBackend(backend monowedge.Backend) Builder[K, V] {
	c.backend = backend
	return c
}

func (c *config[K, V]) WithLogger(logger *slog.Logger) Builder[K, V] {
	c.logger = logger
	return c
}

func (c *config[K, V]) OnEvicted(listener func(event EvictedEvent[K, V])) Builder[K, V] {
	c.evictedListener = listener
	return c
}

func (c *config[K, V]) Build() Window[K, V] {
	cc := *c
	return &window[K, V]{
		config:   &cc,
		minWedge: monowedge.NewBuilder[K, V](monowedge.Min).WithBackend(c.backend).WithLogger(c.logger).Build(),
		maxWedge: monowedge.NewBuilder[K, V](monowedge.Max).WithBackend(c.backend).WithLogger(c.logger).Build(),
	}
}

type window[K Number, V cmp.Ordered] struct {
	*config[K, V]

	// Mutable state
	minWedge  monowedge.Wedge[K, V]
	maxWedge  monowedge.Wedge[K, V]
	latest    K
	hasLatest bool
}

var _ Window[int, int] = &window[int, int]{}

func (w *window[K, V]) Add(key K, value V) error {
	if err := w.minWedge.Update(key, value); err != nil {
		return err
	}
	if err := w.maxWedge.Update(key, value); err != nil {
		return err
	}
	w.latest = key
	w.hasLatest = true
	w.EvictExpired(key)
	return nil
}

func (w *window[K, V]) EvictExpired(key K) int {
	if w.span <= 0 {
		return 0
	}
	return w.evict(w.minWedge, key) + w.evict(w.maxWedge, key)
}

// evict pops samples from the front of the wedge while they are outside the span of the key. The age is only computed
// for samples at or before the key, which avoids underflow for unsigned keys and overflow for large spans.
func (w *window[K, V]) evict(wedge monowedge.Wedge[K, V], key K) int {
	evicted := 0
	for {
		front, err := wedge.Front()
		if err != nil || front.Key > key || key-front.Key < w.span {
			return evicted
		}
		_, _ = wedge.PopFront()
		evicted++

		if w.logger != nil && w.logger.Enabled(context.Background(), slog.LevelDebug) {
			w.logger.Debug("evicted sample",
				"direction", wedge.Direction(),
				"key", front.Key,
				"value", front.Value,
				"span", w.span)
		}
		if w.evictedListener != nil {
			w.evictedListener(EvictedEvent[K, V]{
				Direction: wedge.Direction(),
				Sample:    front,
			})
		}
	}
}

func (w *window[K, V]) Min() (V, error) {
	front, err := w.minWedge.Front()
	return front.Value, err
}

func (w *window[K, V]) Max() (V, error) {
	front, err := w.maxWedge.Front()
	return front.Value, err
}

func (w *window[K, V]) Extrema() (minValue V, maxValue V, err error) {
	if minValue, err = w.Min(); err != nil {
		return minValue, maxValue, err
	}
	maxValue, err = w.Max()
	return minValue, maxValue, err
}

func (w *window[K, V]) Span() K {
	return w.span
}

func (w *window[K, V]) Latest() (K, bool) {
	return w.latest, w.hasLatest
}

func (w *window[K, V]) Reset() {
	w.minWedge.Reset()
	w.maxWedge.Reset()
	var zero K
	w.latest = zero
	w.hasLatest = false
}
