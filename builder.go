package monowedge

import (
	"cmp"
	"log/slog"
)

/*
Builder builds Wedge instances.

This type is not concurrency safe.
*/
type Builder[K cmp.Ordered, V any] interface {
	// WithBackend configures how samples are stored.
	// The default value is Sequence.
	WithBackend(backend Backend) Builder[K, V]

	// WithCapacity configures the number of samples the Sequence backend preallocates room for. It has no effect on the
	// TimeIndexed backend.
	// The default value is 0, which uses the deque's minimum capacity.
	WithCapacity(capacity int) Builder[K, V]

	// WithKeyOrderCheck configures whether Update verifies that keys are strictly increasing, returning ErrOutOfOrder
	// when they are not. Disabling this trusts the caller, and out of order keys become undefined behavior.
	// The default value is true.
	WithKeyOrderCheck(enabled bool) Builder[K, V]

	// WithLogger configures a logger which provides debug logging of back deletions.
	WithLogger(logger *slog.Logger) Builder[K, V]

	// Build returns a new Wedge using the builder's configuration.
	Build() Wedge[K, V]
}

type config[K cmp.Ordered, V any] struct {
	direction     Direction
	compare       func(a, b V) int
	backend       Backend
	capacity      int
	checkKeyOrder bool
	logger        *slog.Logger
}

var _ Builder[int, any] = &config[int, any]{}

// NewBuilder returns a Builder for a Wedge in the direction whose values are ordered naturally.
func NewBuilder[K cmp.Ordered, V cmp.Ordered](direction Direction) Builder[K, V] {
	return NewBuilderWithCompare[K, V](direction, cmp.Compare[V])
}

// NewBuilderWithCompare returns a Builder for a Wedge in the direction whose values are ordered by the compare func,
// which returns a negative number when a < b, a positive number when a > b, and zero otherwise.
func NewBuilderWithCompare[K cmp.Ordered, V any](direction Direction, compare func(a, b V) int) Builder[K, V] {
	return &config[K, V]{
		direction:     direction,
		compare:       compare,
		checkKeyOrder: true,
	}
}

func (c *config[K, V]) WithBackend(backend Backend) Builder[K, V] {
	c.backend = backend
	return c
}

func (c *config[K, V]) WithCapacity(capacity int) Builder[K, V] {
	c.capacity = capacity
	return c
}

func (c *config[K, V]) WithKeyOrderCheck(enabled bool) Builder[K, V] {
	c.checkKeyOrder = enabled
	return c
}

func (c *config[K, V]) WithLogger(logger *slog.Logger) Builder[K, V] {
	c.logger = logger
	return c
}

func (c *config[K, V]) Build() Wedge[K, V] {
	cc := *c
	b := &base[K, V]{config: &cc}
	switch c.backend {
	case TimeIndexed:
		return newTimeIndexed(b)
	default:
		return newSequence(b)
	}
}
