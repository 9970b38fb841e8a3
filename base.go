package monowedge

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
)

// base holds the state shared by every backend: configuration, the last inserted key, and stats.
type base[K cmp.Ordered, V any] struct {
	*config[K, V]

	// Mutable state
	lastKey K
	hasLast bool
	stats   Stats
}

// retains returns whether an existing value survives the insertion of an incoming value. Ties do not survive.
func (b *base[K, V]) retains(existing, incoming V) bool {
	b.stats.Comparisons++
	if b.direction == Max {
		return b.compare(existing, incoming) > 0
	}
	return b.compare(existing, incoming) < 0
}

func (b *base[K, V]) checkKey(key K) error {
	if b.checkKeyOrder && b.hasLast && key <= b.lastKey {
		return fmt.Errorf("%w: %v is not after %v", ErrOutOfOrder, key, b.lastKey)
	}
	return nil
}

func (b *base[K, V]) recordUpdate(key K, deleted int, size int) {
	b.lastKey = key
	b.hasLast = true
	b.stats.Updates++
	b.stats.Deletions += uint64(deleted)

	if deleted > 0 && b.logger != nil && b.logger.Enabled(context.Background(), slog.LevelDebug) {
		b.logger.Debug("wedge update",
			"direction", b.direction,
			"key", key,
			"deleted", deleted,
			"size", size)
	}
}

func (b *base[K, V]) Direction() Direction {
	return b.direction
}

func (b *base[K, V]) Stats() Stats {
	return b.stats
}

func (b *base[K, V]) reset() {
	var zero K
	b.lastKey = zero
	b.hasLast = false
	b.stats = Stats{}
}
