package monowedge

import (
	"cmp"
	"iter"

	"github.com/google/btree"
)

const btreeDegree = 16

// timeIndexed is a Wedge backed by a B-tree ordered by sample key.
type timeIndexed[K cmp.Ordered, V any] struct {
	*base[K, V]
	samples *btree.BTreeG[Sample[K, V]]
}

var _ Wedge[int, any] = &timeIndexed[int, any]{}

func newTimeIndexed[K cmp.Ordered, V any](b *base[K, V]) *timeIndexed[K, V] {
	return &timeIndexed[K, V]{
		base: b,
		samples: btree.NewG[Sample[K, V]](btreeDegree, func(a, b Sample[K, V]) bool {
			return a.Key < b.Key
		}),
	}
}

func (t *timeIndexed[K, V]) Update(key K, value V) error {
	if err := t.checkKey(key); err != nil {
		return err
	}

	// Values are monotonic by key, so dominated samples are found by walking back from the newest
	deleted := 0
	for {
		newest, ok := t.samples.Max()
		if !ok || t.retains(newest.Value, value) {
			break
		}
		t.samples.DeleteMax()
		deleted++
	}
	t.samples.ReplaceOrInsert(Sample[K, V]{Key: key, Value: value})
	t.recordUpdate(key, deleted, t.samples.Len())
	return nil
}

func (t *timeIndexed[K, V]) Front() (Sample[K, V], error) {
	oldest, ok := t.samples.Min()
	if !ok {
		return Sample[K, V]{}, ErrEmpty
	}
	return oldest, nil
}

func (t *timeIndexed[K, V]) Back() (Sample[K, V], error) {
	newest, ok := t.samples.Max()
	if !ok {
		return Sample[K, V]{}, ErrEmpty
	}
	return newest, nil
}

func (t *timeIndexed[K, V]) PopFront() (Sample[K, V], error) {
	oldest, ok := t.samples.DeleteMin()
	if !ok {
		return Sample[K, V]{}, ErrEmpty
	}
	t.stats.Evictions++
	return oldest, nil
}

func (t *timeIndexed[K, V]) EvictThrough(key K) int {
	count := 0
	for {
		oldest, ok := t.samples.Min()
		if !ok || oldest.Key > key {
			break
		}
		t.samples.DeleteMin()
		count++
	}
	t.stats.Evictions += uint64(count)
	return count
}

func (t *timeIndexed[K, V]) Get(key K) (V, bool) {
	sample, ok := t.samples.Get(Sample[K, V]{Key: key})
	return sample.Value, ok
}

func (t *timeIndexed[K, V]) All() iter.Seq[Sample[K, V]] {
	return func(yield func(Sample[K, V]) bool) {
		t.samples.Ascend(func(sample Sample[K, V]) bool {
			return yield(sample)
		})
	}
}

func (t *timeIndexed[K, V]) Len() int {
	return t.samples.Len()
}

func (t *timeIndexed[K, V]) IsEmpty() bool {
	return t.samples.Len() == 0
}

func (t *timeIndexed[K, V]) Reset() {
	t.samples.Clear(false)
	t.reset()
}
