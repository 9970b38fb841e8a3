package monowedge

import (
	"cmp"
	"iter"
	"sort"

	"github.com/gammazero/deque"

	"github.com/monowedge/monowedge/internal/util"
)

// sequence is a Wedge backed by a ring buffer deque.
type sequence[K cmp.Ordered, V any] struct {
	*base[K, V]
	samples *deque.Deque[Sample[K, V]]
}

var _ Wedge[int, any] = &sequence[int, any]{}

func newSequence[K cmp.Ordered, V any](b *base[K, V]) *sequence[K, V] {
	var samples *deque.Deque[Sample[K, V]]
	if b.capacity > 0 {
		samples = deque.New[Sample[K, V]](b.capacity)
	} else {
		samples = deque.New[Sample[K, V]]()
	}
	return &sequence[K, V]{
		base:    b,
		samples: samples,
	}
}

func (s *sequence[K, V]) Update(key K, value V) error {
	if err := s.checkKey(key); err != nil {
		return err
	}

	n := s.samples.Len()
	boundary, _ := util.TailBoundary(n, func(i int) bool {
		return s.retains(s.samples.At(i).Value, value)
	})
	for i := boundary; i < n; i++ {
		s.samples.PopBack()
	}
	s.samples.PushBack(Sample[K, V]{Key: key, Value: value})
	s.recordUpdate(key, n-boundary, s.samples.Len())
	return nil
}

func (s *sequence[K, V]) Front() (Sample[K, V], error) {
	if s.samples.Len() == 0 {
		return Sample[K, V]{}, ErrEmpty
	}
	return s.samples.Front(), nil
}

func (s *sequence[K, V]) Back() (Sample[K, V], error) {
	if s.samples.Len() == 0 {
		return Sample[K, V]{}, ErrEmpty
	}
	return s.samples.Back(), nil
}

func (s *sequence[K, V]) PopFront() (Sample[K, V], error) {
	if s.samples.Len() == 0 {
		return Sample[K, V]{}, ErrEmpty
	}
	s.stats.Evictions++
	return s.samples.PopFront(), nil
}

func (s *sequence[K, V]) EvictThrough(key K) int {
	// Keys ascend from front to back, so expired samples form a prefix
	count := sort.Search(s.samples.Len(), func(i int) bool {
		return s.samples.At(i).Key > key
	})
	for i := 0; i < count; i++ {
		s.samples.PopFront()
	}
	s.stats.Evictions += uint64(count)
	return count
}

func (s *sequence[K, V]) Get(key K) (V, bool) {
	n := s.samples.Len()
	i := sort.Search(n, func(i int) bool {
		return s.samples.At(i).Key >= key
	})
	if i < n && s.samples.At(i).Key == key {
		return s.samples.At(i).Value, true
	}
	var zero V
	return zero, false
}

func (s *sequence[K, V]) All() iter.Seq[Sample[K, V]] {
	return func(yield func(Sample[K, V]) bool) {
		for i := 0; i < s.samples.Len(); i++ {
			if !yield(s.samples.At(i)) {
				return
			}
		}
	}
}

func (s *sequence[K, V]) Len() int {
	return s.samples.Len()
}

func (s *sequence[K, V]) IsEmpty() bool {
	return s.samples.Len() == 0
}

func (s *sequence[K, V]) Reset() {
	s.samples.Clear()
	s.reset()
}
