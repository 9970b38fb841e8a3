package testutil

import (
	"cmp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/monowedge/monowedge"
)

// Samples collects the samples of a wedge from front to back.
func Samples[K cmp.Ordered, V any](w monowedge.Wedge[K, V]) []monowedge.Sample[K, V] {
	return slices.Collect(w.All())
}

// Values collects the sample values of a wedge from front to back.
func Values[K cmp.Ordered, V any](w monowedge.Wedge[K, V]) []V {
	var values []V
	for sample := range w.All() {
		values = append(values, sample.Value)
	}
	return values
}

// AssertMonotonic asserts that a wedge's keys strictly ascend and its values are strictly increasing for a min wedge,
// or strictly decreasing for a max wedge, from front to back.
func AssertMonotonic[K cmp.Ordered, V cmp.Ordered](t *testing.T, w monowedge.Wedge[K, V]) bool {
	t.Helper()
	samples := Samples(w)
	if !assert.Equal(t, w.Len(), len(samples)) {
		return false
	}
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		if !assert.Less(t, prev.Key, cur.Key, "keys not ascending at %d", i) {
			return false
		}
		if w.Direction() == monowedge.Min {
			if !assert.Less(t, prev.Value, cur.Value, "min wedge not increasing at %d", i) {
				return false
			}
		} else if !assert.Greater(t, prev.Value, cur.Value, "max wedge not decreasing at %d", i) {
			return false
		}
	}
	return true
}

// AssertFront asserts the key and value of a wedge's front sample.
func AssertFront[K cmp.Ordered, V any](t *testing.T, w monowedge.Wedge[K, V], expectedKey K, expectedValue V) {
	t.Helper()
	front, err := w.Front()
	if assert.NoError(t, err) {
		assert.Equal(t, expectedKey, front.Key)
		assert.Equal(t, expectedValue, front.Value)
	}
}
