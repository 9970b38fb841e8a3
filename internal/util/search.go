package util

import "sort"

// TailBoundary returns the index of the first element of a sequence of length n for which retained reports false, given
// that retained is true for some prefix of the sequence and false for the remaining suffix. It also returns the number
// of times retained was called.
//
// The search is anchored at the tail: it first probes backwards at distances 1, 2, 4, ... until a retained element is
// found or the front is passed, then binary searches the bracketed range. When k elements are not retained, this costs
// O(log k) probes, and never more than about 2*log2(n)+1.
func TailBoundary(n int, retained func(i int) bool) (boundary int, probes int) {
	if n == 0 {
		return 0, 0
	}

	// hi is always a known non-retained index, or n
	hi := n
	lo := 0
	for step := 1; ; step <<= 1 {
		i := hi - step
		if i < 0 {
			break
		}
		probes++
		if retained(i) {
			lo = i + 1
			break
		}
		hi = i
		if i == 0 {
			return 0, probes
		}
	}

	if lo >= hi {
		return hi, probes
	}
	offset := sort.Search(hi-lo, func(j int) bool {
		probes++
		return !retained(lo + j)
	})
	return lo + offset, probes
}
