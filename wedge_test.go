package monowedge_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math/bits"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monowedge/monowedge"
	"github.com/monowedge/monowedge/internal/signal"
	"github.com/monowedge/monowedge/internal/testutil"
)

var backends = []monowedge.Backend{monowedge.Sequence, monowedge.TimeIndexed}

func newWedge[V float64 | int](backend monowedge.Backend, direction monowedge.Direction) monowedge.Wedge[int, V] {
	return monowedge.NewBuilder[int, V](direction).WithBackend(backend).Build()
}

func forEachBackend(t *testing.T, fn func(t *testing.T, backend monowedge.Backend)) {
	for _, backend := range backends {
		t.Run(backend.String(), func(t *testing.T) {
			fn(t, backend)
		})
	}
}

func TestEmptyWedge(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		w := newWedge[int](backend, monowedge.Min)

		_, err := w.Front()
		assert.ErrorIs(t, err, monowedge.ErrEmpty)
		_, err = w.Back()
		assert.ErrorIs(t, err, monowedge.ErrEmpty)
		_, err = w.PopFront()
		assert.ErrorIs(t, err, monowedge.ErrEmpty)
		assert.True(t, w.IsEmpty())
		assert.Equal(t, 0, w.Len())
		assert.Equal(t, 0, w.EvictThrough(100))
		assert.Empty(t, testutil.Samples(w))
		assert.Equal(t, uint64(0), w.Stats().Evictions)
	})
}

func TestMaxWedgeWindow(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		w := newWedge[int](backend, monowedge.Max)
		window := 3
		var fronts []int
		for key, value := range []int{5, 3, 8, 1} {
			require.NoError(t, w.Update(key, value))
			for {
				front, err := w.Front()
				require.NoError(t, err)
				if front.Key > key-window {
					break
				}
				_, err = w.PopFront()
				require.NoError(t, err)
			}
			front, _ := w.Front()
			fronts = append(fronts, front.Value)
		}

		assert.Equal(t, []int{5, 5, 8, 8}, fronts)
		assert.Equal(t, []int{8, 1}, testutil.Values(w))
	})
}

func TestTiesReplaceOlderSamples(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		for _, direction := range []monowedge.Direction{monowedge.Min, monowedge.Max} {
			t.Run(direction.String(), func(t *testing.T) {
				w := newWedge[int](backend, direction)
				require.NoError(t, w.Update(0, 4))
				require.NoError(t, w.Update(1, 4))

				assert.Equal(t, 1, w.Len())
				testutil.AssertFront(t, w, 1, 4)
				assert.Equal(t, uint64(1), w.Stats().Deletions)
			})
		}
	})
}

func TestUpdate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		t.Run("min wedge keeps increasing values", func(t *testing.T) {
			w := newWedge[int](backend, monowedge.Min)
			for key, value := range []int{3, 1, 4, 1, 5, 9, 2, 6} {
				require.NoError(t, w.Update(key, value))
				testutil.AssertMonotonic(t, w)
			}
			assert.Equal(t, []monowedge.Sample[int, int]{{3, 1}, {6, 2}, {7, 6}}, testutil.Samples(w))
		})

		t.Run("max wedge keeps decreasing values", func(t *testing.T) {
			w := newWedge[int](backend, monowedge.Max)
			for key, value := range []int{3, 1, 4, 1, 5, 9, 2, 6} {
				require.NoError(t, w.Update(key, value))
				testutil.AssertMonotonic(t, w)
			}
			assert.Equal(t, []monowedge.Sample[int, int]{{5, 9}, {7, 6}}, testutil.Samples(w))
		})

		t.Run("dominating value clears the wedge", func(t *testing.T) {
			w := newWedge[int](backend, monowedge.Max)
			for key := 0; key < 100; key++ {
				require.NoError(t, w.Update(key, 100-key))
			}
			assert.Equal(t, 100, w.Len())

			require.NoError(t, w.Update(100, 1000))
			assert.Equal(t, 1, w.Len())
			testutil.AssertFront(t, w, 100, 1000)
			assert.Equal(t, uint64(100), w.Stats().Deletions)
		})

		t.Run("keys need not be consecutive", func(t *testing.T) {
			w := newWedge[int](backend, monowedge.Min)
			require.NoError(t, w.Update(10, 5))
			require.NoError(t, w.Update(200, 7))
			require.NoError(t, w.Update(3000, 6))
			assert.Equal(t, []int{5, 6}, testutil.Values(w))
			back, err := w.Back()
			require.NoError(t, err)
			assert.Equal(t, 3000, back.Key)
		})
	})
}

func TestKeyOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		t.Run("out of order keys are rejected", func(t *testing.T) {
			w := newWedge[int](backend, monowedge.Min)
			require.NoError(t, w.Update(5, 1))

			err := w.Update(5, 0)
			assert.ErrorIs(t, err, monowedge.ErrOutOfOrder)
			assert.True(t, strings.Contains(err.Error(), "5 is not after 5"))
			err = w.Update(4, 0)
			assert.True(t, errors.Is(err, monowedge.ErrOutOfOrder))

			// Rejected updates leave the wedge unchanged
			assert.Equal(t, []monowedge.Sample[int, int]{{5, 1}}, testutil.Samples(w))
			assert.Equal(t, uint64(1), w.Stats().Updates)
		})

		t.Run("unchecked keys are trusted", func(t *testing.T) {
			w := monowedge.NewBuilder[int, int](monowedge.Max).
				WithBackend(backend).
				WithKeyOrderCheck(false).
				Build()
			require.NoError(t, w.Update(5, 1))
			assert.NoError(t, w.Update(4, 2))
		})

		t.Run("keys are checked after evicting everything", func(t *testing.T) {
			w := newWedge[int](backend, monowedge.Min)
			require.NoError(t, w.Update(5, 1))
			_, err := w.PopFront()
			require.NoError(t, err)
			assert.ErrorIs(t, w.Update(3, 1), monowedge.ErrOutOfOrder)
		})
	})
}

func TestPopFront(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		w := newWedge[int](backend, monowedge.Min)
		for key, value := range []int{1, 2, 3} {
			require.NoError(t, w.Update(key, value))
		}

		for key, value := range []int{1, 2, 3} {
			sample, err := w.PopFront()
			require.NoError(t, err)
			assert.Equal(t, monowedge.Sample[int, int]{Key: key, Value: value}, sample)
		}
		_, err := w.PopFront()
		assert.ErrorIs(t, err, monowedge.ErrEmpty)
		assert.Equal(t, uint64(3), w.Stats().Evictions)
	})
}

func TestEvictThrough(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		w := newWedge[int](backend, monowedge.Min)
		for key := 0; key < 10; key++ {
			require.NoError(t, w.Update(key*10, key))
		}

		assert.Equal(t, 0, w.EvictThrough(-1))
		assert.Equal(t, 3, w.EvictThrough(25))
		testutil.AssertFront(t, w, 30, 3)
		assert.Equal(t, 1, w.EvictThrough(30))
		testutil.AssertFront(t, w, 40, 4)
		assert.Equal(t, 6, w.EvictThrough(1000))
		assert.True(t, w.IsEmpty())
		assert.Equal(t, uint64(10), w.Stats().Evictions)
	})
}

func TestEvictThroughMatchesPopFront(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		values := signal.Generate(signal.NoisySine, 2000, rand.New(rand.NewPCG(3, 4)))
		evicted := newWedge[float64](backend, monowedge.Max)
		popped := newWedge[float64](backend, monowedge.Max)
		window := 50

		for key, value := range values {
			require.NoError(t, evicted.Update(key, value))
			require.NoError(t, popped.Update(key, value))

			evicted.EvictThrough(key - window)
			for {
				front, err := popped.Front()
				require.NoError(t, err)
				if front.Key > key-window {
					break
				}
				_, _ = popped.PopFront()
			}

			require.Equal(t, testutil.Samples(popped), testutil.Samples(evicted))
		}
	})
}

func TestGet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		w := newWedge[int](backend, monowedge.Max)
		for key, value := range []int{9, 3, 7, 5} {
			require.NoError(t, w.Update(key*2, value))
		}

		value, ok := w.Get(0)
		assert.True(t, ok)
		assert.Equal(t, 9, value)
		value, ok = w.Get(6)
		assert.True(t, ok)
		assert.Equal(t, 5, value)

		// Deleted, never inserted, and out of range keys
		_, ok = w.Get(2)
		assert.False(t, ok)
		_, ok = w.Get(3)
		assert.False(t, ok)
		_, ok = w.Get(100)
		assert.False(t, ok)
	})
}

func TestAll(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		w := newWedge[int](backend, monowedge.Min)
		for key := 0; key < 5; key++ {
			require.NoError(t, w.Update(key, key))
		}

		t.Run("restartable", func(t *testing.T) {
			assert.Equal(t, testutil.Values(w), testutil.Values(w))
			assert.Equal(t, []int{0, 1, 2, 3, 4}, testutil.Values(w))
		})

		t.Run("stops early", func(t *testing.T) {
			var keys []int
			for sample := range w.All() {
				if sample.Key == 2 {
					break
				}
				keys = append(keys, sample.Key)
			}
			assert.Equal(t, []int{0, 1}, keys)
		})
	})
}

func TestReset(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		w := newWedge[int](backend, monowedge.Min)
		require.NoError(t, w.Update(10, 1))
		require.NoError(t, w.Update(11, 2))

		w.Reset()
		assert.True(t, w.IsEmpty())
		assert.Equal(t, monowedge.Stats{}, w.Stats())
		assert.NoError(t, w.Update(0, 1), "last key should be cleared")
	})
}

func TestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1024))
	for _, kind := range signal.Kinds() {
		values := signal.Generate(kind, 4096, rng)
		for _, interval := range []int{1, 32, 512} {
			for _, backend := range backends {
				minWedge := newWedge[float64](backend, monowedge.Min)
				maxWedge := newWedge[float64](backend, monowedge.Max)

				for key, value := range values {
					minWedge.EvictThrough(key - interval)
					maxWedge.EvictThrough(key - interval)
					require.NoError(t, minWedge.Update(key, value))
					require.NoError(t, maxWedge.Update(key, value))

					refMin, refMax := signal.Reference(values, key, interval)
					minFront, err := minWedge.Front()
					require.NoError(t, err)
					maxFront, err := maxWedge.Front()
					require.NoError(t, err)
					require.Equal(t, refMin, minFront.Value, "%s/%d/%s min at %d", kind, interval, backend, key)
					require.Equal(t, refMax, maxFront.Value, "%s/%d/%s max at %d", kind, interval, backend, key)
				}

				testutil.AssertMonotonic(t, minWedge)
				testutil.AssertMonotonic(t, maxWedge)
			}
		}
	}
}

func TestBackendsAgree(t *testing.T) {
	values := signal.Generate(signal.Red, 3000, rand.New(rand.NewPCG(5, 6)))
	sequence := newWedge[float64](monowedge.Sequence, monowedge.Min)
	timeIndexed := newWedge[float64](monowedge.TimeIndexed, monowedge.Min)

	for key, value := range values {
		require.NoError(t, sequence.Update(key, value))
		require.NoError(t, timeIndexed.Update(key, value))
		if key%7 == 0 {
			sequence.EvictThrough(key - 100)
			timeIndexed.EvictThrough(key - 100)
		}
	}

	assert.Equal(t, testutil.Samples(sequence), testutil.Samples(timeIndexed))
	assert.Equal(t, sequence.Stats().Deletions, timeIndexed.Stats().Deletions)
	assert.Equal(t, sequence.Stats().Evictions, timeIndexed.Stats().Evictions)
}

func TestAmortizedCost(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		for _, kind := range signal.Kinds() {
			t.Run(string(kind), func(t *testing.T) {
				n := 10000
				values := signal.Generate(kind, n, rand.New(rand.NewPCG(9, 9)))
				w := newWedge[float64](backend, monowedge.Max)
				for key, value := range values {
					require.NoError(t, w.Update(key, value))
				}

				stats := w.Stats()
				assert.Equal(t, uint64(n), stats.Updates)
				assert.LessOrEqual(t, stats.Deletions, uint64(n))
				assert.Equal(t, uint64(n), stats.Deletions+uint64(w.Len()))
				assert.LessOrEqual(t, stats.Comparisons, uint64(4*n))
			})
		}
	})
}

func TestWorstCaseUpdateIsLogarithmic(t *testing.T) {
	for _, size := range []int{1, 2, 100, 1000, 65536} {
		w := newWedge[int](monowedge.Sequence, monowedge.Min)
		for key := 0; key < size; key++ {
			require.NoError(t, w.Update(key, key))
		}

		// Delete roughly half of the wedge in one update
		before := w.Stats().Comparisons
		require.NoError(t, w.Update(size, size/2))
		comparisons := w.Stats().Comparisons - before

		assert.LessOrEqual(t, comparisons, uint64(2*bits.Len(uint(size))+1), "size=%d", size)
		testutil.AssertMonotonic(t, w)
	}
}

func TestEvictionKeepsWindowSamples(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		values := signal.Generate(signal.White, 1000, rand.New(rand.NewPCG(11, 12)))
		w := newWedge[float64](backend, monowedge.Min)
		window := 10

		for key, value := range values {
			require.NoError(t, w.Update(key, value))
			w.EvictThrough(key - window)

			assert.False(t, w.IsEmpty())
			back, err := w.Back()
			require.NoError(t, err)
			assert.Equal(t, key, back.Key)
			for sample := range w.All() {
				assert.Greater(t, sample.Key, key-window)
			}
		}
	})
}

type reading struct {
	sensor string
	level  float64
}

func TestCustomCompare(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend monowedge.Backend) {
		w := monowedge.NewBuilderWithCompare[int64, reading](monowedge.Max, func(a, b reading) int {
			switch {
			case a.level < b.level:
				return -1
			case a.level > b.level:
				return 1
			default:
				return 0
			}
		}).WithBackend(backend).Build()

		require.NoError(t, w.Update(1, reading{"a", 1.5}))
		require.NoError(t, w.Update(2, reading{"b", 0.5}))
		require.NoError(t, w.Update(3, reading{"c", 1.0}))

		front, err := w.Front()
		require.NoError(t, err)
		assert.Equal(t, "a", front.Value.sensor)
		assert.Equal(t, 2, w.Len())
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	w := monowedge.NewBuilder[int, int](monowedge.Max).WithLogger(logger).Build()

	require.NoError(t, w.Update(0, 1))
	assert.Empty(t, buf.String(), "updates without deletions are not logged")
	require.NoError(t, w.Update(1, 2))
	assert.Contains(t, buf.String(), "wedge update")
	assert.Contains(t, buf.String(), "direction=max")
	assert.Contains(t, buf.String(), "deleted=1")
}

func TestShortcuts(t *testing.T) {
	assert.Equal(t, monowedge.Min, monowedge.NewMin[int, int]().Direction())
	assert.Equal(t, monowedge.Max, monowedge.NewMax[int, int]().Direction())
	assert.Equal(t, "max", monowedge.Max.String())
	assert.Equal(t, "time-indexed", monowedge.TimeIndexed.String())

	w := monowedge.NewBuilder[int, int](monowedge.Min).WithCapacity(64).Build()
	require.NoError(t, w.Update(0, 1))
	assert.Equal(t, 1, w.Len())
}
