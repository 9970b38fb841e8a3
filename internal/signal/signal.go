// Package signal synthesizes test signals and computes brute force window extrema for them.
package signal

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/samber/lo"
)

// Kind identifies a synthesized signal.
type Kind string

const (
	White     Kind = "white"
	WhiteUp   Kind = "white-ascending"
	WhiteDown Kind = "white-descending"
	Brown     Kind = "brown"
	Red       Kind = "red"
	Sine      Kind = "sine"
	Square    Kind = "square"
	NoisySine Kind = "noisy-sine"
)

// Kinds returns every signal kind.
func Kinds() []Kind {
	return []Kind{White, WhiteUp, WhiteDown, Brown, Red, Sine, Square, NoisySine}
}

// ParseKind returns the Kind with the name.
func ParseKind(name string) (Kind, error) {
	for _, kind := range Kinds() {
		if string(kind) == name {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown signal kind %q", name)
}

// Generate returns n samples of the signal kind, drawing noise from rng.
func Generate(kind Kind, n int, rng *rand.Rand) []float64 {
	values := make([]float64, n)
	var prevNoise, brown float64
	for i := range values {
		noise := 2*rng.Float64() - 1
		sine := math.Sin(.01 * float64(i))
		brown += noise

		switch kind {
		case White:
			values[i] = noise
		case WhiteUp:
			values[i] = .01*float64(i) + noise
		case WhiteDown:
			values[i] = -.01*float64(i) + noise
		case Brown:
			values[i] = brown
		case Red:
			values[i] = noise - prevNoise
		case Sine:
			values[i] = sine
		case Square:
			if i&64 != 0 {
				values[i] = 1
			} else {
				values[i] = -1
			}
		case NoisySine:
			values[i] = sine + noise
		}
		prevNoise = noise
	}
	return values
}

// Reference returns the min and max of values over the window [t-interval+1, t], clipped to the start of values. An
// interval of zero or less covers every value up to t.
func Reference(values []float64, t int, interval int) (minValue float64, maxValue float64) {
	start := 0
	if interval > 0 {
		start = max(0, t-interval+1)
	}
	window := values[start : t+1]
	return lo.Min(window), lo.Max(window)
}
