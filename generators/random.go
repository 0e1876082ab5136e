package generators

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
)

// Streams hands out one independent generator per named stage, all derived
// from a single seed. A stage's output never depends on how much another
// stage consumed.
type Streams struct {
	seed uint64
}

func NewStreams(seed uint64) Streams {
	return Streams{seed: seed}
}

// Seed returns the top-level seed.
func (s Streams) Seed() uint64 { return s.seed }

// Stream returns a fresh generator for stage. Two calls with the same stage
// name yield generators producing identical sequences.
func (s Streams) Stream(stage string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(stage))
	return rand.New(rand.NewPCG(s.seed, h.Sum64()))
}

// Stage names.
const (
	StageManholes    = "manholes"
	StageCoordinates = "coordinates"
	StagePipes       = "pipes"
)

// Weighted is one outcome of a categorical distribution.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// Choose draws one value with probability proportional to its weight.
func Choose[T any](rng *rand.Rand, choices []Weighted[T]) T {
	var total float64
	for _, c := range choices {
		total += c.Weight
	}
	r := rng.Float64() * total
	for _, c := range choices {
		if r < c.Weight {
			return c.Value
		}
		r -= c.Weight
	}
	return choices[len(choices)-1].Value
}

// Uniform draws from [lo, hi).
func Uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// IntBetween draws an integer from [lo, hi).
func IntBetween(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo)
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
