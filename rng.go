package epirt

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// RNG is the single seeded pseudorandom stream a Simulation draws all of
// its randomness from: contact inter-arrival times, sojourn durations,
// and the categorical draws that pick a transmitter's age class and an
// infected individual's next state. One RNG per run makes a run fully
// reproducible from its seed (spec.md's seed-determinism law).
type RNG struct {
	src  *rand.Rand
	seed uint32
}

// NewRNG seeds a stream from a u32 seed, the unit spec.md requires for
// reproducibility across runs and, ideally, across ports.
func NewRNG(seed uint32) *RNG {
	return &RNG{
		src:  rand.New(rand.NewSource(int64(seed))),
		seed: seed,
	}
}

// Seed returns the seed this stream was constructed with, for recording
// into the Meta sink table.
func (r *RNG) Seed() uint32 {
	return r.seed
}

// Uniform draws a sample from [0, 1).
func (r *RNG) Uniform() float64 {
	return r.src.Float64()
}

// Exponential draws Exponential(rate). A zero rate returns +Inf: no
// event of this kind will ever occur, which is how the engine represents
// an age class with no susceptibles or no infectious contacts.
func (r *RNG) Exponential(rate float64) float64 {
	if rate < 0 {
		panic("epirt: negative rate passed to Exponential")
	}
	if rate == 0 {
		return math.Inf(1)
	}
	d := distuv.Exponential{Rate: rate, Src: r.src}
	return d.Rand()
}

// Gamma draws Gamma(shape, scale). Both parameters must be strictly
// positive; this is the sojourn-time distribution for infected states.
func (r *RNG) Gamma(shape, scale float64) float64 {
	if shape <= 0 {
		panic("epirt: non-positive shape passed to Gamma")
	}
	if scale <= 0 {
		panic("epirt: non-positive scale passed to Gamma")
	}
	// gonum's Gamma is parameterized by rate (Beta = 1/scale), not scale.
	d := distuv.Gamma{Alpha: shape, Beta: 1 / scale, Src: r.src}
	return d.Rand()
}

// Categorical draws an index i in [0, n) from a cumulative distribution
// function. cdf may have length n or n-1; when it has length n-1 the
// final probability mass is implicit (sums to 1). The smallest index
// with u < cdf[i] is returned, falling back to n-1 when none qualifies
// (including when n == 1, which has no cdf entries at all).
func (r *RNG) Categorical(n int, cdf []float64) int {
	if len(cdf) != n && len(cdf) != n-1 {
		panic("epirt: cdf length must be n or n-1")
	}
	if n == 1 {
		return 0
	}
	u := r.src.Float64()
	for i := 0; i < n-1; i++ {
		if u < cdf[i] {
			return i
		}
	}
	return n - 1
}

// WeightsToCDF normalizes a weight vector into a cumulative distribution
// function suitable for Categorical. All weights must be non-negative
// and sum to a positive value.
func WeightsToCDF(weights []float64) []float64 {
	return cumulativeSum(weightsToProbabilities(weights))
}

func weightsToProbabilities(weights []float64) []float64 {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	probs := make([]float64, len(weights))
	for i, w := range weights {
		probs[i] = w / sum
	}
	return probs
}

func cumulativeSum(values []float64) []float64 {
	out := make([]float64, len(values))
	var running float64
	for i, v := range values {
		running += v
		out[i] = running
	}
	return out
}
