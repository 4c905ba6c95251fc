package sampler

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// streamSalt decorrelates the two PCG words derived from a single seed.
const streamSalt = 0x9e3779b97f4a7c15

// Stream is a seedable pseudo-random source. Every random decision a sampler
// makes is drawn from one Stream, so identical seeds give identical output.
// A Stream is not safe for concurrent use.
type Stream struct {
	pcg *rand.PCG
	rng *rand.Rand
}

// NewStream returns a Stream seeded with seed.
func NewStream(seed uint64) *Stream {
	pcg := rand.NewPCG(seed, seed^streamSalt)
	return &Stream{pcg: pcg, rng: rand.New(pcg)}
}

// Seed resets the stream. Seeding twice with the same value is idempotent.
func (s *Stream) Seed(seed uint64) {
	s.pcg.Seed(seed, seed^streamSalt)
}

// IntN returns a uniform integer in [0, n). n must be positive.
func (s *Stream) IntN(n int) int { return s.rng.IntN(n) }

// Between returns a uniform integer in [lo, hi] inclusive. hi must not be below lo.
func (s *Stream) Between(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}

// Choose returns k distinct indices drawn uniformly from [0, n) in random order.
// k must not exceed n.
func (s *Stream) Choose(k, n int) []int {
	if k == 0 {
		return nil
	}
	idx := make([]int, k)
	sampleuv.WithoutReplacement(idx, n, s.pcg)
	return idx
}

// Shuffle permutes n elements in place through swap.
func (s *Stream) Shuffle(n int, swap func(i, j int)) { s.rng.Shuffle(n, swap) }
