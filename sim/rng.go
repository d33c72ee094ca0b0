package sim

import (
	"hash/fnv"
	"math/rand"
)

// Named random streams derived from one seed. Each consumer draws from its
// own stream, so adding draws to one never shifts the values seen by another.
const (
	// StreamCrowd assigns initial tickets. It is seeded with the seed itself,
	// so a crowd built from seed s matches rand.New(rand.NewSource(s)).
	StreamCrowd = "crowd"
	// StreamSweep yields the per-run seeds of a sweep.
	StreamSweep = "sweep"
)

// SeedStreams hands out one deterministic *rand.Rand per stream name.
// Not safe for concurrent use.
type SeedStreams struct {
	seed    int64
	streams map[string]*rand.Rand
}

// NewSeedStreams returns the stream set rooted at seed.
func NewSeedStreams(seed int64) *SeedStreams {
	return &SeedStreams{seed: seed, streams: make(map[string]*rand.Rand)}
}

// Stream returns the generator for name, creating it on first use. Later
// calls with the same name continue the same sequence.
func (s *SeedStreams) Stream(name string) *rand.Rand {
	if r, ok := s.streams[name]; ok {
		return r
	}
	r := rand.New(rand.NewSource(streamSeed(s.seed, name)))
	s.streams[name] = r
	return r
}

func streamSeed(seed int64, name string) int64 {
	if name == StreamCrowd {
		return seed
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	return seed ^ int64(h.Sum64())
}

// SweepSeeds returns n run seeds drawn from the sweep stream of base.
// Seeds are non-negative and the sequence is fixed for a given base.
func SweepSeeds(base int64, n int) []int64 {
	r := NewSeedStreams(base).Stream(StreamSweep)
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = r.Int63()
	}
	return seeds
}
