package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedStreams_CrowdStreamIsTheSeedItself(t *testing.T) {
	s := NewSeedStreams(42)
	ref := rand.New(rand.NewSource(42))

	for i := 0; i < 5; i++ {
		assert.Equal(t, ref.Float64(), s.Stream(StreamCrowd).Float64(), "draw %d", i)
	}
}

func TestSeedStreams_StreamsAreIsolated(t *testing.T) {
	// GIVEN two stream sets from the same seed
	a := NewSeedStreams(42)
	b := NewSeedStreams(42)

	// WHEN one of them consumes its crowd stream
	for i := 0; i < 100; i++ {
		a.Stream(StreamCrowd).Float64()
	}

	// THEN its sweep stream is unaffected
	assert.Equal(t, b.Stream(StreamSweep).Int63(), a.Stream(StreamSweep).Int63())
}

func TestSeedStreams_SameNameContinuesSequence(t *testing.T) {
	s := NewSeedStreams(1)
	assert.Same(t, s.Stream(StreamSweep), s.Stream(StreamSweep))
}

func TestSweepSeeds_DeterministicAndDistinctFromCrowd(t *testing.T) {
	seeds := SweepSeeds(100, 8)

	require.Len(t, seeds, 8)
	assert.Equal(t, seeds, SweepSeeds(100, 8))
	assert.Equal(t, seeds[:3], SweepSeeds(100, 3), "a shorter sweep is a prefix of a longer one")
	assert.NotEqual(t, seeds, SweepSeeds(101, 8))

	crowd := rand.New(rand.NewSource(100))
	assert.NotEqual(t, crowd.Int63(), seeds[0], "sweep seeds do not replay the crowd stream")

	seen := make(map[int64]bool)
	for _, s := range seeds {
		assert.GreaterOrEqual(t, s, int64(0))
		assert.False(t, seen[s], "duplicate seed %d", s)
		seen[s] = true
	}
}
