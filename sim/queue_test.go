package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrowd_PushPop_LastInFirstOut(t *testing.T) {
	// GIVEN a crowd with persons [A, B, C] pushed in order
	c := &Crowd{}
	a, b, cc := &Person{ID: 1}, &Person{ID: 2}, &Person{ID: 3}
	c.Push(a)
	c.Push(b)
	c.Push(cc)

	// WHEN popping everything
	// THEN persons come back in reverse push order
	assert.Same(t, cc, c.Pop())
	assert.Same(t, b, c.Pop())
	assert.Same(t, a, c.Pop())
	assert.True(t, c.IsEmpty())
}

func TestCrowd_Peek_DoesNotRemove(t *testing.T) {
	c := &Crowd{}
	a, b := &Person{ID: 1}, &Person{ID: 2}
	c.Push(a)
	c.Push(b)

	assert.Same(t, b, c.Peek())
	assert.Equal(t, 2, c.Len(), "Peek must not change the crowd size")
}

func TestCrowd_Empty_ReturnsNil(t *testing.T) {
	// GIVEN an empty crowd
	c := &Crowd{}

	// WHEN reading from it
	// THEN reads are absent-returning, not failing
	assert.Nil(t, c.Peek())
	assert.Nil(t, c.Pop())
	assert.True(t, c.IsEmpty())
}

func TestSeedCrowd_TicketProbability(t *testing.T) {
	tests := []struct {
		name       string
		prob       float64
		wantTicket int
	}{
		{"nobody ticketed", 0.0, 0},
		{"everybody ticketed", 1.0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := SeedCrowd(20, tt.prob, rand.New(rand.NewSource(1)))
			require.Equal(t, 20, c.Len())
			ticketed := 0
			for _, p := range c.Items() {
				if p.Ticketed {
					ticketed++
				}
			}
			assert.Equal(t, tt.wantTicket, ticketed)
		})
	}
}

func TestSeedCrowd_SameSeed_SameAssignment(t *testing.T) {
	c1 := SeedCrowd(50, 0.2, rand.New(rand.NewSource(42)))
	c2 := SeedCrowd(50, 0.2, rand.New(rand.NewSource(42)))
	for i := range c1.Items() {
		assert.Equal(t, c1.Items()[i].Ticketed, c2.Items()[i].Ticketed, "person %d", i)
	}
}

func TestBoardingLine_PushBeyondCapacity_Refused(t *testing.T) {
	// GIVEN a boarding line of capacity 3 that is never drained
	bl := NewBoardingLine(3)
	for i := 0; i < 3; i++ {
		require.True(t, bl.Push(&Person{ID: i, Ticketed: true}))
	}
	require.True(t, bl.IsFull())

	// WHEN a fourth ticketed person is pushed
	extra := &Person{ID: 99, Ticketed: true}
	accepted := bl.Push(extra)

	// THEN the push is refused and the length stays at capacity
	assert.False(t, accepted)
	assert.Equal(t, 3, bl.Len())
	assert.NotContains(t, bl.Items(), extra)
}

func TestBoardingLine_Pop_LastInFirstOut(t *testing.T) {
	bl := NewBoardingLine(5)
	a, b := &Person{ID: 1}, &Person{ID: 2}
	bl.Push(a)
	bl.Push(b)

	assert.Same(t, b, bl.Pop())
	assert.Same(t, a, bl.Pop())
	assert.Nil(t, bl.Pop())
}

func TestBoardingLine_Drain_EmptiesAndCounts(t *testing.T) {
	bl := NewBoardingLine(5)
	for i := 0; i < 4; i++ {
		bl.Push(&Person{ID: i})
	}

	assert.Equal(t, 4, bl.Drain())
	assert.True(t, bl.IsEmpty())
	assert.Equal(t, 0, bl.Drain(), "draining an empty line boards nobody")
}
