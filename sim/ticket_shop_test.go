package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketShop_Push_FirstFit(t *testing.T) {
	// GIVEN a shop with two lines of capacity 2
	ts := NewTicketShop(2, 2, 100)

	// WHEN five persons are pushed
	accepted := 0
	for i := 0; i < 5; i++ {
		if ts.Push(&Person{ID: i}) {
			accepted++
		}
	}

	// THEN line 0 fills before line 1 receives anyone, and the fifth is refused
	assert.Equal(t, 4, accepted)
	assert.Equal(t, []int{0, 1}, personIDs(ts.Lines()[0].Items()))
	assert.Equal(t, []int{2, 3}, personIDs(ts.Lines()[1].Items()))
	assert.True(t, ts.IsFull())
	assert.Equal(t, 4, ts.TotalSize())
}

func TestTicketShop_IsFull_OnlyWhenEveryLineFull(t *testing.T) {
	ts := NewTicketShop(2, 1, 100)
	assert.True(t, ts.IsEmpty())
	ts.Push(&Person{ID: 1})
	assert.False(t, ts.IsFull(), "one line still has room")
	assert.False(t, ts.IsEmpty())
	ts.Push(&Person{ID: 2})
	assert.True(t, ts.IsFull())
}

func TestTicketShop_StartPurchase_EmptyLine_NoOp(t *testing.T) {
	ts := NewTicketShop(1, 3, 100)
	assert.Nil(t, ts.StartPurchase(0, 0, &Crowd{}))
	assert.False(t, ts.Lines()[0].InFlight())
}

func TestTicketShop_StartPurchase_AtMostOneInFlight(t *testing.T) {
	// GIVEN a line with two persons
	ts := NewTicketShop(1, 3, 100)
	crowd := &Crowd{}
	a, b := &Person{ID: 1}, &Person{ID: 2}
	ts.Push(a)
	ts.Push(b)

	// WHEN StartPurchase is invoked on consecutive ticks
	first := ts.StartPurchase(0, 10, crowd)
	second := ts.StartPurchase(0, 20, crowd)

	// THEN only the first call starts a purchase, for the front person
	require.NotNil(t, first)
	assert.Nil(t, second, "a purchase is already in flight")
	assert.Same(t, a, first.Person)
	assert.Equal(t, int64(110), first.Timestamp())
	assert.Same(t, first, ts.Lines()[0].inFlight)
}

func TestTicketShop_CompletePurchase_TicketsAndReturnsToCrowd(t *testing.T) {
	// GIVEN a purchase in flight for the front of a two-person line
	ts := NewTicketShop(1, 3, 100)
	crowd := &Crowd{}
	a, b := &Person{ID: 1}, &Person{ID: 2}
	ts.Push(a)
	ts.Push(b)
	ev := ts.StartPurchase(0, 0, crowd)
	require.NotNil(t, ev)

	// WHEN the purchase completes
	ts.completePurchase(ev)

	// THEN the person holds a ticket, left the line and is on top of the crowd
	assert.True(t, a.Ticketed)
	assert.Equal(t, []int{2}, personIDs(ts.Lines()[0].Items()))
	assert.False(t, ts.Lines()[0].InFlight())
	assert.Same(t, a, crowd.Peek())
	assert.False(t, b.Ticketed)

	// AND the next person can be served
	next := ts.StartPurchase(0, 100, crowd)
	require.NotNil(t, next)
	assert.Same(t, b, next.Person)
}

func TestTicketShop_LinesProgressIndependently(t *testing.T) {
	ts := NewTicketShop(2, 1, 50)
	crowd := &Crowd{}
	ts.Push(&Person{ID: 1})
	ts.Push(&Person{ID: 2})

	ev0 := ts.StartPurchase(0, 0, crowd)
	ev1 := ts.StartPurchase(1, 5, crowd)
	require.NotNil(t, ev0)
	require.NotNil(t, ev1)

	ts.completePurchase(ev1)
	assert.True(t, ts.Lines()[0].InFlight(), "line 0 is unaffected by line 1 completing")
	assert.False(t, ts.Lines()[1].InFlight())
	assert.Equal(t, 1, ts.TotalSize())
}

func personIDs(persons []*Person) []int {
	ids := make([]int, 0, len(persons))
	for _, p := range persons {
		ids = append(ids, p.ID)
	}
	return ids
}
