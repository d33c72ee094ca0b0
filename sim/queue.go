// Implements the two stack-disciplined containers: the waiting Crowd and the
// bounded BoardingLine. Persons are pushed and popped at the tail.

package sim

import (
	"fmt"
	"strings"
)

// Crowd is the unbounded last-in-first-out pool of persons awaiting routing.
// Persons coming back from the ticket shop are pushed on top, so they are
// the next to be routed.
type Crowd struct {
	stack []*Person
}

// Push adds a person to the top of the crowd.
func (c *Crowd) Push(p *Person) {
	if p == nil {
		panic("Crowd.Push: person must not be nil")
	}
	c.stack = append(c.stack, p)
}

// Pop removes and returns the top person. Returns nil if the crowd is empty.
func (c *Crowd) Pop() *Person {
	if len(c.stack) == 0 {
		return nil
	}
	p := c.stack[len(c.stack)-1]
	c.stack[len(c.stack)-1] = nil
	c.stack = c.stack[:len(c.stack)-1]
	return p
}

// Peek returns the top person without removing it.
// Returns nil if the crowd is empty.
func (c *Crowd) Peek() *Person {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

func (c *Crowd) Len() int      { return len(c.stack) }
func (c *Crowd) IsEmpty() bool { return len(c.stack) == 0 }

// Items returns the crowd contents bottom to top.
// The returned slice is internal storage: callers MUST NOT modify it.
func (c *Crowd) Items() []*Person {
	return c.stack
}

func (c *Crowd) String() string {
	return formatPersons(c.stack)
}

// BoardingLine is a bounded last-in-first-out staging buffer between the
// crowd and the vehicle. A push against a full line is refused; what happens
// to the refused person is decided by the caller's OverflowPolicy.
type BoardingLine struct {
	capacity int
	stack    []*Person
}

// NewBoardingLine creates an empty boarding line holding at most capacity persons.
func NewBoardingLine(capacity int) *BoardingLine {
	return &BoardingLine{
		capacity: capacity,
		stack:    make([]*Person, 0, capacity),
	}
}

// Push appends p if the line has room and reports whether it was accepted.
func (bl *BoardingLine) Push(p *Person) bool {
	if p == nil {
		panic("BoardingLine.Push: person must not be nil")
	}
	if len(bl.stack) >= bl.capacity {
		return false
	}
	bl.stack = append(bl.stack, p)
	return true
}

// Pop removes and returns the last person pushed. Returns nil if the line is empty.
func (bl *BoardingLine) Pop() *Person {
	if len(bl.stack) == 0 {
		return nil
	}
	p := bl.stack[len(bl.stack)-1]
	bl.stack[len(bl.stack)-1] = nil
	bl.stack = bl.stack[:len(bl.stack)-1]
	return p
}

// Drain pops every waiting person and returns how many there were.
func (bl *BoardingLine) Drain() int {
	n := 0
	for bl.Pop() != nil {
		n++
	}
	return n
}

func (bl *BoardingLine) Len() int      { return len(bl.stack) }
func (bl *BoardingLine) Capacity() int { return bl.capacity }
func (bl *BoardingLine) IsEmpty() bool { return len(bl.stack) == 0 }
func (bl *BoardingLine) IsFull() bool  { return len(bl.stack) >= bl.capacity }

// Items returns the line contents in push order.
// The returned slice is internal storage: callers MUST NOT modify it.
func (bl *BoardingLine) Items() []*Person {
	return bl.stack
}

func (bl *BoardingLine) String() string {
	return formatPersons(bl.stack)
}

func formatPersons(persons []*Person) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range persons {
		sb.WriteString(fmt.Sprint(p))
		if i < len(persons)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
