// Defines the Person entity that flows through the crowd, ticket shop and boarding line.

package sim

import (
	"fmt"
	"math/rand"
)

// Person is the only entity moved between containers. Ticketed is the single
// attribute that drives routing; ID exists for diagnostics only.
type Person struct {
	ID       int
	Ticketed bool
}

func (p *Person) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("person_%d(ticketed=%t)", p.ID, p.Ticketed)
}

// SeedCrowd creates a Crowd of n persons. Each person is independently
// ticketed with probability ticketProb, using one rng draw per person.
func SeedCrowd(n int, ticketProb float64, rng *rand.Rand) *Crowd {
	c := &Crowd{stack: make([]*Person, 0, n)}
	for i := 0; i < n; i++ {
		c.Push(&Person{ID: i, Ticketed: rng.Float64() < ticketProb})
	}
	return c
}
